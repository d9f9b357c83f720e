package service

import (
	"sort"
	"time"

	"github.com/fenix-platform/whatsapp-relay/internal/model"
	"github.com/fenix-platform/whatsapp-relay/internal/store"
	"github.com/fenix-platform/whatsapp-relay/pkg/logger"
)

// ConversationService answers analytics and conversation-listing queries.
// Everything is derived from the business message log at call time; nothing
// is cached, so queries always reflect the latest ingested state.
type ConversationService struct {
	store  store.MessageStore
	logger *logger.Logger
	now    func() time.Time
}

// NewConversationService creates a new conversation query service.
func NewConversationService(st store.MessageStore, log *logger.Logger) *ConversationService {
	return &ConversationService{
		store:  st,
		logger: log,
		now:    time.Now,
	}
}

// Analytics computes the usage snapshot for a business. Window boundaries use
// server-local time: "today" starts at the local midnight, "week" is a rolling
// 7x24h window, "month" starts at the local first of the month.
func (s *ConversationService) Analytics(businessID string) *model.Analytics {
	msgs := s.store.AllForTenant(businessID)
	now := s.now()

	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := now.Add(-7 * 24 * time.Hour)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	clients := make(map[string]struct{})
	for _, m := range msgs {
		clients[m.ClientPhone] = struct{}{}
	}

	return &model.Analytics{
		TotalMessages: len(msgs),
		TotalClients:  len(clients),
		TodayStats:    windowStats(msgs, todayStart),
		WeekStats:     windowStats(msgs, weekStart),
		MonthStats:    windowStats(msgs, monthStart),
	}
}

// windowStats aggregates all messages with timestamp >= start.
func windowStats(msgs []model.Message, start time.Time) model.WindowStats {
	var stats model.WindowStats
	clients := make(map[string]struct{})

	for _, m := range msgs {
		if m.Timestamp.Before(start) {
			continue
		}
		stats.Messages++
		clients[m.ClientPhone] = struct{}{}
		switch m.Direction {
		case model.DirectionInbound:
			stats.Inbound++
		case model.DirectionOutbound:
			stats.Outbound++
		}
	}

	stats.Clients = len(clients)
	return stats
}

// List builds the paginated conversation index for a business. Summaries are
// grouped by client, ordered by last-message timestamp descending; a page
// past the end yields an empty page with correct totals.
func (s *ConversationService) List(businessID string, q model.ConversationQuery) *model.ListConversationsResponse {
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = 20
	}

	msgs := s.store.AllForTenant(businessID)

	var order []string
	groups := make(map[string][]model.Message)
	for _, m := range msgs {
		if q.ClientPhone != "" && m.ClientPhone != q.ClientPhone {
			continue
		}
		if _, seen := groups[m.ClientPhone]; !seen {
			order = append(order, m.ClientPhone)
		}
		groups[m.ClientPhone] = append(groups[m.ClientPhone], m)
	}

	summaries := make([]model.ConversationSummary, 0, len(order))
	for _, phone := range order {
		group := groups[phone]

		// Equal timestamps resolve to the later-appended message.
		last := group[0]
		unread := 0
		for _, m := range group {
			if !m.Timestamp.Before(last.Timestamp) {
				last = m
			}
			if m.Direction == model.DirectionInbound && m.Status != model.StatusRead {
				unread++
			}
		}

		summaries = append(summaries, model.ConversationSummary{
			ClientPhone: phone,
			LastMessage: model.LastMessage{
				Content:   last.Content,
				Timestamp: last.Timestamp,
				Direction: last.Direction,
				Type:      last.Type,
			},
			MessageCount: len(group),
			UnreadCount:  unread,
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].LastMessage.Timestamp.After(summaries[j].LastMessage.Timestamp)
	})

	total := len(summaries)
	totalPages := (total + limit - 1) / limit

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return &model.ListConversationsResponse{
		Conversations: summaries[start:end],
		Pagination: model.Pagination{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages,
		},
	}
}
