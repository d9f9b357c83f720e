package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/fenix-platform/whatsapp-relay/internal/model"
	"github.com/fenix-platform/whatsapp-relay/internal/store"
	"github.com/fenix-platform/whatsapp-relay/pkg/logger"
)

func newConversationService(st store.MessageStore, now time.Time) *ConversationService {
	svc := NewConversationService(st, logger.NewNop())
	svc.now = func() time.Time { return now }
	return svc
}

func appendMsg(st store.MessageStore, id, phone string, dir model.Direction, ts time.Time) {
	status := model.StatusReceived
	if dir == model.DirectionOutbound {
		status = model.StatusSent
	}
	st.Append(model.Message{
		ID:          id,
		BusinessID:  "biz",
		ClientPhone: phone,
		Direction:   dir,
		Type:        "text",
		Content:     "msg " + id,
		Timestamp:   ts,
		Status:      status,
	})
}

// Window boundaries follow server-local wall-clock time, mirroring the
// deployed behavior; the fixed "now" below keeps the assertions stable.
func TestAnalyticsWindows(t *testing.T) {
	st := store.NewMemoryStore()
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.Local)
	svc := newConversationService(st, now)

	appendMsg(st, "m1", "alice", model.DirectionInbound, now.Add(-1*time.Hour))    // today
	appendMsg(st, "m2", "alice", model.DirectionOutbound, now.Add(-2*time.Hour))   // today
	appendMsg(st, "m3", "bob", model.DirectionInbound, now.Add(-3*24*time.Hour))   // week
	appendMsg(st, "m4", "carol", model.DirectionInbound, now.Add(-10*24*time.Hour)) // month only
	appendMsg(st, "m5", "dave", model.DirectionInbound, now.Add(-40*24*time.Hour)) // out of every window

	a := svc.Analytics("biz")

	if a.TotalMessages != 5 {
		t.Fatalf("TotalMessages = %d, want 5", a.TotalMessages)
	}
	if a.TotalClients != 4 {
		t.Fatalf("TotalClients = %d, want 4", a.TotalClients)
	}

	if got, want := a.TodayStats, (model.WindowStats{Messages: 2, Clients: 1, Inbound: 1, Outbound: 1}); got != want {
		t.Fatalf("TodayStats = %+v, want %+v", got, want)
	}
	if got, want := a.WeekStats, (model.WindowStats{Messages: 3, Clients: 2, Inbound: 2, Outbound: 1}); got != want {
		t.Fatalf("WeekStats = %+v, want %+v", got, want)
	}
	if got, want := a.MonthStats, (model.WindowStats{Messages: 4, Clients: 3, Inbound: 3, Outbound: 1}); got != want {
		t.Fatalf("MonthStats = %+v, want %+v", got, want)
	}
}

func TestAnalyticsCountsNeverDecreaseWithinWindow(t *testing.T) {
	st := store.NewMemoryStore()
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.Local)
	svc := newConversationService(st, now)

	var prev model.WindowStats
	for i := 0; i < 10; i++ {
		appendMsg(st, fmt.Sprintf("m%d", i), "alice", model.DirectionInbound, now.Add(-time.Duration(i)*time.Minute))
		got := svc.Analytics("biz").TodayStats
		if got.Messages < prev.Messages || got.Clients < prev.Clients || got.Inbound < prev.Inbound {
			t.Fatalf("today stats decreased: %+v after %+v", got, prev)
		}
		prev = got
	}
}

func TestAnalyticsEmptyBusiness(t *testing.T) {
	svc := newConversationService(store.NewMemoryStore(), time.Now())

	a := svc.Analytics("nobody")
	if a.TotalMessages != 0 || a.TotalClients != 0 || a.TodayStats.Messages != 0 {
		t.Fatalf("expected zero analytics, got %+v", a)
	}
}

func TestListSingleConversationSummary(t *testing.T) {
	st := store.NewMemoryStore()
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.Local)
	svc := newConversationService(st, now)

	appendMsg(st, "in1", "alice", model.DirectionInbound, now.Add(-50*time.Minute))
	appendMsg(st, "out1", "alice", model.DirectionOutbound, now.Add(-40*time.Minute))
	appendMsg(st, "in2", "alice", model.DirectionInbound, now.Add(-30*time.Minute))
	appendMsg(st, "out2", "alice", model.DirectionOutbound, now.Add(-20*time.Minute))
	appendMsg(st, "in3", "alice", model.DirectionInbound, now.Add(-10*time.Minute))

	resp := svc.List("biz", model.ConversationQuery{Page: 1, Limit: 10})

	if len(resp.Conversations) != 1 {
		t.Fatalf("conversations = %d, want 1", len(resp.Conversations))
	}
	conv := resp.Conversations[0]
	if conv.ClientPhone != "alice" {
		t.Fatalf("client = %s, want alice", conv.ClientPhone)
	}
	if conv.MessageCount != 5 {
		t.Fatalf("message count = %d, want 5", conv.MessageCount)
	}
	if conv.LastMessage.Content != "msg in3" {
		t.Fatalf("last message = %q, want msg in3", conv.LastMessage.Content)
	}
	if conv.UnreadCount != 3 {
		t.Fatalf("unread = %d, want 3", conv.UnreadCount)
	}

	// Reading one inbound message drops the unread count.
	st.UpdateStatus("in2", model.StatusRead, now)
	resp = svc.List("biz", model.ConversationQuery{Page: 1, Limit: 10})
	if resp.Conversations[0].UnreadCount != 2 {
		t.Fatalf("unread after read = %d, want 2", resp.Conversations[0].UnreadCount)
	}
}

func TestListSortedByLastMessageDescending(t *testing.T) {
	st := store.NewMemoryStore()
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.Local)
	svc := newConversationService(st, now)

	appendMsg(st, "m1", "alice", model.DirectionInbound, now.Add(-3*time.Hour))
	appendMsg(st, "m2", "bob", model.DirectionInbound, now.Add(-1*time.Hour))
	appendMsg(st, "m3", "carol", model.DirectionInbound, now.Add(-2*time.Hour))

	resp := svc.List("biz", model.ConversationQuery{Page: 1, Limit: 10})

	want := []string{"bob", "carol", "alice"}
	for i, phone := range want {
		if resp.Conversations[i].ClientPhone != phone {
			t.Fatalf("conversation %d = %s, want %s", i, resp.Conversations[i].ClientPhone, phone)
		}
	}
}

func TestListLastMessageTieBreakPrefersLaterAppend(t *testing.T) {
	st := store.NewMemoryStore()
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.Local)
	svc := newConversationService(st, now)

	ts := now.Add(-time.Hour)
	appendMsg(st, "first", "alice", model.DirectionInbound, ts)
	appendMsg(st, "second", "alice", model.DirectionOutbound, ts)

	resp := svc.List("biz", model.ConversationQuery{Page: 1, Limit: 10})
	if resp.Conversations[0].LastMessage.Content != "msg second" {
		t.Fatalf("last message = %q, want the later-appended one", resp.Conversations[0].LastMessage.Content)
	}
}

func TestListPagination(t *testing.T) {
	st := store.NewMemoryStore()
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.Local)
	svc := newConversationService(st, now)

	for i := 0; i < 5; i++ {
		appendMsg(st, fmt.Sprintf("m%d", i), fmt.Sprintf("client-%d", i), model.DirectionInbound, now.Add(-time.Duration(i)*time.Hour))
	}

	resp := svc.List("biz", model.ConversationQuery{Page: 1, Limit: 2})
	if len(resp.Conversations) != 2 {
		t.Fatalf("page 1 size = %d, want 2", len(resp.Conversations))
	}
	if resp.Pagination.Total != 5 || resp.Pagination.TotalPages != 3 {
		t.Fatalf("pagination = %+v", resp.Pagination)
	}

	resp = svc.List("biz", model.ConversationQuery{Page: 3, Limit: 2})
	if len(resp.Conversations) != 1 {
		t.Fatalf("page 3 size = %d, want 1", len(resp.Conversations))
	}

	// Past the last page: empty page, totals intact.
	resp = svc.List("biz", model.ConversationQuery{Page: 4, Limit: 2})
	if len(resp.Conversations) != 0 {
		t.Fatalf("page 4 size = %d, want 0", len(resp.Conversations))
	}
	if resp.Pagination.Total != 5 || resp.Pagination.TotalPages != 3 || resp.Pagination.Page != 4 {
		t.Fatalf("pagination = %+v", resp.Pagination)
	}
}

func TestListClientFilter(t *testing.T) {
	st := store.NewMemoryStore()
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.Local)
	svc := newConversationService(st, now)

	appendMsg(st, "m1", "alice", model.DirectionInbound, now.Add(-2*time.Hour))
	appendMsg(st, "m2", "bob", model.DirectionInbound, now.Add(-1*time.Hour))

	resp := svc.List("biz", model.ConversationQuery{Page: 1, Limit: 10, ClientPhone: "alice"})
	if len(resp.Conversations) != 1 || resp.Conversations[0].ClientPhone != "alice" {
		t.Fatalf("filtered conversations = %+v", resp.Conversations)
	}
	if resp.Pagination.Total != 1 {
		t.Fatalf("filtered total = %d, want 1", resp.Pagination.Total)
	}
}
