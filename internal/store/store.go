// Package store holds the in-memory message history for every business.
//
// Each business owns a single canonical append-only log of message records.
// The per-conversation view and the business-wide view are both slices of
// pointers into that log, so a status update lands on one record and is
// visible through every view. Views are capped independently: the business
// view keeps the last TenantCap messages, each conversation view keeps the
// last ConversationCap, evicting oldest-first.
package store

import (
	"sync"
	"time"

	"github.com/fenix-platform/whatsapp-relay/internal/model"
)

const (
	// ConversationCap bounds the per-(business, client) view.
	ConversationCap = 100
	// TenantCap bounds the business-wide view used for analytics and listing.
	TenantCap = 1000
)

// MessageStore is the conversation state engine consumed by the ingestion
// pipeline and the query surface. Implementations must support concurrent
// callers and never block on network I/O.
type MessageStore interface {
	// Append records a message in the business view and the conversation
	// view, evicting oldest entries beyond the caps. It always succeeds;
	// construction-time validation is the caller's responsibility.
	Append(msg model.Message)

	// RecentContext returns up to limit most recent messages for one
	// (business, client) conversation, oldest first.
	RecentContext(businessID, clientPhone string, limit int) []model.Message

	// UpdateStatus applies a delivery-status transition to the message with
	// the given provider id. Transitions only move forward; an unknown id is
	// a no-op, since status events may arrive after the message was evicted.
	UpdateStatus(messageID string, status model.Status, eventTime time.Time)

	// AllForTenant returns a consistent snapshot of the business view in
	// append order.
	AllForTenant(businessID string) []model.Message
}

type businessLog struct {
	mu     sync.RWMutex
	all    []*model.Message
	byPeer map[string][]*model.Message
	byID   map[string]*model.Message
}

// MemoryStore is the default MessageStore backend. State lives for the
// process lifetime only; durability is out of scope and a persistent backend
// can be substituted behind the MessageStore interface.
type MemoryStore struct {
	mu         sync.RWMutex
	businesses map[string]*businessLog

	convCap   int
	tenantCap int
}

// NewMemoryStore creates a store with the default caps.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithCaps(ConversationCap, TenantCap)
}

// NewMemoryStoreWithCaps creates a store with explicit view caps.
func NewMemoryStoreWithCaps(convCap, tenantCap int) *MemoryStore {
	return &MemoryStore{
		businesses: make(map[string]*businessLog),
		convCap:    convCap,
		tenantCap:  tenantCap,
	}
}

func (s *MemoryStore) logFor(businessID string) *businessLog {
	s.mu.RLock()
	bl, ok := s.businesses[businessID]
	s.mu.RUnlock()
	if ok {
		return bl
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if bl, ok = s.businesses[businessID]; ok {
		return bl
	}
	bl = &businessLog{
		byPeer: make(map[string][]*model.Message),
		byID:   make(map[string]*model.Message),
	}
	s.businesses[businessID] = bl
	return bl
}

// Append implements MessageStore.
func (s *MemoryStore) Append(msg model.Message) {
	bl := s.logFor(msg.BusinessID)
	m := &msg

	bl.mu.Lock()
	defer bl.mu.Unlock()

	bl.all = append(bl.all, m)
	if len(bl.all) > s.tenantCap {
		evicted := bl.all[0]
		bl.all = bl.all[1:]
		// Once a record leaves the business view it no longer receives
		// status updates, even if the smaller conversation view still
		// holds it; dropping late status events is allowed by contract.
		if bl.byID[evicted.ID] == evicted {
			delete(bl.byID, evicted.ID)
		}
	}

	peers := append(bl.byPeer[msg.ClientPhone], m)
	if len(peers) > s.convCap {
		peers = peers[1:]
	}
	bl.byPeer[msg.ClientPhone] = peers
	bl.byID[msg.ID] = m
}

// RecentContext implements MessageStore.
func (s *MemoryStore) RecentContext(businessID, clientPhone string, limit int) []model.Message {
	if limit <= 0 {
		return nil
	}

	bl := s.logFor(businessID)
	bl.mu.RLock()
	defer bl.mu.RUnlock()

	peers := bl.byPeer[clientPhone]
	if len(peers) > limit {
		peers = peers[len(peers)-limit:]
	}

	out := make([]model.Message, len(peers))
	for i, m := range peers {
		out[i] = *m
	}
	return out
}

// UpdateStatus implements MessageStore. Provider message ids are globally
// unique, so the first business holding the id wins the (at most one) match.
func (s *MemoryStore) UpdateStatus(messageID string, status model.Status, eventTime time.Time) {
	_ = eventTime // event time is advisory; message timestamps are immutable

	if status.Rank() < 0 {
		return
	}

	s.mu.RLock()
	logs := make([]*businessLog, 0, len(s.businesses))
	for _, bl := range s.businesses {
		logs = append(logs, bl)
	}
	s.mu.RUnlock()

	for _, bl := range logs {
		bl.mu.Lock()
		if m, ok := bl.byID[messageID]; ok {
			if status.Rank() > m.Status.Rank() {
				m.Status = status
			}
			bl.mu.Unlock()
			return
		}
		bl.mu.Unlock()
	}
}

// AllForTenant implements MessageStore.
func (s *MemoryStore) AllForTenant(businessID string) []model.Message {
	bl := s.logFor(businessID)
	bl.mu.RLock()
	defer bl.mu.RUnlock()

	out := make([]model.Message, len(bl.all))
	for i, m := range bl.all {
		out[i] = *m
	}
	return out
}
