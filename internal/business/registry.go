// Package business stores tenant configuration for the relay.
package business

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fenix-platform/whatsapp-relay/internal/model"
	"github.com/fenix-platform/whatsapp-relay/pkg/logger"
)

// Registry is an in-memory business configuration store, indexed by business
// id and by WhatsApp phone-number id. The phone-number index is the routing
// table used to match inbound webhook events to a business.
type Registry struct {
	logger *logger.Logger

	mu      sync.RWMutex
	byID    map[string]*model.Business
	byPhone map[string]*model.Business
}

// NewRegistry creates an empty registry.
func NewRegistry(log *logger.Logger) *Registry {
	return &Registry{
		logger:  log,
		byID:    make(map[string]*model.Business),
		byPhone: make(map[string]*model.Business),
	}
}

// Create registers a new business and assigns it an id.
func (r *Registry) Create(b model.Business) *model.Business {
	now := time.Now()
	b.ID = uuid.Must(uuid.NewV7()).String()
	b.CreatedAt = now
	b.UpdatedAt = now

	r.mu.Lock()
	r.byID[b.ID] = &b
	if b.PhoneNumberID != "" {
		r.byPhone[b.PhoneNumberID] = &b
	}
	r.mu.Unlock()

	r.logger.Info("business created",
		zap.String("business_id", b.ID),
		zap.String("name", b.Name),
	)

	out := b
	return &out
}

// GetByID looks a business up by id.
func (r *Registry) GetByID(id string) (*model.Business, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	out := *b
	return &out, true
}

// ResolveByPhoneNumberID looks a business up by its webhook routing key.
func (r *Registry) ResolveByPhoneNumberID(phoneNumberID string) (*model.Business, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.byPhone[phoneNumberID]
	if !ok {
		return nil, false
	}
	out := *b
	return &out, true
}

// Update applies a partial update to a business configuration.
func (r *Registry) Update(id string, req *model.UpdateBusinessRequest) (*model.Business, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.byID[id]
	if !ok {
		return nil, false
	}

	if req.Name != nil {
		b.Name = *req.Name
	}
	if req.Industry != nil {
		b.Industry = *req.Industry
	}
	if req.Email != nil {
		b.Email = *req.Email
	}
	if req.Description != nil {
		b.Description = *req.Description
	}
	if req.BusinessHours != nil {
		b.BusinessHours = *req.BusinessHours
	}
	if req.AIInstructions != nil {
		b.AIInstructions = *req.AIInstructions
	}
	if req.AutoReply != nil {
		b.AutoReply = *req.AutoReply
	}
	if req.ResponseDelay != nil {
		b.ResponseDelay = *req.ResponseDelay
	}
	b.UpdatedAt = time.Now()

	out := *b
	return &out, true
}

// All returns every registered business.
func (r *Registry) All() []model.Business {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Business, 0, len(r.byID))
	for _, b := range r.byID {
		out = append(out, *b)
	}
	return out
}
