package model

import (
	"time"
)

// Business is a tenant of the relay: a business account with its WhatsApp
// identity and AI reply configuration. PhoneNumberID is the routing key that
// inbound webhook events are matched against.
type Business struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Industry       string    `json:"industry"`
	Email          string    `json:"email"`
	PhoneNumber    string    `json:"phone_number"`
	PhoneNumberID  string    `json:"phone_number_id"`
	WABAID         string    `json:"waba_id"`
	Description    string    `json:"description,omitempty"`
	BusinessHours  string    `json:"business_hours,omitempty"`
	AIInstructions string    `json:"ai_instructions,omitempty"`
	AutoReply      bool      `json:"auto_reply"`
	ResponseDelay  int       `json:"response_delay,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CreateBusinessRequest is the request to register a new business. AutoReply
// defaults to enabled when omitted.
type CreateBusinessRequest struct {
	Name           string `json:"name"`
	Industry       string `json:"industry"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phone_number"`
	PhoneNumberID  string `json:"phone_number_id"`
	WABAID         string `json:"waba_id"`
	Description    string `json:"description,omitempty"`
	BusinessHours  string `json:"business_hours,omitempty"`
	AIInstructions string `json:"ai_instructions,omitempty"`
	AutoReply      *bool  `json:"auto_reply,omitempty"`
	ResponseDelay  int    `json:"response_delay,omitempty"`
}

// UpdateBusinessRequest carries a partial update to a business configuration.
// Nil fields are left unchanged.
type UpdateBusinessRequest struct {
	Name           *string `json:"name,omitempty"`
	Industry       *string `json:"industry,omitempty"`
	Email          *string `json:"email,omitempty"`
	Description    *string `json:"description,omitempty"`
	BusinessHours  *string `json:"business_hours,omitempty"`
	AIInstructions *string `json:"ai_instructions,omitempty"`
	AutoReply      *bool   `json:"auto_reply,omitempty"`
	ResponseDelay  *int    `json:"response_delay,omitempty"`
}
