package model

import (
	"time"
)

// LastMessage captures the most recent message of a conversation for listing.
type LastMessage struct {
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Direction Direction `json:"direction"`
	Type      string    `json:"type"`
}

// ConversationSummary is a derived view of one (business, client) thread.
// It is recomputed from the business message log on every query, never stored.
type ConversationSummary struct {
	ClientPhone  string      `json:"client_phone"`
	LastMessage  LastMessage `json:"last_message"`
	MessageCount int         `json:"message_count"`
	UnreadCount  int         `json:"unread_count"`
}

// ConversationQuery selects a page of conversation summaries.
type ConversationQuery struct {
	Page        int
	Limit       int
	ClientPhone string
}

// Pagination describes the page window of a listing response.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"total_pages"`
}

// ListConversationsResponse is the response for listing conversations.
type ListConversationsResponse struct {
	Conversations []ConversationSummary `json:"conversations"`
	Pagination    Pagination            `json:"pagination"`
}
