package models

import "time"

// Conversation is one stored question/answer exchange.
type Conversation struct {
	ID             string     `json:"id"`
	UserID         int        `json:"user_id"`
	ConversationID string     `json:"conversation_id,omitempty"`
	Query          string     `json:"query"`
	Response       string     `json:"response"`
	AgentsUsed     []string   `json:"agents_used,omitempty"`
	ChartSpec      *ChartSpec `json:"chart_spec,omitempty"`
	Timestamp      time.Time  `json:"timestamp"`
}

// Session summarizes a group of conversations sharing a conversation ID.
type Session struct {
	SessionID    string    `json:"session_id"`
	Title        string    `json:"title"`
	Query        string    `json:"query"`
	MessageCount int       `json:"message_count"`
	FirstMessage time.Time `json:"first_message"`
	LastMessage  time.Time `json:"last_message"`
}

// Message is one side of an exchange in chronological session order.
type Message struct {
	Role      string     `json:"role"` // "user" or "assistant"
	Content   string     `json:"content"`
	Timestamp time.Time  `json:"timestamp"`
	ChartSpec *ChartSpec `json:"chart_spec,omitempty"`
}

// Feedback is a user rating of a stored assistant response.
type Feedback struct {
	ID        string    `json:"id"`
	UserID    int       `json:"user_id"`
	MessageID string    `json:"message_id"`
	Rating    string    `json:"rating"` // "positive" or "negative"
	Comment   string    `json:"comment,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
