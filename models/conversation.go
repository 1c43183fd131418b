package models

import (
	"time"
)

// Conversation is one chat session owned by an account. The id always comes
// from the chat service.
type Conversation struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	LastActivity time.Time `json:"last_activity"`
}
