package models

import "encoding/json"

// Chat service payloads.

type CreateSessionRequest struct {
	AccountID    string `json:"account_id"`
	SessionName  string `json:"session_name"`
	TimeStamp    string `json:"time_stamp"`
	LastActivity string `json:"last_activity"`
}

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
}

type SessionRecord struct {
	SessionID    string `json:"session_id"`
	SessionName  string `json:"session_name"`
	LastActivity string `json:"last_activity,omitempty"`
	TimeStamp    string `json:"time_stamp,omitempty"`
}

type SessionListResponse struct {
	Sessions []SessionRecord `json:"sessions"`
}

// HistoryEntry is a raw stored message. Role and content may be any JSON value.
type HistoryEntry struct {
	Role    json.RawMessage `json:"role"`
	Content json.RawMessage `json:"content"`
}

// HistoryTurn maps a provider field such as "openai_messages" to its raw
// entry list. Fields are decoded lazily so one malformed field does not
// spoil the turn.
type HistoryTurn map[string]json.RawMessage

type HistoryResponse struct {
	History []HistoryTurn `json:"history"`
}

type ChatRequest struct {
	UserQuery      string            `json:"user_query"`
	SelectedModels map[string]string `json:"selected_models"`
	SessionID      string            `json:"session_id"`
	ClientTime     string            `json:"client_time"`
}

// Auth backend payloads.

type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}

type EnhanceRequest struct {
	Prompt string `json:"prompt"`
}

type EnhanceResponse struct {
	Improved string `json:"improved"`
}
