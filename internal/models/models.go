package models

import "time"

// Sentiment is the coarse tone of a lead message
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Intent is the coarse purpose of a lead message
type Intent string

const (
	IntentAppointmentRequest Intent = "appointment_request"
	IntentPriceInquiry       Intent = "price_inquiry"
	IntentDisinterest        Intent = "disinterest"
	IntentFollowUp           Intent = "follow_up"
	IntentComplaint          Intent = "complaint"
	IntentInquiry            Intent = "inquiry"
)

// Classification represents the result of message analysis
type Classification struct {
	Sentiment Sentiment `json:"sentiment"`
	Intent    Intent    `json:"intent"`
}

// PreferredVehicle is the vehicle a lead has expressed interest in
type PreferredVehicle struct {
	Make  string  `json:"make"`
	Model string  `json:"model"`
	Year  int     `json:"year"`
	Price float64 `json:"price"`
}

// Lead holds the lead fields used to build a reply prompt
type Lead struct {
	Name             string            `json:"name"`
	Email            string            `json:"email"`
	Phone            string            `json:"phone,omitempty"`
	PreferredVehicle *PreferredVehicle `json:"preferred_vehicle,omitempty"`
	LastContact      *time.Time        `json:"last_contact,omitempty"`
	Notes            string            `json:"notes,omitempty"`
}

// HistoryEntry is one message of a conversation, in chronological order
type HistoryEntry struct {
	Sender    string `json:"sender"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Dealership describes the dealership the assistant speaks for
type Dealership struct {
	Name        string   `json:"name"`
	Location    string   `json:"location"`
	Specialties []string `json:"specialties"`
}

// ConversationContext is everything the assistant knows about a lead conversation
type ConversationContext struct {
	Lead                Lead           `json:"lead"`
	ConversationHistory []HistoryEntry `json:"conversation_history"`
	DealershipContext   Dealership     `json:"dealership_context"`
}

// ModelParameters are passed through to the chat-completion API unchanged
type ModelParameters struct {
	ModelName    string  `json:"model_name"`
	SystemPrompt string  `json:"system_prompt"`
	Temperature  float64 `json:"temperature"`
	MaxTokens    int     `json:"max_tokens"`
}

// Reply is the structured result of an AI reply generation
type Reply struct {
	Message          string    `json:"message"`
	Sentiment        Sentiment `json:"sentiment"`
	Intent           Intent    `json:"intent"`
	Confidence       float64   `json:"confidence"`
	ModelUsed        string    `json:"model_used"`
	TokensUsed       int       `json:"tokens_used"`
	ProcessingTimeMs int64     `json:"processing_time_ms"`
}
