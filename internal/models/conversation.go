package models

type ConversationStatus string

const (
  AwaitingProduct      ConversationStatus = "awaiting_product"
  AwaitingPrice        ConversationStatus = "awaiting_price"
  AwaitingDeleteTarget ConversationStatus = "awaiting_delete_target"
  AwaitingEmail        ConversationStatus = "awaiting_email"
)

// ConversationState is the in-flight step of a multi-step command.
// It lives in process memory only and is lost on restart.
type ConversationState struct {
  Status ConversationStatus
  ASIN   string
}
