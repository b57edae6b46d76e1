package common

import (
	"github.com/google/uuid"
)

// NewConversationID generates a unique conversation ID with the "conv_" prefix
func NewConversationID() string {
	return "conv_" + uuid.New().String()
}

// NewFeedbackID generates a unique feedback ID with the "fb_" prefix
func NewFeedbackID() string {
	return "fb_" + uuid.New().String()
}
