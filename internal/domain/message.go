package domain

import "time"

// Message is a per-plan, per-user chat entry tagged with the sender's role.
type Message struct {
	MessageID  string    `json:"messageId"`
	UserID     string    `json:"userId"`
	PlanID     string    `json:"planId"`
	SenderRole Role      `json:"senderRole"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"createdAt"`
}
