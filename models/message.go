package models

import (
	"time"
)

const (
	MessageStatusUnread = "unread"
	MessageStatusRead   = "read"
)

type ContactMessage struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Email       string    `bson:"email" json:"email"`
	Phone       string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Subject     string    `bson:"subject" json:"subject"`
	Message     string    `bson:"message" json:"message"`
	InquiryType string    `bson:"inquiryType" json:"inquiry_type"`
	Status      string    `bson:"status" json:"status"`
	CreatedAt   time.Time `bson:"createdAt" json:"created_at"`
}

func IsValidInquiryType(t string) bool {
	switch t {
	case "general", "buying", "selling", "valuation", "investment":
		return true
	}
	return false
}
