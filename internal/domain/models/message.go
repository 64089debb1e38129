package models

import "time"

type Message struct {
	ID         string    `json:"id"`
	ItemID     string    `json:"item_id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
}

type MessageView struct {
	Message
	SenderName string `json:"sender_name,omitempty"`
}
