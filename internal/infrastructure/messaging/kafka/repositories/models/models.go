package models

import "github.com/google/uuid"

// Message is the wire form of an invalidation on the Kafka topic.
type Message struct {
	ID      uuid.UUID `json:"id"`
	Topic   string    `json:"topic"`
	Content string    `json:"content"`
	Hash    string    `json:"hash"`
}
