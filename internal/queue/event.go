// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

import "fmt"

// RatingQueueName is the durable queue rating events are published to.
const RatingQueueName = "rating.submitted"

// RatingSubmittedEvent is published after a rating is created or replaced.
// It carries enough for downstream consumers to log or aggregate without
// querying the primary database.
type RatingSubmittedEvent struct {
	RatingID    uint64 `json:"rating_id"`
	UserID      uint64 `json:"user_id"`
	StoreID     uint64 `json:"store_id"`
	Rating      int    `json:"rating"`
	Created     bool   `json:"created"`
	SubmittedAt string `json:"submitted_at"`
}

// LogLine renders ev as a single human-friendly line, newline terminated.
func (ev RatingSubmittedEvent) LogLine() string {
	action := "updated"
	if ev.Created {
		action = "created"
	}
	return fmt.Sprintf("[%s] Rating %s | rating_id=%d | user_id=%d | store_id=%d | rating=%d\n",
		ev.SubmittedAt, action, ev.RatingID, ev.UserID, ev.StoreID, ev.Rating)
}
