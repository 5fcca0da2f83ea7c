// Package queue defines message payloads exchanged over the message broker
// and the background consumer that persists them.
package queue

// NotificationQueueName is the durable queue notifications travel through.
const NotificationQueueName = "notification.created"

// NotificationEvent is published whenever a client notification is created.
// It carries the complete row so the consumer can persist it without
// querying back into the request path.
type NotificationEvent struct {
	ID        string `json:"id"`
	ClientID  string `json:"client_id"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}
