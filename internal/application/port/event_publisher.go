package port

import (
	"context"
)

// SubjectDispatchSent - subject событий об отправленных диспатчах
const SubjectDispatchSent = "dispatch.sent"

// EventPublisher defines the interface for publishing events to a message broker
type EventPublisher interface {
	// PublishEvent publishes an event to the specified subject
	PublishEvent(ctx context.Context, subject string, event interface{}) error

	// Close closes the connection to the message broker
	Close() error
}
