package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserCreatedEvent is the payload emitted after a successful registration.
type UserCreatedEvent struct {
	EventID    string    `json:"event_id"`
	UserID     uint      `json:"user_id"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewUserCreatedEvent builds an event for the given user.
func NewUserCreatedEvent(userID uint, email string) UserCreatedEvent {
	return UserCreatedEvent{
		EventID:    uuid.New().String(),
		UserID:     userID,
		Email:      email,
		OccurredAt: time.Now().UTC(),
	}
}

// Notifier is the outbound port for the "user created" notification. Emission
// is fire-and-forget from the caller's point of view: a failing notifier must
// never fail the registration that triggered it.
type Notifier interface {
	UserCreated(ctx context.Context, event UserCreatedEvent) error
}

// LogNotifier records user-created events in the application log.
type LogNotifier struct {
	log *zap.Logger
}

// NewLogNotifier builds a log-backed notifier.
func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// UserCreated logs the event.
func (n *LogNotifier) UserCreated(_ context.Context, event UserCreatedEvent) error {
	n.log.Info("user created",
		zap.String("event_id", event.EventID),
		zap.Uint("user_id", event.UserID),
	)
	return nil
}
