// Package notification manages the capped list of user-facing notifications
// produced by the detection pipeline and system events.
package notification

import (
	"time"

	"github.com/google/uuid"

	"github.com/Ojas-Arora/SoundAware/internal/errors"
)

// Type represents the category of a notification
type Type string

const (
	// TypeInfo indicates an informational notification
	TypeInfo Type = "info"
	// TypeWarning indicates a low-confidence detection or degraded behavior
	TypeWarning Type = "warning"
	// TypeSuccess indicates a high-confidence detection
	TypeSuccess Type = "success"
	// TypeError indicates a system error notification
	TypeError Type = "error"
)

// Sentinel errors for notification operations
var (
	ErrNotificationNotFound = errors.Newf("notification not found").Component("notification").Category(errors.CategoryNotFound).Build()
)

// Notification represents a single notification event
type Notification struct {
	// ID is the unique identifier for the notification
	ID string `json:"id"`
	// Type categorizes the notification
	Type Type `json:"type"`
	// Title is a short summary of the notification
	Title string `json:"title"`
	// Message provides detailed information
	Message string `json:"message"`
	// Timestamp indicates when the notification was created
	Timestamp time.Time `json:"timestamp"`
	// Read tracks whether the user has seen the notification
	Read bool `json:"read"`
}

// New creates a notification with a unique ID and the current timestamp.
func New(notifType Type, title, message string) *Notification {
	return &Notification{
		ID:        uuid.New().String(),
		Type:      notifType,
		Title:     title,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Clone returns a copy of the notification.
func (n *Notification) Clone() *Notification {
	clone := *n
	return &clone
}
