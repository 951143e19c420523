package core

import (
	"context"
	"fmt"
	"time"
)

// EventType represents the type of change observed on the persisted collection.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change of a persisted artifact.
type Event struct {
	Type      EventType
	Path      string // Relative to the watched directory
	Timestamp int64  // Unix timestamp
}

// String implements lifecycle.Event.
func (e Event) String() string {
	return fmt.Sprintf("%s %s @ %s", e.Type, e.Path, time.Unix(e.Timestamp, 0).UTC().Format(time.RFC3339))
}

type contextKey string

// ChangeReasonKey is the context key for passing the change reason (commit message) to Save.
const ChangeReasonKey contextKey = "change_reason"

// ChangeReason extracts the change reason from ctx, falling back to def.
func ChangeReason(ctx context.Context, def string) string {
	if val, ok := ctx.Value(ChangeReasonKey).(string); ok && val != "" {
		return val
	}
	return def
}
