// Package usersink forwards form activity events into a go-users
// ActivitySink so submits and draft operations land in the user audit log.
package usersink

import (
	"context"
	"strings"

	"github.com/goliatone/go-forms/pkg/activity"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// Hook adapts activity events to a go-users ActivitySink.
type Hook struct {
	Sink usertypes.ActivitySink
}

// Notify maps event into an ActivityRecord and logs it to the sink.
// Incomplete events and a missing sink are ignored.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil {
		return nil
	}
	normalized := activity.NormalizeEvent(event)
	if !normalized.Complete() {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return h.Sink.Log(ctx, Record(normalized))
}

// Record converts a normalized event into the go-users record shape.
// Identifiers that are not UUIDs map to uuid.Nil.
func Record(event activity.Event) usertypes.ActivityRecord {
	data := map[string]any{}
	for key, value := range event.Metadata {
		data[key] = value
	}
	if event.DefinitionCode != "" {
		data["definition_code"] = event.DefinitionCode
	}
	if len(event.Recipients) > 0 {
		data["recipients"] = append([]string{}, event.Recipients...)
	}
	if len(data) == 0 {
		data = nil
	}

	return usertypes.ActivityRecord{
		ActorID:    parseUUID(event.ActorID),
		UserID:     parseUUID(event.UserID),
		TenantID:   parseUUID(event.TenantID),
		Verb:       event.Verb,
		ObjectType: event.ObjectType,
		ObjectID:   event.ObjectID,
		Channel:    event.Channel,
		Data:       data,
		OccurredAt: event.OccurredAt,
	}
}

func parseUUID(input string) uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(input))
	if err != nil {
		return uuid.Nil
	}
	return id
}
