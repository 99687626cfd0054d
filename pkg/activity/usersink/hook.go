// Package usersink records CMS activity as go-users activity records.
package usersink

import (
	"context"
	"maps"

	"github.com/goliatone/go-sitecms/pkg/activity"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
	usertypes "github.com/goliatone/go-users/pkg/types"
)

// Sink persists go-users activity records.
type Sink = interfaces.ActivitySink

// LogSink writes activity records to a logger. It is the default sink when
// no go-users store is wired.
type LogSink struct {
	Logger interfaces.Logger
}

func (s LogSink) Log(ctx context.Context, record usertypes.ActivityRecord) error {
	if s.Logger == nil {
		return nil
	}
	s.Logger.WithContext(ctx).Info("activity.recorded",
		"verb", record.Verb,
		"object_type", record.ObjectType,
		"object_id", record.ObjectID,
		"actor_id", record.ActorID,
		"channel", record.Channel,
	)
	return nil
}

// Hook maps activity events onto usertypes.ActivityRecord.
type Hook struct {
	Sink Sink
}

var _ activity.Hook = Hook{}

// Notify stores the event key under "slug" for pages and "name" for menus,
// next to the record version and any extra metadata.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil || event.Verb == "" {
		return nil
	}
	data := make(map[string]any, len(event.Metadata)+2)
	maps.Copy(data, event.Metadata)
	if event.Key != "" {
		data[keyField(event.ObjectType)] = event.Key
	}
	if event.Version > 0 {
		data["version"] = event.Version
	}
	return h.Sink.Log(ctx, usertypes.ActivityRecord{
		ActorID:    event.ActorID,
		Verb:       event.Verb,
		ObjectType: event.ObjectType,
		ObjectID:   event.ObjectID.String(),
		Channel:    event.Channel,
		Data:       data,
		OccurredAt: event.OccurredAt,
	})
}

func keyField(objectType string) string {
	if objectType == activity.ObjectMenu {
		return "name"
	}
	return "slug"
}
