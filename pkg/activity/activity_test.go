package activity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-sitecms/pkg/activity"
)

func TestEmitterFillsDefaults(t *testing.T) {
	var got []activity.Event
	hook := activity.HookFunc(func(_ context.Context, event activity.Event) error {
		got = append(got, event)
		return nil
	})
	emitter := activity.NewEmitter(activity.Hooks{nil, hook}, activity.Config{Enabled: true, Channel: "sitecms"})

	event := activity.Event{Verb: activity.VerbCreate, ObjectType: activity.ObjectPage, Key: "careers", Version: 1}
	if err := emitter.Emit(context.Background(), event); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one event got %d", len(got))
	}
	if got[0].Channel != "sitecms" || got[0].OccurredAt.IsZero() || got[0].Key != "careers" {
		t.Fatalf("expected channel and timestamp defaults, got %+v", got[0])
	}
}

func TestEmitterDropsIncompleteEvents(t *testing.T) {
	calls := 0
	hook := activity.HookFunc(func(context.Context, activity.Event) error {
		calls++
		return nil
	})

	disabled := activity.NewEmitter(activity.Hooks{hook}, activity.Config{})
	_ = disabled.Emit(context.Background(), activity.Event{Verb: activity.VerbCreate, ObjectType: activity.ObjectMenu})

	enabled := activity.NewEmitter(activity.Hooks{hook}, activity.Config{Enabled: true})
	_ = enabled.Emit(context.Background(), activity.Event{Verb: activity.VerbUpdate})
	_ = enabled.Emit(context.Background(), activity.Event{ObjectType: activity.ObjectMenu})

	if calls != 0 {
		t.Fatalf("expected no hook calls, got %d", calls)
	}
}

func TestEmitterJoinsHookErrors(t *testing.T) {
	boom := errors.New("sink unavailable")
	calls := 0
	failing := activity.HookFunc(func(context.Context, activity.Event) error {
		calls++
		return boom
	})
	emitter := activity.NewEmitter(activity.Hooks{failing, failing}, activity.Config{Enabled: true})
	err := emitter.Emit(context.Background(), activity.Event{Verb: activity.VerbDelete, ObjectType: activity.ObjectMenu, Key: "footer"})
	if !errors.Is(err, boom) || calls != 2 {
		t.Fatalf("expected both hooks called and error joined, calls=%d err=%v", calls, err)
	}
}
