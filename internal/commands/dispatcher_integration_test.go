package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
)

type rebuildNavigation struct {
	Menu string
}

func (rebuildNavigation) Type() string { return "sitecms.test.rebuild_navigation" }

func (rebuildNavigation) Validate() error { return nil }

type republishPage struct {
	Slug string
}

func (republishPage) Type() string { return "sitecms.test.republish_page" }

func (republishPage) Validate() error { return nil }

func TestDispatchedCommandRetriesTransientFailure(t *testing.T) {
	var menus []string
	h := NewHandler(func(_ context.Context, msg rebuildNavigation) error {
		menus = append(menus, msg.Menu)
		if len(menus) == 1 {
			return errors.New("database is locked")
		}
		return nil
	})
	sub := dispatcher.SubscribeCommand(h, runner.WithMaxRetries(1))
	t.Cleanup(sub.Unsubscribe)

	if err := dispatcher.Dispatch(context.Background(), rebuildNavigation{Menu: "header"}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(menus) != 2 || menus[1] != "header" {
		t.Fatalf("expected one retry, got %v", menus)
	}
}

func TestDispatchedCommandReportsExhaustedRetries(t *testing.T) {
	attempts := 0
	h := NewHandler(func(context.Context, republishPage) error {
		attempts++
		return errors.New("page service unavailable")
	})
	sub := dispatcher.SubscribeCommand(h, runner.WithMaxRetries(2))
	t.Cleanup(sub.Unsubscribe)

	if err := dispatcher.Dispatch(context.Background(), republishPage{Slug: "pricing"}); err == nil {
		t.Fatalf("expected an error once retries run out")
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}
