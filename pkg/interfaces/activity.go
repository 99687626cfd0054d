package interfaces

import (
	"context"

	usertypes "github.com/goliatone/go-users/pkg/types"
)

// ActivityRecord is the go-users audit record.
type ActivityRecord = usertypes.ActivityRecord

// ActivitySink stores audit records. go-users sinks satisfy it directly.
type ActivitySink interface {
	Log(ctx context.Context, record ActivityRecord) error
}
