package activity

import "context"

// Recorder is what domain services depend on. Implementations must never
// fail the calling operation.
type Recorder interface {
	Record(ctx context.Context, actor, verb, target string)
}

// NopRecorder discards events; used in tests.
type NopRecorder struct{}

func (NopRecorder) Record(ctx context.Context, actor, verb, target string) {}
