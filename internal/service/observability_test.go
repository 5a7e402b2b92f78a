package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogUseCaseObserver_Levels(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(&buf, slog.LevelInfo)
	ctx := context.Background()

	obs.ObserveUseCase(ctx, UseCaseEvent{Name: "hold", OpID: "op-1", Success: true, Changed: false})
	assert.Empty(t, buf.String(), "unchanged commands log at debug")

	obs.ObserveUseCase(ctx, UseCaseEvent{Name: "start", OpID: "op-2", Success: true, Changed: true,
		Fields: map[string]any{"worker": "alice"}})
	assert.Contains(t, buf.String(), "level=INFO")
	assert.Contains(t, buf.String(), "use_case=start")
	assert.Contains(t, buf.String(), "op_id=op-2")
	assert.Contains(t, buf.String(), "worker=alice")

	buf.Reset()
	obs.ObserveUseCase(ctx, UseCaseEvent{Name: "finish", Err: errors.New("saving state: boom")})
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "boom")
}

func TestNewLogUseCaseObserver_NilWriter(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil, slog.LevelInfo))
}

func TestUseCaseObserverOrNoop(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, useCaseObserverOrNoop(nil))
	rec := &recordingObserver{}
	assert.Same(t, rec, useCaseObserverOrNoop([]UseCaseObserver{nil, rec}))
}
