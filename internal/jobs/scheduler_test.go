package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	s := NewScheduler(time.Second)

	require.NoError(t, s.Register("@every 1h", "purge", func(context.Context) error { return nil }))
	require.NoError(t, s.Register("*/5 * * * *", "other", func(context.Context) error { return nil }))
	assert.Equal(t, 2, s.Len())

	err := s.Register("not a schedule", "broken", func(context.Context) error { return nil })
	assert.Error(t, err)
	assert.Equal(t, 2, s.Len())
}

func TestRun_PassesDeadlineContext(t *testing.T) {
	s := NewScheduler(50 * time.Millisecond)

	var hadDeadline bool
	s.run("check", func(ctx context.Context) error {
		_, hadDeadline = ctx.Deadline()
		return nil
	})
	assert.True(t, hadDeadline)
}

func TestRun_SwallowsJobErrors(t *testing.T) {
	s := NewScheduler(time.Second)
	called := false
	s.run("failing", func(context.Context) error {
		called = true
		return errors.New("boom")
	})
	assert.True(t, called)
}

func TestStartStop(t *testing.T) {
	s := NewScheduler(time.Second)
	s.Start()
	s.Stop()
}
