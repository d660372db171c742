package flow

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MalayathiGeetha/MailMind-AI/internal/api"
)

func noValidate() error { return nil }

func TestSubmit_ValidationFailureSkipsNetwork(t *testing.T) {
	c := New[string]("test")

	var networkCalled atomic.Bool
	c, cmd := c.Submit(
		func() error { return api.ValidationError("content is required") },
		func(ctx context.Context) (string, error) {
			networkCalled.Store(true)
			return "", nil
		},
	)

	assert.Nil(t, cmd, "validation failure must not dispatch")
	assert.False(t, networkCalled.Load())
	assert.Equal(t, PhaseError, c.Phase())
	assert.Equal(t, api.KindValidation, c.ErrKind())
	assert.Equal(t, "content is required", c.ErrMessage())
}

func TestSubmit_SuccessRoundTrip(t *testing.T) {
	c := New[string]("test")

	c, cmd := c.Submit(noValidate, func(ctx context.Context) (string, error) {
		return "payload", nil
	})
	require.NotNil(t, cmd)
	assert.Equal(t, PhaseInFlight, c.Phase())
	assert.True(t, c.InFlight())

	msg, ok := cmd().(ResultMsg[string])
	require.True(t, ok)
	assert.Equal(t, "test", msg.Name)

	c = c.Apply(msg)
	assert.Equal(t, PhaseSuccess, c.Phase())
	assert.Equal(t, "payload", c.Payload())
	assert.Equal(t, api.KindNone, c.ErrKind())
}

func TestSubmit_ErrorClassified(t *testing.T) {
	c := New[string]("test")

	c, cmd := c.Submit(noValidate, func(ctx context.Context) (string, error) {
		return "", &api.Error{Kind: api.KindServer, Status: 500, Message: "backend down"}
	})
	require.NotNil(t, cmd)

	c = c.Apply(cmd().(ResultMsg[string]))
	assert.Equal(t, PhaseError, c.Phase())
	assert.Equal(t, api.KindServer, c.ErrKind())
	assert.Equal(t, "backend down", c.ErrMessage())
	assert.Empty(t, c.Payload())
}

func TestApply_LastWriteWins(t *testing.T) {
	c := New[string]("test")

	// First submission.
	c, cmd1 := c.Submit(noValidate, func(ctx context.Context) (string, error) {
		return "first", nil
	})
	msg1 := cmd1().(ResultMsg[string])

	// Second submission supersedes the first before it resolves.
	c, cmd2 := c.Submit(noValidate, func(ctx context.Context) (string, error) {
		return "second", nil
	})
	msg2 := cmd2().(ResultMsg[string])

	// The second result lands first; the late first result is dropped.
	c = c.Apply(msg2)
	require.Equal(t, PhaseSuccess, c.Phase())
	assert.Equal(t, "second", c.Payload())

	c = c.Apply(msg1)
	assert.Equal(t, "second", c.Payload(), "stale result must not overwrite the newer one")
}

func TestApply_StaleAfterReset(t *testing.T) {
	c := New[string]("test")
	c, cmd := c.Submit(noValidate, func(ctx context.Context) (string, error) {
		return "late", nil
	})
	msg := cmd().(ResultMsg[string])

	c = c.Reset()
	c = c.Apply(msg)
	assert.Equal(t, PhaseIdle, c.Phase(), "result arriving after Reset is dropped")
	assert.Empty(t, c.Payload())
}

func TestApply_ForeignCoordinatorIgnored(t *testing.T) {
	c := New[string]("quality")
	c, cmd := c.Submit(noValidate, func(ctx context.Context) (string, error) {
		return "mine", nil
	})
	mine := cmd().(ResultMsg[string])

	foreign := ResultMsg[string]{Name: "risk", Seq: mine.Seq, Payload: "other"}
	c = c.Apply(foreign)
	assert.Equal(t, PhaseInFlight, c.Phase(), "foreign result must not resolve this coordinator")

	c = c.Apply(mine)
	assert.Equal(t, "mine", c.Payload())
}

func TestApply_UnclassifiedErrorReportsNetwork(t *testing.T) {
	c := New[int]("test")
	c, cmd := c.Submit(noValidate, func(ctx context.Context) (int, error) {
		return 0, errors.New("connection reset")
	})
	c = c.Apply(cmd().(ResultMsg[int]))
	assert.Equal(t, api.KindNetwork, c.ErrKind())
}

func TestSubmit_AfterErrorRecovers(t *testing.T) {
	c := New[string]("test")
	c, _ = c.Submit(func() error { return api.ValidationError("nope") }, nil)
	require.Equal(t, PhaseError, c.Phase())

	c, cmd := c.Submit(noValidate, func(ctx context.Context) (string, error) {
		return "ok", nil
	})
	require.NotNil(t, cmd)
	c = c.Apply(cmd().(ResultMsg[string]))
	assert.Equal(t, PhaseSuccess, c.Phase())
	assert.Equal(t, api.KindNone, c.ErrKind())
	assert.Empty(t, c.ErrMessage())
}
