package langserver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tliron/glsp"
)

func TestHandleFatalTransitionsToDead(t *testing.T) {
	s := newTestServer()
	assert.False(t, s.isDead())

	s.handleFatal(errors.New("transport read failed"))

	assert.True(t, s.isDead())
}

func TestRequireAliveRejectsOnceDead(t *testing.T) {
	s := newTestServer()
	var calls int
	wrapped := requireAlive(s, func(ctx *glsp.Context, params *struct{}) (string, error) {
		calls++
		return "ok", nil
	})

	result, err := wrapped(nil, &struct{}{})
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 1, calls)

	s.handleFatal(errors.New("boom"))

	result, err = wrapped(nil, &struct{}{})
	assert.ErrorIs(t, err, errServerDead)
	assert.Equal(t, "", result)
	assert.Equal(t, 1, calls, "wrapped handler must not run once dead")
}

func TestRequireAliveNotifyRejectsOnceDead(t *testing.T) {
	s := newTestServer()
	var calls int
	wrapped := requireAliveNotify(s, func(ctx *glsp.Context, params *struct{}) error {
		calls++
		return nil
	})

	require.NoError(t, wrapped(nil, &struct{}{}))
	assert.Equal(t, 1, calls)

	s.handleFatal(errors.New("boom"))

	err := wrapped(nil, &struct{}{})
	assert.ErrorIs(t, err, errServerDead)
	assert.Equal(t, 1, calls, "wrapped handler must not run once dead")
}
