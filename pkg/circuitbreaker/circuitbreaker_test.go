package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreaker_TripsAfterConsecutiveFailures(t *testing.T) {
	b := New[string](Config{Name: "test", ConsecutiveFailures: 2, OpenTimeout: time.Minute})
	boom := errors.New("boom")

	for i := 0; i < 2; i++ {
		_, err := b.Execute(func() (string, error) { return "", boom })
		assert.ErrorIs(t, err, boom)
	}
	assert.Equal(t, gobreaker.StateOpen, b.State())

	called := false
	_, err := b.Execute(func() (string, error) {
		called = true
		return "ok", nil
	})
	require.Error(t, err)
	assert.True(t, IsOpen(err))
	assert.False(t, called)
}

func TestBreaker_PassesThroughSuccess(t *testing.T) {
	b := New[int](DefaultConfig("test"))

	v, err := b.Execute(func() (int, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, gobreaker.StateClosed, b.State())
	assert.False(t, IsOpen(nil))
}
