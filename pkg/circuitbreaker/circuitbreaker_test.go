package circuitbreaker_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/remerata/bookcloud/pkg/circuitbreaker"
)

func TestCircuitBreaker_OpensOnFailures(t *testing.T) {
	cb := circuitbreaker.New(10, time.Minute, 0.3, 2)

	ok := func() error { return nil }
	fail := func() error { return errors.New("service error") }

	for i := 0; i < 10; i++ {
		require.NoError(t, cb.Call(ok))
	}
	// push the window over the failure percentile
	for i := 0; i < 4; i++ {
		require.Error(t, cb.Call(fail))
	}

	err := cb.Call(ok)
	require.ErrorIs(t, err, circuitbreaker.ErrOpen)
}

func TestCircuitBreaker_RecoversViaHalfOpen(t *testing.T) {
	cb := circuitbreaker.New(4, 50*time.Millisecond, 0.5, 2)

	fail := func() error { return errors.New("service error") }
	ok := func() error { return nil }

	for i := 0; i < 4; i++ {
		_ = cb.Call(fail)
	}
	require.ErrorIs(t, cb.Call(ok), circuitbreaker.ErrOpen)

	time.Sleep(60 * time.Millisecond)

	// half-open: successes close it again
	for i := 0; i < 4; i++ {
		require.NoError(t, cb.Call(ok))
	}
	require.NoError(t, cb.Call(ok))
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb := circuitbreaker.New(4, 50*time.Millisecond, 0.5, 3)

	fail := func() error { return errors.New("service error") }

	for i := 0; i < 4; i++ {
		_ = cb.Call(fail)
	}
	time.Sleep(60 * time.Millisecond)

	require.Error(t, cb.Call(fail))
	require.ErrorIs(t, cb.Call(fail), circuitbreaker.ErrOpen)
}
