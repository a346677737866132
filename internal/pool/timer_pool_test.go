package pool

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimerPool_Reuse(t *testing.T) {
	timer := GetTimer(time.Millisecond)
	<-timer.C
	PutTimer(timer)

	timer = GetTimer(5 * time.Millisecond)
	start := time.Now()
	<-timer.C
	assert.GreaterOrEqual(t, time.Since(start), 4*time.Millisecond)
	PutTimer(timer)
}

func TestTimerPool_PutActive(t *testing.T) {
	timer := GetTimer(time.Hour)
	PutTimer(timer)

	timer = GetTimer(time.Millisecond)
	select {
	case <-timer.C:
	case <-time.After(time.Second):
		t.Fatal("reused timer did not fire")
	}
	PutTimer(timer)
}

func TestSleep(t *testing.T) {
	require.NoError(t, Sleep(context.Background(), time.Millisecond))
	require.NoError(t, Sleep(context.Background(), 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
	require.ErrorIs(t, Sleep(ctx, 0), context.Canceled)
}
