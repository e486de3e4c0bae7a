package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallTimeout(t *testing.T) {
	ctx, cancel := callTimeout(context.Background(), 45*time.Second)
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(45*time.Second), deadline, time.Second)
}

func TestCallTimeout_ZeroLeavesContextUnbounded(t *testing.T) {
	parent := context.Background()
	ctx, cancel := callTimeout(parent, 0)
	defer cancel()

	_, ok := ctx.Deadline()
	assert.False(t, ok)
	assert.Equal(t, parent, ctx)
}

func TestCallTimeout_KeepsEarlierParentDeadline(t *testing.T) {
	parent, parentCancel := context.WithTimeout(context.Background(), time.Second)
	defer parentCancel()

	ctx, cancel := callTimeout(parent, time.Hour)
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Second), deadline, 100*time.Millisecond)
}
