package tcontext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"time"
)

func TestReopen(t *testing.T) {
	type key struct{}
	ctx, cancel := context.WithCancel(context.WithValue(context.Background(), key{}, "value"))
	cancel()

	reopened := Reopen(ctx)
	assert.NoError(t, reopened.Err())
	assert.Nil(t, reopened.Done())
	_, ok := reopened.Deadline()
	assert.False(t, ok)
	assert.Equal(t, "value", reopened.Value(key{}))

	// reopening keeps working even when the parent had a deadline
	ctx, cancel = context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	_, ok = Reopen(ctx).Deadline()
	assert.False(t, ok)
}
