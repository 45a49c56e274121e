package retry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"time"
)

var testExpConfig = ExpConfig{
	Min:   100 * time.Millisecond,
	Max:   1 * time.Second,
	Scale: 2.0,
}

func TestBackoff(t *testing.T) {
	backoff := NewExpBackoff(testExpConfig)
	assert.Equal(t, backoff.Backoff(), testExpConfig.Min)
	assert.Equal(t, backoff.Backoff(), 2*testExpConfig.Min)
	assert.Equal(t, backoff.Backoff(), 4*testExpConfig.Min)
	assert.Equal(t, backoff.Backoff(), 8*testExpConfig.Min)
	assert.Equal(t, backoff.Backoff(), testExpConfig.Max)
	assert.Equal(t, backoff.Backoff(), testExpConfig.Max)

	backoff.Reset()
	assert.Equal(t, backoff.Backoff(), testExpConfig.Min)
	assert.Equal(t, backoff.Backoff(), 2*testExpConfig.Min)
}

func TestExpConfigDelays(t *testing.T) {
	delays := testExpConfig.Delays()

	delay, ok := delays()
	assert.True(t, ok)
	assert.Zero(t, delay) // first attempt is immediate unless Instant is set

	delay, ok = delays()
	assert.True(t, ok)
	assert.Equal(t, testExpConfig.Min, delay)

	delay, ok = delays()
	assert.True(t, ok)
	assert.Equal(t, 2*testExpConfig.Min, delay)
}
