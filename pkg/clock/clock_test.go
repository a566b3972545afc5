package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFrozenAlwaysReturnsSameInstant(t *testing.T) {
	at := time.Date(2020, 6, 15, 12, 0, 0, 0, time.UTC)
	c := Frozen{At: at}
	assert.Equal(t, at, c.Now())
	assert.Equal(t, at, c.Now())
}

func TestSystemClockAdvances(t *testing.T) {
	c := SystemClock{}
	first := c.Now()
	time.Sleep(time.Millisecond)
	second := c.Now()
	assert.True(t, second.After(first) || second.Equal(first))
}
