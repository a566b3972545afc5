package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New(KindConfig, "bad level")
	assert.Equal(t, "splitzip: ConfigError: bad level", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestWrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(KindVolume, "write failed", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "disk full")
	assert.Contains(t, err.Error(), "VolumeError")
}

func TestIsMatchesByKindAlone(t *testing.T) {
	err := Wrap(KindOverflow, "too many entries", errors.New("boom"))
	assert.True(t, errors.Is(err, ErrOverflow))
	assert.False(t, errors.Is(err, ErrConfig))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "UnsafePathError", KindUnsafePath.String())
	assert.Equal(t, "SplitZipError", Kind(99).String())
}
