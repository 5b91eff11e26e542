package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCaptureState_String(t *testing.T) {
	assert.Equal(t, "idle", CaptureIdle.String())
	assert.Equal(t, "capturing", CaptureCapturing.String())
	assert.Equal(t, "indexing", CaptureIndexing.String())
	assert.Equal(t, "done", CaptureDone.String())
	assert.Equal(t, "unknown", CaptureState(99).String())
}

func TestCaptureState_CanStart(t *testing.T) {
	assert.True(t, CaptureIdle.CanStart())
	assert.True(t, CaptureDone.CanStart())
	assert.False(t, CaptureCapturing.CanStart())
	assert.False(t, CaptureIndexing.CanStart())
}
