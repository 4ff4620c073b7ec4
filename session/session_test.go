package session

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Options_EffectiveTimeout(t *testing.T) {
	tests := []struct {
		name     string
		options  Options
		expected time.Duration
	}{
		{
			name:     "no scale keeps base timeout",
			options:  Options{BaseTimeout: 30 * time.Second},
			expected: 30 * time.Second,
		},
		{
			name:     "scale multiplies base timeout",
			options:  Options{BaseTimeout: 30 * time.Second, TimeoutScale: 3},
			expected: 90 * time.Second,
		},
		{
			name:     "zero scale falls back to base timeout",
			options:  Options{BaseTimeout: 10 * time.Second, TimeoutScale: 0},
			expected: 10 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.options.effectiveTimeout())
		})
	}
}

func Test_ValidateBrowserVersion(t *testing.T) {
	require.NoError(t, validateBrowserVersion("chromium", "131.0.6778.33"))
	require.NoError(t, validateBrowserVersion("webkit", "18.2"))
	require.NoError(t, validateBrowserVersion("chromium", "not-a-version"))
	require.NoError(t, validateBrowserVersion("unknown-engine", "1.0"))

	err := validateBrowserVersion("chromium", "88.0.4324.96")
	require.Error(t, err)
	assert.True(t, IsInfrastructure(err))
}

func Test_InfrastructureError_WrapsCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := &InfrastructureError{Op: "browser launch", Err: cause}

	assert.Contains(t, err.Error(), "browser launch")
	assert.True(t, errors.Is(err, cause))
	assert.True(t, IsInfrastructure(fmt.Errorf("acquire failed: %w", err)))
	assert.False(t, IsInfrastructure(errors.New("plain error")))
}

func Test_GivenReleasedSession_WhenCaptureIsRequested_ThenFails(t *testing.T) {
	session := &Session{ID: "unit-1"}

	require.Error(t, session.Screenshot("screenshot.png"))
	_, err := session.VideoPath()
	require.Error(t, err)
	// No trace was started, so stopping is a no-op.
	require.NoError(t, session.StopTrace("trace.zip"))
}

func Test_GivenNotLaunchedManager_WhenSessionAcquired_ThenInfrastructureError(t *testing.T) {
	manager := NewManager(testLogger{})

	_, err := manager.Acquire(Options{BaseTimeout: time.Second})
	require.Error(t, err)
	assert.True(t, IsInfrastructure(err))
	assert.Equal(t, "", manager.BrowserVersion())
	require.NoError(t, manager.Close())
	require.NoError(t, manager.Release(nil))
}

type testLogger struct{}

func (testLogger) Infof(format string, v ...interface{})  {}
func (testLogger) Warnf(format string, v ...interface{})  {}
func (testLogger) Printf(format string, v ...interface{}) {}
func (testLogger) Donef(format string, v ...interface{})  {}
func (testLogger) Debugf(format string, v ...interface{}) {}
func (testLogger) Errorf(format string, v ...interface{}) {}
func (testLogger) TInfof(format string, v ...interface{}) {}
func (testLogger) TWarnf(format string, v ...interface{}) {}
func (testLogger) TPrintf(format string, v ...interface{}) {}
func (testLogger) TDonef(format string, v ...interface{})  {}
func (testLogger) TDebugf(format string, v ...interface{}) {}
func (testLogger) TErrorf(format string, v ...interface{}) {}
func (testLogger) Println()                                {}
func (testLogger) EnableDebugLog(enable bool)              {}
