package device

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/opencec/go-cec/cec"
	"github.com/opencec/go-cec/logger"
)

func TestNewSessionConfig_Defaults(t *testing.T) {
	require := require.New(t)

	cfg, err := NewSessionConfig()
	require.NoError(err)
	require.Equal(maxReplyTimeout, cfg.ReplyTimeout())
	require.True(cfg.dispatch)
	require.NotNil(cfg.Logger())
}

func TestSessionConfig_Options(t *testing.T) {
	require := require.New(t)

	mockLogger := logger.NewMockLogger()
	handler := func(prev, next AdapterState, change cec.StateChange) {}

	cfg, err := NewSessionConfig(
		WithLogger(mockLogger),
		WithReplyTimeout(300*time.Millisecond),
		WithReceivePoll(100*time.Millisecond),
		WithoutDispatcher(),
		WithStateHandler(handler),
	)
	require.NoError(err)
	require.Equal(mockLogger, cfg.Logger())
	require.Equal(300*time.Millisecond, cfg.ReplyTimeout())
	require.Equal(100*time.Millisecond, cfg.receivePoll)
	require.False(cfg.dispatch)
	require.Len(cfg.stateHandlers, 1)
}

func TestSessionConfig_Validation(t *testing.T) {
	require := require.New(t)

	_, err := NewSessionConfig(WithLogger(nil))
	require.Error(err)

	_, err = NewSessionConfig(WithReplyTimeout(0))
	require.Error(err)

	_, err = NewSessionConfig(WithReceivePoll(-time.Second))
	require.Error(err)

	_, err = NewSessionConfig(WithStateHandler(nil))
	require.Error(err)

	// Oversized reply timeouts clamp to the protocol ceiling.
	cfg, err := NewSessionConfig(WithReplyTimeout(5 * time.Second))
	require.NoError(err)
	require.Equal(maxReplyTimeout, cfg.ReplyTimeout())
}
