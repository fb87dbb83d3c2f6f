package device

import (
	"errors"
	"time"

	"github.com/opencec/go-cec/logger"
)

// maxReplyTimeout is the ceiling enforced whenever a transmit awaits a
// reply; larger caller-supplied timeouts are clamped to it.
const maxReplyTimeout = 1000 * time.Millisecond

// SessionConfig represents the configuration parameters for a Session.
type SessionConfig struct {
	// replyTimeout defines the default timeout for request/reply
	// exchanges. Capped at 1 second, the reply window the bus protocol
	// grants a follower.
	// Defaults to 1 second.
	replyTimeout time.Duration

	// receivePoll defines how long each background receive call waits
	// before rechecking for shutdown.
	// Defaults to 1 second.
	receivePoll time.Duration

	// dispatch indicates whether the session runs the background
	// dispatcher that fans out inbound messages, correlates replies,
	// and drains adapter events.
	// Defaults to true.
	dispatch bool

	// stateHandlers are invoked on adapter state transitions.
	stateHandlers []StateChangeHandler

	// logger provides a logger instance for session events and errors.
	logger logger.Logger
}

// NewSessionConfig creates a session configuration with default values
// and applies the provided options.
func NewSessionConfig(opts ...SessionOption) (*SessionConfig, error) {
	cfg := &SessionConfig{
		replyTimeout: maxReplyTimeout,
		receivePoll:  1 * time.Second,
		dispatch:     true,
		logger:       logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return cfg, err
		}
	}

	return cfg, nil
}

// ReplyTimeout returns the default request/reply timeout.
func (cfg *SessionConfig) ReplyTimeout() time.Duration { return cfg.replyTimeout }

// Logger returns the configured logger instance.
func (cfg *SessionConfig) Logger() logger.Logger { return cfg.logger }

// SessionOption represents a functional option for configuring a
// SessionConfig.
type SessionOption interface {
	apply(*SessionConfig) error
}

type sessionOptFunc struct {
	name      string
	applyFunc func(*SessionConfig) error
}

func (o *sessionOptFunc) apply(cfg *SessionConfig) error { return o.applyFunc(cfg) }

func newSessionOptFunc(name string, f func(*SessionConfig) error) *sessionOptFunc {
	return &sessionOptFunc{name: name, applyFunc: f}
}

// WithLogger sets the logger instance used by the session and its
// background dispatcher.
// An error is returned if the logger or the configuration is nil.
func WithLogger(log logger.Logger) SessionOption {
	return newSessionOptFunc("WithLogger", func(cfg *SessionConfig) error {
		if cfg == nil {
			return ErrConfigNil
		}
		if log == nil {
			return errors.New("logger is nil")
		}

		cfg.logger = log

		return nil
	})
}

// WithReplyTimeout sets the default timeout for request/reply exchanges.
// Values above 1 second are clamped; the bus protocol does not grant a
// follower a longer reply window.
// An error is returned if the timeout is not positive or the
// configuration is nil.
//
// The default value is 1 second.
func WithReplyTimeout(val time.Duration) SessionOption {
	return newSessionOptFunc("WithReplyTimeout", func(cfg *SessionConfig) error {
		if cfg == nil {
			return ErrConfigNil
		}
		if val <= 0 {
			return errors.New("reply timeout must be positive")
		}
		if val > maxReplyTimeout {
			val = maxReplyTimeout
		}

		cfg.replyTimeout = val

		return nil
	})
}

// WithReceivePoll sets how long each background receive call waits
// before rechecking for shutdown. Shorter values make Close more
// responsive at the cost of more wakeups.
// An error is returned if the interval is not positive or the
// configuration is nil.
//
// The default value is 1 second.
func WithReceivePoll(val time.Duration) SessionOption {
	return newSessionOptFunc("WithReceivePoll", func(cfg *SessionConfig) error {
		if cfg == nil {
			return ErrConfigNil
		}
		if val <= 0 {
			return errors.New("receive poll interval must be positive")
		}

		cfg.receivePoll = val

		return nil
	})
}

// WithoutDispatcher disables the background dispatcher. The caller then
// drives Receive and NextEvent directly against the transport; message
// handlers and reply correlation for non-blocking transmits are
// unavailable.
func WithoutDispatcher() SessionOption {
	return newSessionOptFunc("WithoutDispatcher", func(cfg *SessionConfig) error {
		if cfg == nil {
			return ErrConfigNil
		}

		cfg.dispatch = false

		return nil
	})
}

// WithStateHandler registers a handler invoked on adapter state
// transitions.
// An error is returned if the handler or the configuration is nil.
func WithStateHandler(handler StateChangeHandler) SessionOption {
	return newSessionOptFunc("WithStateHandler", func(cfg *SessionConfig) error {
		if cfg == nil {
			return ErrConfigNil
		}
		if handler == nil {
			return errors.New("state handler is nil")
		}

		cfg.stateHandlers = append(cfg.stateHandlers, handler)

		return nil
	})
}
