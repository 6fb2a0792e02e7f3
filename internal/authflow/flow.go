// Package authflow drives the token + Telegram login handshake. The polling
// loop is an explicit cancellable task: cancelling the flow or tearing down
// its owner stops the ticker, nothing self-reschedules.
package authflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"procpanel.org/internal/gateway"
)

// MinTokenLength is validated client-side before any network call.
const MinTokenLength = 32

// DefaultPollInterval is the Telegram confirmation poll cadence.
const DefaultPollInterval = 2 * time.Second

// ErrTokenTooShort rejects an access token before any request is issued.
var ErrTokenTooShort = fmt.Errorf("authflow: access token must be at least %d characters", MinTokenLength)

// State names the flow's position in the login handshake.
type State string

const (
	StateIdle                 State = "idle"
	StateSubmitting           State = "submitting"
	StateAwaitingConfirmation State = "awaiting_confirmation"
	StateAuthenticated        State = "authenticated"
	StateFailed               State = "failed"
)

// Client is the slice of the gateway the flow needs.
type Client interface {
	Login(ctx context.Context, accessToken string) (gateway.LoginResponse, error)
	Confirm(ctx context.Context, code string) (gateway.ConfirmResponse, error)
	Me(ctx context.Context, token string) (gateway.User, error)
}

// Snapshot is a point-in-time copy of the flow state.
type Snapshot struct {
	State State
	// Code is the Telegram confirmation code shown to the operator.
	Code string
	// Token and User are set once State is StateAuthenticated.
	Token string
	User  gateway.User
	// Err is the user-visible failure message for StateFailed.
	Err string
}

// Flow is one login attempt. Safe for concurrent use: the waiting page reads
// snapshots while the poll goroutine advances the state.
type Flow struct {
	client   Client
	interval time.Duration

	mu     sync.Mutex
	snap   Snapshot
	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a Flow.
type Option func(*Flow)

// WithPollInterval overrides the confirmation poll cadence (tests).
func WithPollInterval(d time.Duration) Option {
	return func(f *Flow) {
		if d > 0 {
			f.interval = d
		}
	}
}

// New builds an idle flow.
func New(client Client, opts ...Option) *Flow {
	f := &Flow{
		client:   client,
		interval: DefaultPollInterval,
		snap:     Snapshot{State: StateIdle},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Snapshot returns a copy of the current state.
func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

// Submit validates the access token and runs the login call. On a direct
// grant the flow finishes authenticated; if the backend demands Telegram
// confirmation the flow starts its poll task and returns with the code set.
func (f *Flow) Submit(ctx context.Context, accessToken string) error {
	if len(accessToken) < MinTokenLength {
		return ErrTokenTooShort
	}

	f.mu.Lock()
	f.stopPollLocked()
	f.snap = Snapshot{State: StateSubmitting}
	f.mu.Unlock()

	resp, err := f.client.Login(ctx, accessToken)
	if err != nil {
		f.fail(err)
		return err
	}

	switch {
	case resp.RequiresTelegramConfirmation:
		if resp.Code == "" {
			err := errors.New("authflow: confirmation code missing from login response")
			f.fail(err)
			return err
		}
		f.startPolling(resp.Code)
		return nil
	case resp.Token != "":
		return f.finish(ctx, resp.Token, resp.User)
	default:
		err := errors.New("authflow: unexpected login response")
		f.fail(err)
		return err
	}
}

// Cancel abandons polling and returns the flow to idle. Idempotent.
func (f *Flow) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopPollLocked()
	f.snap = Snapshot{State: StateIdle}
}

// Stop tears the flow down without resetting state. Used when the owning
// registry evicts the flow.
func (f *Flow) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopPollLocked()
}

func (f *Flow) startPolling(code string) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	f.mu.Lock()
	f.snap = Snapshot{State: StateAwaitingConfirmation, Code: code}
	f.cancel = cancel
	f.done = done
	f.mu.Unlock()

	go f.poll(ctx, code, done)
}

// poll asks the backend every interval whether the operator approved the
// login. 400/401 mean "not yet" and never terminate the loop; polling runs
// until confirmed or cancelled.
func (f *Flow) poll(ctx context.Context, code string, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		resp, err := f.client.Confirm(ctx, code)
		if err != nil {
			if gateway.IsStatus(err, 400) || gateway.IsStatus(err, 401) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			f.fail(err)
			return
		}
		if resp.Token == "" {
			continue
		}
		_ = f.finish(ctx, resp.Token, nil)
		return
	}
}

// finish resolves the user if the backend did not include one and moves the
// flow to authenticated.
func (f *Flow) finish(ctx context.Context, token string, user *gateway.User) error {
	var resolved gateway.User
	if user != nil {
		resolved = *user
	} else {
		var err error
		resolved, err = f.client.Me(ctx, token)
		if err != nil {
			f.fail(err)
			return err
		}
	}

	f.mu.Lock()
	f.snap = Snapshot{State: StateAuthenticated, Token: token, User: resolved}
	f.mu.Unlock()
	return nil
}

func (f *Flow) fail(err error) {
	msg := gateway.UserMessage(err)
	if msg == "" {
		msg = "Ошибка при входе"
	}
	f.mu.Lock()
	f.snap = Snapshot{State: StateFailed, Err: msg}
	f.mu.Unlock()
}

// stopPollLocked cancels an active poll task and waits for it to exit.
// Caller holds f.mu.
func (f *Flow) stopPollLocked() {
	if f.cancel == nil {
		return
	}
	cancel, done := f.cancel, f.done
	f.cancel, f.done = nil, nil

	// release the lock while waiting so the poller can finish a state write
	f.mu.Unlock()
	cancel()
	if done != nil {
		<-done
	}
	f.mu.Lock()
}
