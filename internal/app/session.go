// ABOUTME: Startup session shared by the CLI and the MCP server.
// ABOUTME: Loads status, progress, and options concurrently and degrades to safe defaults on failure.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/harperreed/salesquest/internal/gate"
	"github.com/harperreed/salesquest/internal/logging"
	"github.com/harperreed/salesquest/internal/models"
	"github.com/harperreed/salesquest/internal/prefs"
	"github.com/harperreed/salesquest/internal/storage"
	"github.com/harperreed/salesquest/internal/tracker"
	"golang.org/x/sync/errgroup"
)

// ErrPremiumRequired is returned when a gated option is chosen without premium.
var ErrPremiumRequired = errors.New("premium subscription required")

// Session is the loaded state a host works from.
type Session struct {
	Gate  *gate.Gate
	Store *tracker.Store
	Prefs *prefs.Store

	// Status and Options are set by Start. After that, use the accessors;
	// the MCP host calls them from concurrent tool handlers.
	Status  gate.Status
	Options models.Options
	mu      sync.RWMutex

	// Load failures, kept so the host can warn. Start never fails on them.
	StatusErr error
	LoadErr   error
	PrefsErr  error
}

// Start builds the gate and stores over kv and loads everything in parallel.
// A nil clock uses time.Now.
func Start(ctx context.Context, kv storage.KV, log logging.Logger, clock func() time.Time) *Session {
	if clock == nil {
		clock = time.Now
	}

	s := &Session{
		Gate:  gate.New(kv, gate.WithClock(clock), gate.WithLogger(log)),
		Store: tracker.New(kv, tracker.WithClock(clock), tracker.WithLogger(log)),
		Prefs: prefs.New(kv),
	}

	var g errgroup.Group
	g.Go(func() error {
		s.Status, s.StatusErr = s.Gate.Check(ctx)
		return nil
	})
	g.Go(func() error {
		_, _, s.LoadErr = s.Store.Load(ctx)
		return nil
	})
	g.Go(func() error {
		s.Options, s.PrefsErr = s.Prefs.Load(ctx)
		return nil
	})
	_ = g.Wait()

	if s.StatusErr != nil {
		log.Warn().Err(s.StatusErr).Msg("subscription status unavailable, using limited access")
		s.Status = gate.SafeDefault
	}
	if s.LoadErr != nil {
		log.Warn().Err(s.LoadErr).Msg("could not load saved progress, starting from zero")
	}
	if s.PrefsErr != nil {
		log.Warn().Err(s.PrefsErr).Msg("could not load options, using defaults")
		s.Options = models.DefaultOptions()
	}
	return s
}

// Allows reports whether the session's status permits f.
func (s *Session) Allows(f gate.Feature) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Status.Allows(f)
}

// CurrentStatus returns the last evaluated status.
func (s *Session) CurrentStatus() gate.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Status
}

// CurrentOptions returns the loaded options.
func (s *Session) CurrentOptions() models.Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Options
}

// Refresh re-evaluates the subscription status, keeping SafeDefault on failure.
func (s *Session) Refresh(ctx context.Context) gate.Status {
	status, err := s.Gate.Check(ctx)
	if err != nil {
		status = gate.SafeDefault
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.StatusErr = err
	s.Status = status
	return status
}

// SaveOptions persists opts. Switching to a premium theme needs
// FeaturePremiumOptions; keeping an already selected one does not.
func (s *Session) SaveOptions(ctx context.Context, opts models.Options) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if models.IsPremiumTheme(opts.Theme()) && opts.ThemeColor != s.Options.ThemeColor &&
		!s.Status.Allows(gate.FeaturePremiumOptions) {
		return fmt.Errorf("%w: theme %q", ErrPremiumRequired, opts.ThemeColor)
	}
	if err := s.Prefs.Save(ctx, opts); err != nil {
		return err
	}
	s.Options = opts
	return nil
}

// ResetOptions restores and saves the defaults.
func (s *Session) ResetOptions(ctx context.Context) (models.Options, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	opts, err := s.Prefs.Reset(ctx)
	if err != nil {
		return s.Options, err
	}
	s.Options = opts
	return opts, nil
}
