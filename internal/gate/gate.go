// ABOUTME: Trial/subscription gate deciding full, trial, or limited access.
// ABOUTME: Pure evaluation plus a store-backed Check that starts the trial exactly once.
package gate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/salesquest/internal/logging"
	"github.com/harperreed/salesquest/internal/storage"
)

// TrialDays is the length of the free trial.
const TrialDays = 7

const day = 24 * time.Hour

// ErrStatusUnavailable means the trial or premium flags could not be read.
var ErrStatusUnavailable = errors.New("subscription status unavailable")

// Access is the level of functionality granted.
type Access int

const (
	AccessLimited Access = iota
	AccessTrial
	AccessFull
)

func (a Access) String() string {
	switch a {
	case AccessFull:
		return "full"
	case AccessTrial:
		return "trial"
	default:
		return "limited"
	}
}

// Feature is a gated capability.
type Feature string

const (
	FeatureExport         Feature = "export"
	FeaturePrint          Feature = "print"
	FeaturePremiumOptions Feature = "premium_options"
)

// Status is the derived subscription state.
type Status struct {
	IsPremium    bool       `json:"is_premium"`
	TrialStarted bool       `json:"trial_started"`
	TrialStart   *time.Time `json:"trial_start,omitempty"`
	TrialEnded   bool       `json:"trial_ended"`
	DaysLeft     int        `json:"days_left"`

	// JustStarted is set by Check when this call recorded the trial start.
	JustStarted bool `json:"just_started,omitempty"`
}

// SafeDefault is the status callers fall back to when Check fails.
var SafeDefault = Status{TrialStarted: true, TrialEnded: true}

// Access maps the status to an access level.
func (s Status) Access() Access {
	switch {
	case s.IsPremium:
		return AccessFull
	case s.TrialEnded:
		return AccessLimited
	default:
		return AccessTrial
	}
}

// Allows reports whether a feature is available under this status.
func (s Status) Allows(f Feature) bool {
	switch f {
	case FeatureExport, FeaturePrint:
		return s.IsPremium || !s.TrialEnded
	case FeaturePremiumOptions:
		return s.IsPremium
	}
	return false
}

// Evaluate derives a Status. A nil trialStart means the trial has not begun.
// Day 7 is still inside the trial; it ends once more than 7 whole days have elapsed.
func Evaluate(now time.Time, trialStart *time.Time, isPremium bool) Status {
	if isPremium {
		return Status{IsPremium: true, TrialStarted: trialStart != nil, TrialStart: trialStart}
	}
	if trialStart == nil {
		return Status{DaysLeft: TrialDays}
	}

	elapsed := ElapsedDays(now, *trialStart)
	return Status{
		TrialStarted: true,
		TrialStart:   trialStart,
		TrialEnded:   elapsed > TrialDays,
		DaysLeft:     max(0, TrialDays-elapsed),
	}
}

// ElapsedDays returns whole days from start to now, never negative.
func ElapsedDays(now, start time.Time) int {
	d := now.Sub(start)
	if d < 0 {
		return 0
	}
	return int(d / day)
}

// Gate reads trial and premium flags from storage.
// Both the CLI and the MCP server share this one implementation.
type Gate struct {
	kv  storage.KV
	log logging.Logger
	now func() time.Time
}

// Option configures a Gate.
type Option func(*Gate)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) { g.now = now }
}

// WithLogger sets the logger.
func WithLogger(log logging.Logger) Option {
	return func(g *Gate) { g.log = log }
}

// New creates a Gate over kv.
func New(kv storage.KV, opts ...Option) *Gate {
	g := &Gate{kv: kv, log: logging.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Check evaluates the current status. On first observation it records the
// trial start; an existing start is never overwritten.
func (g *Gate) Check(ctx context.Context) (Status, error) {
	now := g.now().UTC()

	trialStart, isPremium, err := g.read(ctx)
	if err != nil {
		return Status{}, err
	}

	// The trial start is recorded on first run even for premium users, so a
	// later revocation cannot grant a fresh trial.
	started := false
	if trialStart == nil {
		trialStart, started = g.startTrial(ctx, now)
	}

	status := Evaluate(now, trialStart, isPremium)
	status.JustStarted = started
	g.log.Debug().
		Bool("premium", status.IsPremium).
		Bool("trial_ended", status.TrialEnded).
		Int("days_left", status.DaysLeft).
		Msg("subscription status evaluated")
	return status, nil
}

func (g *Gate) read(ctx context.Context) (*time.Time, bool, error) {
	record, err := g.kv.Get(ctx, storage.KeyTrialStartDate, storage.KeyIsPremium)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrStatusUnavailable, err)
	}

	var isPremium bool
	if _, err := storage.Decode(record, storage.KeyIsPremium, &isPremium); err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrStatusUnavailable, err)
	}

	var start time.Time
	ok, err := storage.Decode(record, storage.KeyTrialStartDate, &start)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrStatusUnavailable, err)
	}
	if !ok {
		return nil, isPremium, nil
	}
	return &start, isPremium, nil
}

// startTrial writes now as the trial start if none exists. If another process
// got there first, the stored start is returned instead. A failed write leaves
// the trial unstarted so the next Check retries.
func (g *Gate) startTrial(ctx context.Context, now time.Time) (*time.Time, bool) {
	value, err := storage.Encode(now)
	if err != nil {
		g.log.Warn().Err(err).Msg("encode trial start")
		return nil, false
	}

	written, err := g.kv.SetIfAbsent(ctx, storage.KeyTrialStartDate, value)
	if err != nil {
		g.log.Warn().Err(err).Msg("could not record trial start")
		return nil, false
	}
	if written {
		g.log.Info().Time("trial_start", now).Msg("trial period started")
		return &now, true
	}

	stored, _, err := g.read(ctx)
	if err != nil {
		g.log.Warn().Err(err).Msg("re-read trial start")
		return nil, false
	}
	return stored, false
}

// SetPremium records the premium flag. It is called by the out-of-band
// subscription process, never by the evaluation path.
func (g *Gate) SetPremium(ctx context.Context, premium bool) error {
	value, err := storage.Encode(premium)
	if err != nil {
		return err
	}
	if err := g.kv.Set(ctx, map[string][]byte{storage.KeyIsPremium: value}); err != nil {
		return fmt.Errorf("set premium: %w", err)
	}
	return nil
}
