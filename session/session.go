// Package session drives stepped, observable recognizer runs.
//
// A Session owns the current automaton and at most one run over it. Runs
// advance one scanner step at a time with a fixed delay between steps, and
// can be paused, resumed and reset from other goroutines. A pause takes
// effect between two steps, never inside one.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Pathx4/Dynamic-FSM-Generator-App/automaton"
	"github.com/Pathx4/Dynamic-FSM-Generator-App/recognizer"
	"github.com/Pathx4/Dynamic-FSM-Generator-App/telemetry"
)

// DefaultDelay is the pause between two steps of an animated run.
const DefaultDelay = 600 * time.Millisecond

var (
	// ErrNoKeywords is returned by Generate for an empty keyword list.
	ErrNoKeywords = errors.New("no keywords given")
	// ErrNoAutomaton is returned by Run before the first Generate.
	ErrNoAutomaton = errors.New("no automaton generated")
	// ErrRunning is returned by Run and Generate while a run is in progress.
	ErrRunning = errors.New("a run is already in progress")
	// ErrReset is returned by Run when Reset aborted it.
	ErrReset = errors.New("run aborted by reset")
)

// Status is the lifecycle state of a session.
type Status uint8

const (
	Idle Status = iota
	Running
	Paused
	Finished
)

var statusNames = map[Status]string{
	Idle:     "idle",
	Running:  "running",
	Paused:   "paused",
	Finished: "finished",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Snapshot is a consistent view of a session between two steps.
type Snapshot struct {
	Status  Status             `json:"status"`
	Words   []string           `json:"words"`
	Text    string             `json:"text"`
	Pos     int                `json:"pos"`
	State   automaton.StateID  `json:"state"`
	Partial string             `json:"partial"`
	Tokens  []recognizer.Token `json:"tokens"`
}

// Session is safe for concurrent use.
type Session struct {
	delay  time.Duration
	policy recognizer.MismatchPolicy
	logger zerolog.Logger
	// observe is called synchronously for every event, before subscribers.
	observe func(Event)

	mu      sync.Mutex
	fsm     *automaton.Automaton
	status  Status
	text    string
	pos     int
	state   automaton.StateID
	partial string
	tokens  []recognizer.Token

	// resume is non-nil while paused and closed by Resume or Reset.
	resume chan struct{}
	// cancel aborts the run in progress.
	cancel context.CancelFunc
	// gen identifies the current run; Reset bumps it so a stale run stops.
	gen uint64

	hub *hub
}

// Option configures a Session.
type Option func(*Session)

// WithDelay sets the pause between two steps. Zero runs without delay.
func WithDelay(d time.Duration) Option {
	return func(s *Session) {
		s.delay = d
	}
}

// WithMismatchPolicy selects the recognizer's mismatch policy.
func WithMismatchPolicy(p recognizer.MismatchPolicy) Option {
	return func(s *Session) {
		s.policy = p
	}
}

// WithLogger sets the logger used for lifecycle events.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithObserver registers fn to receive every event synchronously, before
// it is published to subscribers. fn runs on the goroutine that caused the
// event, so it may be called concurrently by Run and the control methods.
func WithObserver(fn func(Event)) Option {
	return func(s *Session) {
		s.observe = fn
	}
}

// New creates an idle session without an automaton.
func New(opts ...Option) *Session {
	s := &Session{
		delay:  DefaultDelay,
		logger: zerolog.Nop(),
		hub:    newHub(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Automaton returns the current automaton, or nil before Generate.
func (s *Session) Automaton() *automaton.Automaton {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fsm
}

// Generate rebuilds the automaton from words and resets the session. It
// fails with ErrRunning while a run is in progress.
func (s *Session) Generate(ctx context.Context, words []string) error {
	return s.generate(ctx, words, false)
}

// Regenerate is Generate for callers that replace the automaton under a
// live run, such as a file watcher: the run is aborted with ErrReset and
// the new automaton installed under the same lock, so no run can start in
// between.
func (s *Session) Regenerate(ctx context.Context, words []string) error {
	return s.generate(ctx, words, true)
}

func (s *Session) generate(ctx context.Context, words []string, abort bool) error {
	fsm := automaton.Build(ctx, words)
	if len(fsm.Words()) == 0 {
		return ErrNoKeywords
	}

	s.mu.Lock()
	active := s.status == Running || s.status == Paused
	if active && !abort {
		s.mu.Unlock()
		return ErrRunning
	}
	s.fsm = fsm
	s.resetLocked()
	s.mu.Unlock()

	if active {
		s.logger.Debug().Msg("run aborted by regenerate")
		s.publish(Event{Type: EventReset, Snapshot: s.Snapshot()})
	}

	s.logger.Info().
		Strs("words", fsm.Words()).
		Int("states", fsm.StateCount()).
		Int("finals", fsm.FinalStateCount()).
		Msg("automaton generated")

	s.publish(Event{Type: EventGenerate, Snapshot: s.Snapshot()})
	return nil
}

// Result is the outcome of a run started with Start.
type Result struct {
	Tokens []recognizer.Token
	Err    error
}

// Run scans text step by step, waiting the configured delay between steps
// and blocking while paused. It returns the tokens emitted. If ctx is
// cancelled or Reset is called, Run returns the tokens emitted so far with
// ctx.Err() or ErrReset.
func (s *Session) Run(ctx context.Context, text string) ([]recognizer.Token, error) {
	done, err := s.Start(ctx, text)
	if err != nil {
		return nil, err
	}
	res := <-done
	return res.Tokens, res.Err
}

// Start begins a run in the background and returns a channel that receives
// its Result. Errors that prevent the run from starting are returned
// directly.
func (s *Session) Start(ctx context.Context, text string) (<-chan Result, error) {
	s.mu.Lock()
	if s.fsm == nil {
		s.mu.Unlock()
		return nil, ErrNoAutomaton
	}
	if s.status == Running || s.status == Paused {
		s.mu.Unlock()
		return nil, ErrRunning
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.dropGateLocked()
	s.gen++
	gen := s.gen
	s.cancel = cancel
	s.status = Running
	s.text = text
	s.pos = 0
	s.state = automaton.Start
	s.partial = ""
	s.tokens = nil
	scanner := recognizer.New(s.fsm, recognizer.WithMismatchPolicy(s.policy)).Scanner(text)
	s.mu.Unlock()

	s.logger.Debug().Str("text", text).Msg("run started")
	s.publish(Event{Type: EventRun, Snapshot: s.Snapshot()})

	done := make(chan Result, 1)
	go func() {
		defer cancel()
		tokens, err := s.run(ctx, runCtx, gen, scanner)
		done <- Result{Tokens: tokens, Err: err}
	}()
	return done, nil
}

func (s *Session) run(parent, ctx context.Context, gen uint64, scanner *recognizer.Scanner) ([]recognizer.Token, error) {
	timer := telemetry.FromContext(parent).Start("session.run")
	defer timer.End()

	var tokens []recognizer.Token
	for {
		if err := s.wait(ctx); err != nil {
			return tokens, s.abort(parent, gen, err)
		}

		step, ok := scanner.Next()
		if !ok {
			break
		}
		timer.Annotate("steps", 1)
		if step.Token != nil {
			tokens = append(tokens, *step.Token)
		}

		s.mu.Lock()
		if s.gen != gen {
			s.mu.Unlock()
			return tokens, ErrReset
		}
		s.pos = step.Pos
		s.state = step.State
		s.partial = step.Partial
		s.tokens = append([]recognizer.Token(nil), tokens...)
		s.mu.Unlock()

		s.publish(Event{Type: EventStep, Step: &step, Snapshot: s.Snapshot()})

		if err := s.sleep(ctx); err != nil {
			return tokens, s.abort(parent, gen, err)
		}
	}

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return tokens, ErrReset
	}
	// A pause that lands after the last step has nothing left to hold.
	s.dropGateLocked()
	s.status = Finished
	s.pos = -1
	s.state = automaton.None
	s.partial = ""
	s.cancel = nil
	s.mu.Unlock()

	s.logger.Debug().Int("tokens", len(tokens)).Msg("run finished")
	s.publish(Event{Type: EventDone, Snapshot: s.Snapshot()})
	return tokens, nil
}

// abort maps the reason a run stopped early to its error. A run stopped by
// Reset has already been cleaned up by Reset itself.
func (s *Session) abort(parent context.Context, gen uint64, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen {
		return ErrReset
	}
	if parent.Err() == nil {
		return err
	}

	s.resetLocked()
	s.logger.Debug().Err(err).Msg("run cancelled")
	return err
}

// wait blocks while the session is paused.
func (s *Session) wait(ctx context.Context) error {
	s.mu.Lock()
	ch := s.resume
	s.mu.Unlock()

	if ch == nil {
		return ctx.Err()
	}

	select {
	case <-ch:
		return ctx.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) sleep(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.delay)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pause suspends the run in progress after its current step. It reports
// whether the session was running.
func (s *Session) Pause() bool {
	s.mu.Lock()
	if s.status != Running {
		s.mu.Unlock()
		return false
	}
	s.status = Paused
	s.resume = make(chan struct{})
	s.mu.Unlock()

	s.logger.Debug().Msg("run paused")
	s.publish(Event{Type: EventPause, Snapshot: s.Snapshot()})
	return true
}

// Resume continues a paused run. It reports whether the session was paused.
func (s *Session) Resume() bool {
	s.mu.Lock()
	if s.status != Paused {
		s.mu.Unlock()
		return false
	}
	s.status = Running
	close(s.resume)
	s.resume = nil
	s.mu.Unlock()

	s.logger.Debug().Msg("run resumed")
	s.publish(Event{Type: EventResume, Snapshot: s.Snapshot()})
	return true
}

// Toggle pauses a running session or resumes a paused one.
func (s *Session) Toggle() {
	if !s.Pause() {
		s.Resume()
	}
}

// Reset aborts any run in progress and restores state 0 and position 0 with
// no tokens. The automaton is kept.
func (s *Session) Reset() {
	s.mu.Lock()
	s.resetLocked()
	s.mu.Unlock()

	s.logger.Debug().Msg("session reset")
	s.publish(Event{Type: EventReset, Snapshot: s.Snapshot()})
}

func (s *Session) resetLocked() {
	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.dropGateLocked()
	s.status = Idle
	s.text = ""
	s.pos = 0
	s.state = automaton.Start
	s.partial = ""
	s.tokens = nil
}

// dropGateLocked releases anything blocked on the pause gate.
func (s *Session) dropGateLocked() {
	if s.resume != nil {
		close(s.resume)
		s.resume = nil
	}
}

// Snapshot returns the current state of the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Status:  s.status,
		Text:    s.text,
		Pos:     s.pos,
		State:   s.state,
		Partial: s.partial,
		Tokens:  append([]recognizer.Token(nil), s.tokens...),
	}
	if s.fsm != nil {
		snap.Words = s.fsm.Words()
	}
	return snap
}

func (s *Session) publish(ev Event) {
	if s.observe != nil {
		s.observe(ev)
	}
	s.hub.publish(ev)
}

// Subscribe registers for session events. The returned function
// unsubscribes and closes the channel. Slow subscribers miss events rather
// than block the run.
func (s *Session) Subscribe() (<-chan Event, func()) {
	return s.hub.subscribe()
}
