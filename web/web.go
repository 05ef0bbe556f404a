// Package web provides an HTTP server for driving a recognizer session.
//
// The server exposes a JSON API to generate automata, start stepped runs and
// pause, resume or reset them, plus a Server-Sent Events stream of every
// step for live diagrams.
//
// SECURITY WARNING: This server has no authentication and should only be
// bound to localhost (127.0.0.1). Do not expose it to untrusted networks.
// File access is restricted to the configured keywords file.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/Pathx4/Dynamic-FSM-Generator-App/loader"
	"github.com/Pathx4/Dynamic-FSM-Generator-App/session"
	"github.com/Pathx4/Dynamic-FSM-Generator-App/telemetry"
)

type Server struct {
	Port         int
	Host         string
	Version      string
	CommitSHA    string
	ReadOnly     bool
	WatchEnabled bool

	session *session.Session
	logger  zerolog.Logger

	// runCtx bounds runs started through the API. It is cancelled when the
	// server stops.
	runCtx context.Context

	mu           sync.RWMutex
	keywordsFile string // Absolute path of the keywords file, if any
	source       []byte
	diagnostics  []*loader.Diagnostic
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for requests, reloads and watcher errors.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithKeywordsFile loads the automaton from path on Start.
func WithKeywordsFile(path string) Option {
	return func(s *Server) {
		s.keywordsFile = path
	}
}

// WithWatch regenerates the automaton whenever the keywords file changes.
func WithWatch() Option {
	return func(s *Server) {
		s.WatchEnabled = true
	}
}

// WithReadOnly rejects requests that change the keyword list.
func WithReadOnly() Option {
	return func(s *Server) {
		s.ReadOnly = true
	}
}

// WithVersion sets the version reported by /api/version.
func WithVersion(version, commitSHA string) Option {
	return func(s *Server) {
		s.Version = version
		s.CommitSHA = commitSHA
	}
}

// New creates a server for sess listening on port.
func New(port int, sess *session.Session, opts ...Option) *Server {
	s := &Server{
		Port:    port,
		Host:    "127.0.0.1",
		session: sess,
		logger:  zerolog.Nop(),
		runCtx:  context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the keywords file, if any, and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	collector := telemetry.FromContext(ctx)
	timer := collector.Start(fmt.Sprintf("web.start %s:%d", s.Host, s.Port))

	s.runCtx = ctx

	if s.keywordsFile != "" {
		absPath, err := filepath.Abs(s.keywordsFile)
		if err != nil {
			timer.End()
			return fmt.Errorf("failed to resolve absolute path: %w", err)
		}
		s.keywordsFile = absPath

		loadTimer := timer.Child(fmt.Sprintf("web.load_keywords %s", filepath.Base(absPath)))
		err = s.reloadKeywords(ctx)
		loadTimer.End()
		if err != nil {
			timer.End()
			return fmt.Errorf("failed to load keywords: %w", err)
		}
	}

	if s.WatchEnabled {
		if s.keywordsFile == "" {
			timer.End()
			return fmt.Errorf("watching requires a keywords file")
		}
		if err := s.startWatcher(ctx); err != nil {
			timer.End()
			return fmt.Errorf("failed to start file watcher: %w", err)
		}
	}

	setupTimer := timer.Child("web.setup_router")
	mux := s.setupRouter()
	setupTimer.End()
	timer.End()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.Host, s.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info().Str("addr", srv.Addr).Msg("server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

func (s *Server) setupRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/version", s.handleVersion)
	mux.HandleFunc("GET /api/automaton", s.handleGetAutomaton)
	mux.HandleFunc("GET /api/automaton.dot", s.handleGetAutomatonDOT)
	mux.HandleFunc("POST /api/generate", s.requireWritable(s.handleGenerate))
	mux.HandleFunc("GET /api/keywords", s.handleGetKeywords)
	mux.HandleFunc("PUT /api/keywords", s.requireWritable(s.handlePutKeywords))
	mux.HandleFunc("POST /api/run", s.handleRun)
	mux.HandleFunc("POST /api/pause", s.handlePause)
	mux.HandleFunc("POST /api/resume", s.handleResume)
	mux.HandleFunc("POST /api/reset", s.handleReset)
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("GET /api/events", s.handleSSE)

	return mux
}

// requireWritable is middleware that rejects write requests in read-only mode.
func (s *Server) requireWritable(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.ReadOnly {
			writeError(w, http.StatusForbidden, "server is in read-only mode")
			return
		}
		next(w, r)
	}
}

// reloadKeywords loads the keywords file and regenerates the automaton. A
// run in progress is aborted, since the automaton it walks is replaced.
// Caller must NOT hold the mutex - this method acquires it internally.
func (s *Server) reloadKeywords(ctx context.Context) error {
	s.mu.RLock()
	file := s.keywordsFile
	s.mu.RUnlock()

	result, err := loader.New().Load(ctx, file)
	if err != nil {
		return err
	}

	if err := s.session.Regenerate(ctx, result.Words()); err != nil {
		return err
	}

	s.mu.Lock()
	s.source = result.Source
	s.diagnostics = result.Diagnostics
	s.mu.Unlock()

	s.logger.Info().
		Str("file", file).
		Int("keywords", len(result.Keywords)).
		Int("warnings", len(result.Diagnostics)).
		Msg("keywords loaded")

	return nil
}

// startWatcher watches the keywords file and regenerates the automaton when
// it changes.
func (s *Server) startWatcher(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	s.mu.RLock()
	file := s.keywordsFile
	s.mu.RUnlock()

	// Watch the directory: editors often replace the file on save, which
	// drops a watch on the file itself.
	if err := watcher.Add(filepath.Dir(file)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", file, err)
	}

	go s.runWatcher(ctx, watcher, file)

	return nil
}

// runWatcher processes file system events with debouncing.
func (s *Server) runWatcher(ctx context.Context, watcher *fsnotify.Watcher, file string) {
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		_ = watcher.Close()
	}()

	// Debounce timer - editors often write files in multiple steps
	const debounceDelay = 100 * time.Millisecond

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != file {
				continue
			}

			// React to write/create/rename events
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}

			debounceTimer = time.AfterFunc(debounceDelay, func() {
				s.handleFileChange(ctx)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn().Err(err).Msg("file watcher error")
		}
	}
}

// handleFileChange reloads the keywords after the file changed on disk.
func (s *Server) handleFileChange(ctx context.Context) {
	if err := s.reloadKeywords(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to reload keywords")
	}
}
