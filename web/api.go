package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Pathx4/Dynamic-FSM-Generator-App/automaton"
	fsmerrors "github.com/Pathx4/Dynamic-FSM-Generator-App/errors"
	"github.com/Pathx4/Dynamic-FSM-Generator-App/formatter"
	"github.com/Pathx4/Dynamic-FSM-Generator-App/loader"
	"github.com/Pathx4/Dynamic-FSM-Generator-App/session"
)

// writeJSONResponse writes a JSON response to the http.ResponseWriter.
// If encoding fails, it writes an error response.
func writeJSONResponse(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, data)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error  string                `json:"error"`
	Errors []fsmerrors.ErrorJSON `json:"errors,omitempty"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// statusFor maps session errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrRunning), errors.Is(err, session.ErrNoAutomaton):
		return http.StatusConflict
	case errors.Is(err, session.ErrNoKeywords):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// AutomatonResponse describes the current automaton.
type AutomatonResponse struct {
	Automaton   *automaton.Automaton  `json:"automaton"`
	Diagnostics []fsmerrors.ErrorJSON `json:"diagnostics"`
}

func (s *Server) automatonResponse(fsm *automaton.Automaton) AutomatonResponse {
	s.mu.RLock()
	diagnostics := s.diagnostics
	s.mu.RUnlock()

	errs := make([]error, len(diagnostics))
	for i, d := range diagnostics {
		errs[i] = d
	}

	return AutomatonResponse{
		Automaton:   fsm,
		Diagnostics: fsmerrors.NewJSONFormatter().FormatAllToSlice(errs),
	}
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, map[string]string{
		"version":   s.Version,
		"commitSHA": s.CommitSHA,
	})
}

// handleGetAutomaton handles GET requests to /api/automaton.
func (s *Server) handleGetAutomaton(w http.ResponseWriter, r *http.Request) {
	fsm := s.session.Automaton()
	if fsm == nil {
		writeError(w, http.StatusNotFound, session.ErrNoAutomaton.Error())
		return
	}
	writeJSONResponse(w, s.automatonResponse(fsm))
}

// handleGetAutomatonDOT renders the automaton as Graphviz, with the state of
// the current run highlighted.
func (s *Server) handleGetAutomatonDOT(w http.ResponseWriter, r *http.Request) {
	fsm := s.session.Automaton()
	if fsm == nil {
		writeError(w, http.StatusNotFound, session.ErrNoAutomaton.Error())
		return
	}

	opts := formatter.DOTOptions{}
	if snap := s.session.Snapshot(); snap.Status == session.Running || snap.Status == session.Paused {
		opts.Highlight = []automaton.StateID{snap.State}
	}

	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	if err := formatter.New().FormatDOT(fsm, opts, w); err != nil {
		s.logger.Error().Err(err).Msg("failed to write diagram")
	}
}

// handleGenerate handles POST requests to /api/generate.
// The body carries a whitespace-separated keyword list.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Words string `json:"words"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := loader.New().LoadString(r.Context(), request.Words)
	if err != nil {
		var emptyErr *loader.EmptyKeywordsError
		if errors.As(err, &emptyErr) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:  err.Error(),
				Errors: fsmerrors.NewJSONFormatter().FormatAllToSlice([]error{err}),
			})
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := s.session.Generate(r.Context(), result.Words()); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	s.mu.Lock()
	s.diagnostics = result.Diagnostics
	s.mu.Unlock()

	s.logger.Info().Strs("words", result.Words()).Msg("automaton generated")
	writeJSONResponse(w, s.automatonResponse(s.session.Automaton()))
}

// handleRun handles POST requests to /api/run. The run proceeds in the
// background; progress is reported through /api/events and /api/state.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	done, err := s.session.Start(s.runCtx, request.Text)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	go func() {
		res := <-done
		if res.Err != nil {
			s.logger.Debug().Err(res.Err).Msg("run stopped")
			return
		}
		s.logger.Debug().Int("tokens", len(res.Tokens)).Msg("run finished")
	}()

	writeJSON(w, http.StatusAccepted, s.session.Snapshot())
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	if !s.session.Pause() {
		writeError(w, http.StatusConflict, "no run in progress")
		return
	}
	writeJSONResponse(w, s.session.Snapshot())
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	if !s.session.Resume() {
		writeError(w, http.StatusConflict, "run is not paused")
		return
	}
	writeJSONResponse(w, s.session.Snapshot())
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.session.Reset()
	writeJSONResponse(w, s.session.Snapshot())
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, s.session.Snapshot())
}
