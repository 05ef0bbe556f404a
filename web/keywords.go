package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"

	fsmerrors "github.com/Pathx4/Dynamic-FSM-Generator-App/errors"
	"github.com/Pathx4/Dynamic-FSM-Generator-App/loader"
)

// KeywordsResponse is the content of the keywords file and its diagnostics.
type KeywordsResponse struct {
	Filepath    string                `json:"filepath"`
	Source      string                `json:"source"`
	Diagnostics []fsmerrors.ErrorJSON `json:"diagnostics"`
}

// buildResponse creates a KeywordsResponse from the last load.
// Must be called with s.mu held for reading.
func (s *Server) buildResponse() *KeywordsResponse {
	errs := make([]error, len(s.diagnostics))
	for i, d := range s.diagnostics {
		errs[i] = d
	}
	return &KeywordsResponse{
		Filepath:    s.keywordsFile,
		Source:      string(s.source),
		Diagnostics: fsmerrors.NewJSONFormatter().FormatAllToSlice(errs),
	}
}

// handleGetKeywords handles GET requests to /api/keywords.
func (s *Server) handleGetKeywords(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.keywordsFile == "" {
		writeError(w, http.StatusNotFound, "no keywords file configured")
		return
	}
	writeJSONResponse(w, s.buildResponse())
}

// handlePutKeywords handles PUT requests to /api/keywords.
// Writes the provided content to the keywords file and regenerates the
// automaton from it.
func (s *Server) handlePutKeywords(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Source string `json:"source"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.RLock()
	file := s.keywordsFile
	s.mu.RUnlock()

	if file == "" {
		writeError(w, http.StatusNotFound, "no keywords file configured")
		return
	}

	info, err := os.Stat(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to stat keywords file")
		return
	}

	if err := os.WriteFile(file, []byte(request.Source), info.Mode().Perm()); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to write keywords file")
		return
	}

	if err := s.reloadKeywords(r.Context()); err != nil {
		writeJSON(w, statusForLoad(err), ErrorResponse{
			Error:  err.Error(),
			Errors: fsmerrors.NewJSONFormatter().FormatAllToSlice([]error{err}),
		})
		return
	}

	s.mu.RLock()
	response := s.buildResponse()
	s.mu.RUnlock()

	writeJSONResponse(w, response)
}

func statusForLoad(err error) int {
	var emptyErr *loader.EmptyKeywordsError
	if errors.As(err, &emptyErr) {
		return http.StatusBadRequest
	}
	return statusFor(err)
}
