package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/okian/podium/internal/adapters/repository"
	"github.com/okian/podium/internal/domain/filter"
	"github.com/okian/podium/internal/domain/types"
)

// maxBodyBytes bounds selection request bodies.
const maxBodyBytes = 1 << 20

// SessionsHandler manages dashboard sessions.
type SessionsHandler struct {
	deps SessionDependencies
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps SessionDependencies) *SessionsHandler {
	return &SessionsHandler{deps: deps}
}

func viewOf(s repository.Session) types.SessionView {
	return types.SessionView{
		ID:         s.ID,
		Selection:  types.ViewOf(s.Selection),
		CreatedAt:  s.CreatedAt,
		LastAccess: s.LastAccess,
	}
}

// decodeSelection reads a selection body. An empty body is allowed only
// when allowEmpty is set and means no restriction.
func decodeSelection(w http.ResponseWriter, r *http.Request, allowEmpty bool) (filter.Selection, error) {
	var req selectionRequest
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req)
	switch {
	case errors.Is(err, io.EOF) && allowEmpty:
	case err != nil:
		return filter.Selection{}, err
	}
	return req.selection()
}

// HandleCreate handles POST /api/v1/sessions requests.
func (h *SessionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_session"
	sel, err := decodeSelection(w, r, true)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	sess, err := h.deps.CreateSession(r.Context(), sel)
	if err != nil {
		fail(w, op, err)
		return
	}
	w.Header().Set("Location", "/api/v1/sessions/"+sess.ID)
	writeJSON(w, http.StatusCreated, viewOf(sess))
}

// HandleGet handles GET /api/v1/sessions/{id} requests.
func (h *SessionsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_session"
	sess, err := h.deps.GetSession(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess))
}

// HandleUpdate handles PUT /api/v1/sessions/{id} requests. The body replaces
// the whole selection.
func (h *SessionsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_session"
	sel, err := decodeSelection(w, r, false)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	sess, err := h.deps.UpdateSelection(r.Context(), r.PathValue("id"), sel)
	if err != nil {
		fail(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess))
}

// HandleDelete handles DELETE /api/v1/sessions/{id} requests.
func (h *SessionsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_session"
	if err := h.deps.DeleteSession(r.Context(), r.PathValue("id")); err != nil {
		fail(w, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSummary handles GET /api/v1/sessions/{id}/summary requests.
func (h *SessionsHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	const op = "api.session_summary"
	sum, err := h.deps.SessionSummary(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
