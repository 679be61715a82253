package api

import (
	"net/http"
)

// ActivitiesHandler serves the activity directory and roster changes.
type ActivitiesHandler struct {
	deps Dependencies
}

// NewActivitiesHandler creates a new activities handler.
func NewActivitiesHandler(deps Dependencies) *ActivitiesHandler {
	return &ActivitiesHandler{deps: deps}
}

// HandleList handles GET /activities.
func (h *ActivitiesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.ListActivities(r.Context()))
}

// HandleSignup handles POST /activities/{activity_name}/signup?email=.
func (h *ActivitiesHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	activity, email, ok := rosterParams(w, r)
	if !ok {
		return
	}
	res, err := h.deps.Signup(r.Context(), activity, email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: res.Message})
}

// HandleUnregister handles POST /activities/{activity_name}/unregister?email=.
func (h *ActivitiesHandler) HandleUnregister(w http.ResponseWriter, r *http.Request) {
	activity, email, ok := rosterParams(w, r)
	if !ok {
		return
	}
	res, err := h.deps.Unregister(r.Context(), activity, email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: res.Message})
}

// rosterParams extracts the activity name and email. An empty email is
// accepted; only a missing parameter is rejected.
func rosterParams(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	q := r.URL.Query()
	if !q.Has("email") {
		writeDetail(w, http.StatusUnprocessableEntity, ErrMissingEmail.Error())
		return "", "", false
	}
	return r.PathValue("activity_name"), q.Get("email"), true
}
