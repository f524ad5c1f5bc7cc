package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hay-kot/toasty/internal/core/logging"
	"github.com/hay-kot/toasty/internal/core/toast"
	"github.com/hay-kot/toasty/pkg/iojson"
)

// optionalMillis distinguishes an absent duration from an explicit null.
type optionalMillis struct {
	set   bool
	null  bool
	value int64
}

func (o *optionalMillis) UnmarshalJSON(b []byte) error {
	o.set = true
	if string(b) == "null" {
		o.null = true
		return nil
	}
	return json.Unmarshal(b, &o.value)
}

type createToastRequest struct {
	Message    string         `json:"message"`
	Position   string         `json:"position"`
	Status     string         `json:"status"`
	DurationMS optionalMillis `json:"duration_ms"`
}

func (req createToastRequest) options() []toast.Option {
	var opts []toast.Option
	if req.Position != "" {
		opts = append(opts, toast.WithPosition(toast.Position(req.Position)))
	}
	if req.Status != "" {
		opts = append(opts, toast.WithStatus(toast.Status(req.Status)))
	}
	switch {
	case !req.DurationMS.set:
	case req.DurationMS.null:
		opts = append(opts, toast.WithoutExpiry())
	default:
		opts = append(opts, toast.WithDurationMillis(req.DurationMS.value))
	}
	return opts
}

func (s *Server) listToasts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Snapshot())
}

func (s *Server) createToast(w http.ResponseWriter, r *http.Request) {
	var req createToastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", map[string]any{"error": err.Error()})
		return
	}

	rec, err := s.engine.Show(req.Message, req.options()...)
	if err != nil {
		var verr *toast.ValidationError
		if errors.As(err, &verr) {
			writeValidationError(w, verr)
			return
		}
		writeError(w, http.StatusServiceUnavailable, err.Error(), nil)
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) dismissToast(w http.ResponseWriter, r *http.Request) {
	id, ok := toastID(w, r)
	if !ok {
		return
	}
	ctx := logging.WithToastID(r.Context(), id)
	s.logger.Debug().Ctx(ctx).Msg("dismiss requested")

	s.engine.Dismiss(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) pauseToast(w http.ResponseWriter, r *http.Request) {
	id, ok := toastID(w, r)
	if !ok {
		return
	}
	ctx := logging.WithToastID(r.Context(), id)
	s.logger.Debug().Ctx(ctx).Msg("pause requested")

	s.engine.Pause(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) resumeToast(w http.ResponseWriter, r *http.Request) {
	id, ok := toastID(w, r)
	if !ok {
		return
	}
	ctx := logging.WithToastID(r.Context(), id)
	s.logger.Debug().Ctx(ctx).Msg("resume requested")

	s.engine.Resume(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) clearGroup(w http.ResponseWriter, r *http.Request) {
	p, err := toast.ParsePosition(chi.URLParam(r, "position"))
	if err != nil {
		var verr *toast.ValidationError
		if errors.As(err, &verr) {
			writeValidationError(w, verr)
			return
		}
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx := logging.WithPosition(r.Context(), p)
	s.logger.Debug().Ctx(ctx).Msg("clear requested")

	s.engine.ClearGroup(p)
	w.WriteHeader(http.StatusNoContent)
}

func toastID(w http.ResponseWriter, r *http.Request) (toast.ID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := toast.ParseID(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid toast id", map[string]any{"id": raw})
		return 0, false
	}
	return id, true
}

func writeValidationError(w http.ResponseWriter, verr *toast.ValidationError) {
	data := make(map[string]any)
	for field, msg := range verr.Fields() {
		data[field] = msg
	}
	writeError(w, http.StatusUnprocessableEntity, verr.Error(), data)
}

func writeError(w http.ResponseWriter, status int, msg string, data map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, iojson.MarshalError(msg, data)+"\n")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
