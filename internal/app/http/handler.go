package http

import (
	"net/http"

	"github.com/beldeveloper/go-errors-context"
	"github.com/julienschmidt/httprouter"

	"github.com/leesiuhin7/gge-utility-bot/internal/app"
	"github.com/leesiuhin7/gge-utility-bot/internal/app/errtype"
	"github.com/leesiuhin7/gge-utility-bot/internal/app/gamedata"
)

// NewHandler creates a new instance of the REST API handler.
func NewHandler(statusSvc app.StatusMonitorSvc, accessKey app.ApiAccessKey) Handler {
	return Handler{
		statusSvc: statusSvc,
		accessKey: string(accessKey),
	}
}

// Handler handles the REST API requests.
type Handler struct {
	statusSvc app.StatusMonitorSvc
	accessKey string
}

// Ping responds to liveness probes.
func (h Handler) Ping(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	apiSuccess(w, "pong")
}

// Healthz reports the process health.
func (h Handler) Healthz(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	apiSuccess(w, map[string]string{"status": "ok"})
}

type statusEntry struct {
	gamedata.EncodedStatus
	Visibility []int64 `json:"visibility"`
}

// Status returns the current state of every configured puppet.
func (h Handler) Status(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	err := h.validateKey(r)
	if err != nil {
		apiError(w, err)
		return
	}
	statuses, err := h.statusSvc.Statuses(r.Context())
	if err != nil {
		apiError(w, err)
		return
	}
	entries := make([]statusEntry, 0, len(statuses))
	for _, status := range statuses {
		entries = append(entries, statusEntry{
			EncodedStatus: gamedata.EncodeStatus(status.Status),
			Visibility:    status.Visibility,
		})
	}
	apiSuccess(w, entries)
}

func (h Handler) validateKey(r *http.Request) error {
	if r.URL.Query().Get("accessKey") != h.accessKey {
		return errors.WrapContext(errtype.ErrUnauthorized, errors.Context{})
	}
	return nil
}
