package http

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter creates and configures a new instance of the router.
func NewRouter(h Handler) *httprouter.Router {
	r := httprouter.New()

	r.GET("/ping", h.Ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/status", h.Status)
	r.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	r.GlobalOPTIONS = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		SetDefaultHeaders(w)
		h := w.Header()
		h.Set("Access-Control-Allow-Methods", h.Get("Allow"))
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}
