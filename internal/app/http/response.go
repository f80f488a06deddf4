package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/leesiuhin7/gge-utility-bot/internal/app/errtype"
)

// SetDefaultHeaders sets the basic set of headers to the response.
func SetDefaultHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Headers", "Accept,Authorization,Accept-Language,Content-Type,Content-Language")
}

func apiError(w http.ResponseWriter, err error) {
	SetDefaultHeaders(w)
	code := http.StatusInternalServerError
	switch true {
	case errors.Is(err, errtype.ErrUnauthorized):
		code = http.StatusUnauthorized
	case errors.Is(err, errtype.ErrNotFound), errors.Is(err, errtype.ErrGuildNotFound):
		code = http.StatusNotFound
	case errors.Is(err, errtype.ErrBadInput), errors.Is(err, errtype.ErrInvalidPath):
		code = http.StatusBadRequest
	default:
		logrus.WithError(err).Error("internal API error")
	}
	w.WriteHeader(code)
}

func apiSuccess(w http.ResponseWriter, data interface{}) {
	SetDefaultHeaders(w)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logrus.WithError(err).Error("failed to encode the API response")
	}
}
