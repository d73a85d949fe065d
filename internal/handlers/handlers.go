package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vancomm/minefield/internal/mines"
	"github.com/vancomm/minefield/internal/session"
)

var (
	ErrBadQuery     = errors.New("invalid query")
	ErrUnauthorized = errors.New("unauthorized")
)

func SendJSON(w http.ResponseWriter, v any) (int, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	w.Header().Add("Content-Type", "application/json")
	return w.Write(payload)
}

func sendJSONOrLog(w http.ResponseWriter, log logrus.FieldLogger, v any) {
	_, err := SendJSON(w, v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.WithFields(logrus.Fields{
			"response": v,
			"error":    err,
		}).Error("unable to send response")
	}
}

func wrapError(err error) map[string]string {
	return map[string]string{
		"error": err.Error(),
	}
}

// statusFor maps an error from the engine, the session store or request
// parsing to the HTTP status it is reported with.
func statusFor(err error) int {
	var (
		cfgErr mines.ConfigError
		idxErr mines.IndexError
	)
	switch {
	case errors.As(err, &cfgErr),
		errors.As(err, &idxErr),
		errors.Is(err, ErrBadQuery),
		errors.Is(err, ErrBadMove):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func sendError(w http.ResponseWriter, log logrus.FieldLogger, err error) {
	status := statusFor(err)
	w.Header().Set("Content-Type", "application/json")
	if status == http.StatusInternalServerError {
		log.WithError(err).Error("request failed")
		w.WriteHeader(status)
		sendJSONOrLog(w, log, wrapError(errors.New("internal error")))
		return
	}
	w.WriteHeader(status)
	sendJSONOrLog(w, log, wrapError(err))
}

func Status(w http.ResponseWriter, r *http.Request) {
	SendJSON(w, map[string]string{"status": "ok"})
}
