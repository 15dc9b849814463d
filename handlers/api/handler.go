package api

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/nijaru/yt-summary/errors"
	"github.com/nijaru/yt-summary/middleware"
	"github.com/nijaru/yt-summary/models"
	"github.com/nijaru/yt-summary/validation"
	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 1 << 20

func respondJSON(w http.ResponseWriter, r *http.Request, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		middleware.GetLogger(r.Context()).WithError(err).Error("Failed to encode response")
	}
}

func respondText(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	w.Write([]byte(body))
}

// respondError renders err as an ErrorResponse. AppErrors keep their status,
// message and details; anything else is a 500 carrying the error text.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusInternalServerError
	body := models.ErrorResponse{Error: err.Error()}

	appErr, ok := errors.As(err)
	if ok {
		code = appErr.Code
		body = models.ErrorResponse{Error: appErr.Message, Details: appErr.Details}
	}

	entry := middleware.GetLogger(r.Context()).WithFields(logrus.Fields{
		"error":  err,
		"status": code,
	})
	if ok && appErr.Op != "" {
		entry = entry.WithField("op", appErr.Op)
	}
	if code >= http.StatusInternalServerError {
		entry.Error("Request error")
	} else {
		entry.Warn("Request error")
	}

	respondJSON(w, r, code, body)
}

// readJSON decodes the request body into v. Malformed bodies are reported the
// same way as validation failures.
func readJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	const op = "readJSON"

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return invalidBody(op, err)
	}
	// The body must hold exactly one JSON value.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			err = stderrors.New("unexpected data after JSON value")
		}
		return invalidBody(op, err)
	}
	return nil
}

func invalidBody(op string, err error) *errors.AppError {
	return errors.InvalidInput(op, err, "Invalid request body").WithDetails([]validation.FieldError{{
		Field:   "body",
		Tag:     "json",
		Message: err.Error(),
	}})
}
