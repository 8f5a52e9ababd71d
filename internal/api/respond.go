package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/render"

	"github.com/soaringjerry/SurveyFlow/internal/log"
	"github.com/soaringjerry/SurveyFlow/internal/services"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

func writeErrorCode(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	writeJSON(w, r, status, map[string]errorBody{"error": {Code: code, Message: msg}})
}

func statusFor(code services.ErrorCode) int {
	switch code {
	case services.ErrorInvalid:
		return http.StatusBadRequest
	case services.ErrorForbidden:
		return http.StatusForbidden
	case services.ErrorNotFound:
		return http.StatusNotFound
	case services.ErrorConflict:
		return http.StatusConflict
	case services.ErrorUnauthorized:
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// writeError maps service errors to their status. Anything else is logged and reported as 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if se, ok := services.AsServiceError(err); ok {
		log.Debugf("%s %s: %s: %s", r.Method, r.URL.Path, se.Code, se.Message)
		writeErrorCode(w, r, statusFor(se.Code), string(se.Code), se.Message)
		return
	}
	log.Errorf("%s %s: %v", r.Method, r.URL.Path, err)
	writeErrorCode(w, r, http.StatusInternalServerError, "internal", http.StatusText(http.StatusInternalServerError))
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := render.DecodeJSON(r.Body, v); err != nil && !errors.Is(err, io.EOF) {
		writeErrorCode(w, r, http.StatusBadRequest, string(services.ErrorInvalid), "invalid json body")
		return false
	}
	return true
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
