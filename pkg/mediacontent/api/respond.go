package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/portfoliokit/media-content/pkg/mediacontent"
)

// Envelope is the success response body: {success, data, message?}.
type Envelope struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Message string                 `json:"message,omitempty"`
}

// ErrorEnvelope is the failure response body.
type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func respondData(w http.ResponseWriter, r *http.Request, status int, key string, value interface{}) {
	render.Status(r, status)
	render.JSON(w, r, Envelope{
		Success: true,
		Data:    map[string]interface{}{key: value},
	})
}

func respondMessage(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, Envelope{Success: true, Message: message})
}

func respondError(w http.ResponseWriter, r *http.Request, err error, message string) {
	render.Status(r, statusFor(err))
	render.JSON(w, r, ErrorEnvelope{
		Success: false,
		Message: message,
		Error:   err.Error(),
	})
}

func respondBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, ErrorEnvelope{Success: false, Message: message})
}

// statusFor maps domain errors onto HTTP status codes. Client input errors
// are 4xx; a failed object-store write is the upstream's fault.
func statusFor(err error) int {
	switch {
	case errors.Is(err, mediacontent.ErrInvalidFileSet),
		errors.Is(err, mediacontent.ErrUnsupportedMediaType),
		errors.Is(err, mediacontent.ErrInvalidAssetSet),
		errors.Is(err, mediacontent.ErrCategoryNotFound):
		return http.StatusBadRequest
	case errors.Is(err, mediacontent.ErrCategoryMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, mediacontent.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, mediacontent.ErrCategoryInUse),
		errors.Is(err, mediacontent.ErrRemoteRefInUse):
		return http.StatusConflict
	case errors.Is(err, mediacontent.ErrUploadFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
