package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"clinic-scheduler/pkg/apperror"
)

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Code    string      `json:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func Success(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	JSON(w, statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func Error(w http.ResponseWriter, statusCode int, message string, err interface{}) {
	JSON(w, statusCode, Response{
		Success: false,
		Message: message,
		Code:    string(codeForStatus(statusCode)),
		Error:   err,
	})
}

// FromError writes the envelope for an error returned by a usecase.
// Errors without a kind are reported as internal with a generic message.
func FromError(w http.ResponseWriter, err error) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		InternalServerError(w, "")
		return
	}
	JSON(w, appErr.Kind.HTTPStatus(), Response{
		Success: false,
		Message: appErr.Message,
		Code:    string(appErr.Kind),
	})
}

func ValidationError(w http.ResponseWriter, errors interface{}) {
	JSON(w, http.StatusBadRequest, Response{
		Success: false,
		Message: "Validation failed",
		Code:    string(apperror.InvalidArgument),
		Error:   errors,
	})
}

func BadRequest(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Bad request"
	}
	Error(w, http.StatusBadRequest, message, nil)
}

func Unauthorized(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Unauthorized"
	}
	Error(w, http.StatusUnauthorized, message, nil)
}

func NotFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Resource not found"
	}
	Error(w, http.StatusNotFound, message, nil)
}

func InternalServerError(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Internal server error"
	}
	Error(w, http.StatusInternalServerError, message, nil)
}

func Forbidden(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Forbidden"
	}
	Error(w, http.StatusForbidden, message, nil)
}

func codeForStatus(statusCode int) apperror.Kind {
	switch statusCode {
	case http.StatusBadRequest:
		return apperror.InvalidArgument
	case http.StatusUnauthorized:
		return apperror.Unauthorized
	case http.StatusForbidden:
		return apperror.Forbidden
	case http.StatusNotFound:
		return apperror.NotFound
	case http.StatusMethodNotAllowed:
		return apperror.MethodNotAllowed
	case http.StatusConflict:
		return apperror.Conflict
	default:
		return apperror.Internal
	}
}
