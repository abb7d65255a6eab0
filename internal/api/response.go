package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	paletteerr "github.com/amterp/palette/internal/errors"
)

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Error writes an error response, mapping domain errors to HTTP status codes.
func Error(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var notFound *paletteerr.NotFoundError
	var alreadyExists *paletteerr.AlreadyExistsError
	var validation *paletteerr.ValidationError
	var malformed *paletteerr.ParseError

	switch {
	case errors.As(err, &notFound):
		status = http.StatusNotFound
	case errors.As(err, &alreadyExists):
		status = http.StatusConflict
	case errors.As(err, &validation):
		status = http.StatusBadRequest
	case errors.As(err, &malformed):
		status = http.StatusUnprocessableEntity
	}

	JSON(w, status, map[string]string{"error": err.Error()})
}

// BadRequest writes a 400 error with the given message.
func BadRequest(w http.ResponseWriter, message string) {
	JSON(w, http.StatusBadRequest, map[string]string{"error": message})
}

// NotFound writes a 404 error for the given resource.
func NotFound(w http.ResponseWriter, resource, id string) {
	JSON(w, http.StatusNotFound, map[string]string{"error": fmt.Sprintf("%s not found: %s", resource, id)})
}
