package helpers

import (
	"encoding/json"
	"net/http"

	"github.com/isometry/event-echo-app/internal/models"
)

type httpError struct {
	Error string `json:"error"`
}

// RespondHTTP writes the handler response to rw. A non-nil err replaces the body with a JSON error document.
func RespondHTTP(response models.Response, err error, rw http.ResponseWriter) {
	statusCode := response.StatusCode
	if statusCode == 0 {
		statusCode = http.StatusOK
	}
	body := []byte(response.Body)
	if err != nil {
		body, _ = json.Marshal(httpError{Error: err.Error()})
		rw.Header().Set("Content-Type", "application/json")
	}
	for k, v := range response.Headers {
		rw.Header().Set(k, v)
	}
	rw.WriteHeader(statusCode)
	_, _ = rw.Write(body)
}
