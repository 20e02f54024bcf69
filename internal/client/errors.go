package client

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnexpectedShape cevap gövdesi beklenen formatta değil
var ErrUnexpectedShape = errors.New("unexpected response shape")

// APIError upstream'in 4xx/5xx cevabı
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	ErrorText  string `json:"error,omitempty"`
}

// Error error interface implementation'ı
func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.ErrorText
	}
	return fmt.Sprintf("activity api: %d: %s", e.StatusCode, msg)
}

// parseAPIError JSON hata gövdesini çözmeye çalışır; olmazsa ham metni kullanır
func parseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || (apiErr.Message == "" && apiErr.ErrorText == "") {
		apiErr.Message = string(body)
	}
	return apiErr
}
