package errors

import "net/http"

// APIError HTTP status'u taşıyan hata tipleri için interface
type APIError interface {
	error
	Status() int
}

// ValidationError query/form parametre hatası
type ValidationError struct {
	Message    string
	StatusCode int
	Field      string
	Value      interface{}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Status() int {
	if e.StatusCode == 0 {
		return http.StatusBadRequest
	}
	return e.StatusCode
}

// UpstreamError audit API'ye ulaşılamadı veya hata döndü
type UpstreamError struct {
	Message  string
	Endpoint string
	Cause    error
}

func (e *UpstreamError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *UpstreamError) Status() int {
	return http.StatusBadGateway
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// ConflictError işlem mevcut state ile çakışıyor (örn. devam eden purge)
type ConflictError struct {
	Message  string
	Resource string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func (e *ConflictError) Status() int {
	return http.StatusConflict
}
