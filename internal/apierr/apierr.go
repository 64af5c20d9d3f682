package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeBadRequest        = "bad_request"
	CodeUnauthorized      = "unauthorized"
	CodeNotFound          = "not_found"
	CodeContentRejected   = "content_rejected"
	CodeQuotaExhausted    = "quota_exhausted"
	CodeSessionComplete   = "session_complete"
	CodeGenerationFailed  = "generation_failed"
	CodePersistenceFailed = "persistence_failed"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func BadRequest(err error) *Error {
	return New(http.StatusBadRequest, CodeBadRequest, err)
}

func Unauthorized(err error) *Error {
	return New(http.StatusUnauthorized, CodeUnauthorized, err)
}

func NotFound(err error) *Error {
	return New(http.StatusNotFound, CodeNotFound, err)
}

func ContentRejected() *Error {
	return New(http.StatusUnprocessableEntity, CodeContentRejected,
		errors.New("case description contains disqualifying content, please review and modify"))
}

func QuotaExhausted() *Error {
	return New(http.StatusPaymentRequired, CodeQuotaExhausted,
		errors.New("no cases remaining, please upgrade your plan"))
}

func SessionComplete() *Error {
	return New(http.StatusConflict, CodeSessionComplete,
		errors.New("session already produced a final analysis, start a new case to continue"))
}

func GenerationFailed(err error) *Error {
	return New(http.StatusBadGateway, CodeGenerationFailed, err)
}

func PersistenceFailed(err error) *Error {
	return New(http.StatusInternalServerError, CodePersistenceFailed, err)
}

// Is reports whether err carries the given apierr code.
func Is(err error, code string) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}
