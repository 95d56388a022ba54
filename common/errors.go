package common

import (
	"encoding/json"
	"net/http"

	"farm-ledger-api/logger"

	"github.com/sirupsen/logrus"
)

// Error kinds reported to API clients. Handlers map service errors onto
// these so callers can branch on a stable machine-readable value instead of
// parsing messages.
const (
	KindInvalidAmount        = "InvalidAmount"
	KindUnsupportedOperation = "UnsupportedOperation"
	KindInvalidDestination   = "InvalidDestination"
	KindInsufficientFunds    = "InsufficientFunds"
	KindNotFound             = "NotFound"
	KindValidation           = "ValidationError"
	KindPersistence          = "PersistenceError"
)

type AppError struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(code int, kind, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

func (e *AppError) Send(w http.ResponseWriter) {
	if e.Err != nil {
		logger.Log.WithFields(logrus.Fields{
			"status_code":    e.Code,
			"kind":           e.Kind,
			"internal_error": e.Err.Error(),
		}).Error(e.Message)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(e.Code)
	json.NewEncoder(w).Encode(e)
}
