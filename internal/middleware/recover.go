package middleware

import (
	"candidateTasks/internal/lifecycle"
	"candidateTasks/internal/logger"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"
)

// Recover превращает панику обработчика в ответ 500.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			err, ok := rec.(error)
			if !ok {
				err = fmt.Errorf("%v", rec)
			}

			requestID := GetRequestID(r.Context())
			var violation *lifecycle.ContractViolation
			if errors.As(err, &violation) {
				logger.Error("HTTP: Нарушение контракта классификатора", err,
					zap.String("request_id", requestID),
					zap.String("path", r.URL.Path))
			} else {
				logger.Error("HTTP: Паника в обработчике", err,
					zap.String("request_id", requestID),
					zap.String("path", r.URL.Path),
					zap.ByteString("stack", debug.Stack()))
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error":      "internal_error",
				"message":    "внутренняя ошибка сервера",
				"request_id": requestID,
			})
		}()

		next.ServeHTTP(w, r)
	})
}
