package webutil

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/authdash/internal/logging"
)

// AppHandler represents a handler function that returns an error.
type AppHandler func(w http.ResponseWriter, r *http.Request) error

// MakeHandler adapts an AppHandler to http.HandlerFunc. A returned
// *HTTPError sets the status and message; anything else is logged and
// answered with 500. Bodies are {"message": ...}.
func MakeHandler(logger logging.Logger, handler AppHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := handler(w, r)
		if err == nil {
			return
		}

		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			args := []any{"code", httpErr.Code, "msg", httpErr.Message, "path", r.URL.Path, "method", r.Method}
			if cause := errors.Unwrap(httpErr); cause != nil && cause.Error() != httpErr.Message {
				args = append(args, "cause", cause)
			}
			if httpErr.Code >= http.StatusInternalServerError {
				logger.Error(r.Context(), "server error response", args...)
			} else {
				logger.Warn(r.Context(), "client error response", args...)
			}
			RespondWithError(w, httpErr.Code, httpErr.Message)
			return
		}

		logger.Error(r.Context(), "unhandled internal error", "path", r.URL.Path, "method", r.Method, "error", err)
		RespondWithError(w, http.StatusInternalServerError, msgInternalServer)
	}
}
