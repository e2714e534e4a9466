package handler

import (
	"io"
	"log"
	"net/http"

	"github.com/gorilla/handlers"
)

// CORS policy for browser map clients
var (
	corsOrigins = []string{"*"}
	corsMethods = []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}
	corsHeaders = []string{"Content-Type", "Authorization"}
)

// Wrap installs panic recovery, access logging and CORS around h. Access
// logs go to logOut in Apache common log format; a nil logOut disables them.
// CORS preflights are answered with 204.
func Wrap(h http.Handler, logOut io.Writer) http.Handler {
	h = handlers.CORS(
		handlers.AllowedOrigins(corsOrigins),
		handlers.AllowedMethods(corsMethods),
		handlers.AllowedHeaders(corsHeaders),
		handlers.OptionStatusCode(http.StatusNoContent),
	)(h)
	if logOut != nil {
		h = handlers.LoggingHandler(logOut, h)
	}
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(log.Default()),
		handlers.PrintRecoveryStack(true),
	)(h)
}
