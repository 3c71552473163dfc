package httpserver

import (
	"net/http"
	"time"
)

// New builds the operational HTTP server with sane defaults. It only ever
// serves health and metrics; tight timeouts are fine.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}
