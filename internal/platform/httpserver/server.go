package httpserver

import (
	"net/http"
	"time"
)

// New returns an http.Server with conservative timeouts. WriteTimeout is left
// generous because fragment renders wait on nothing but the in-memory page.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
