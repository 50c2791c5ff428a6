package httpserver

import (
	"net/http"
	"time"

	"gift-tracker-go/internal/config"
)

const defaultReadHeaderTimeout = 5 * time.Second

// New builds the API server. Zero timeouts in cfg.HTTP leave the net/http
// default in place, except the header timeout which is always bounded.
func New(cfg config.Config, handler http.Handler) *http.Server {
	readHeader := cfg.HTTP.ReadHeaderTimeout
	if readHeader <= 0 {
		readHeader = defaultReadHeaderTimeout
	}

	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler,
		ReadHeaderTimeout: readHeader,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}
}
