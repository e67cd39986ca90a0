package httpserver

import (
	"net/http"
	"time"
)

// New builds the HTTP server. Read and write timeouts come from the runtime
// configuration; the header timeout is fixed so slow clients cannot pin a
// connection before a request arrives.
func New(addr string, handler http.Handler, readTimeout, writeTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
	}
}
