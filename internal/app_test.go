// internal/app_test.go
package app

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"finledger/internal/api/handler"
	"finledger/internal/config"
)

func TestNewHTTPServer(t *testing.T) {
	application := &Application{
		Config:      &config.AppConfig{ServerPort: "9090"},
		HTTPHandler: http.NotFoundHandler(),
	}

	server := application.NewHTTPServer()

	assert.Equal(t, ":9090", server.Addr)
	assert.Greater(t, server.WriteTimeout, handler.DefaultTimeout,
		"the server must outlive the request timeout so the 504 reaches the client")
}
