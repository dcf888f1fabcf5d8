package httpserver

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	h := http.NewServeMux()
	srv := New(":9090", h)

	assert.Equal(t, ":9090", srv.Addr)
	assert.Equal(t, h, srv.Handler)
	assert.NotZero(t, srv.ReadHeaderTimeout)
	assert.NotZero(t, srv.IdleTimeout)
}
