package apperr

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "configuration", err: Configuration("config", "missing %s", "DEMO_DB"), want: KindConfiguration},
		{name: "wrapped query", err: errors.Wrap(Query("find", fmt.Errorf("boom")), "listing"), want: KindQuery},
		{name: "fmt wrapped connection", err: fmt.Errorf("startup: %w", Connection("ping", fmt.Errorf("tls"))), want: KindConnection},
		{name: "plain error", err: fmt.Errorf("plain"), want: KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(Validation("search", "Query text is required")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(Query("aggregate", fmt.Errorf("timeout"))))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(fmt.Errorf("unknown")))
}

func TestErrorMessages(t *testing.T) {
	err := NotFound("resolve certificate", "certificate file not found at: %s", "/tmp/cert.pem")
	assert.Equal(t, "resolve certificate: certificate file not found at: /tmp/cert.pem", err.Error())
	assert.True(t, Is(err, KindNotFound))
	assert.False(t, Is(nil, KindNotFound))

	assert.Nil(t, Query("find", nil))

	verbose := fmt.Sprintf("%+v", Internal("embed", fmt.Errorf("voyage down")))
	assert.Contains(t, verbose, "embed [internal]: voyage down")
	assert.Contains(t, verbose, "apperr_test.go")
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Query text is required", Message(Validation("search", "Query text is required")))
	assert.Equal(t, "Query text is required", Message(errors.Wrap(Validation("search", "Query text is required"), "handler")))
	assert.Equal(t, "plain", Message(fmt.Errorf("plain")))
	assert.Empty(t, Message(nil))
}
