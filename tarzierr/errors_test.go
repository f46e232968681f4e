package tarzierr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessageIncludesCodeAndMessage(t *testing.T) {
	e := New(ConfigError, "external webdriver unreachable")
	assert.Contains(t, e.Error(), string(ConfigError))
	assert.Contains(t, e.Error(), "external webdriver unreachable")
}

func TestWrapUnwrapsCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	e := Wrap(NetworkError, "calling brave api", cause)
	assert.Same(t, cause, errors.Unwrap(e))
	assert.Contains(t, e.Error(), "connection refused")
}

func TestHttpStatusErrNamesStatusAndOrigin(t *testing.T) {
	e := HttpStatusErr(503, "google")
	assert.Equal(t, HttpStatus, e.Code)
	assert.Contains(t, e.Error(), "503")
	assert.Contains(t, e.Error(), "google")
}

func TestEngineNotSupportedErrNamesPair(t *testing.T) {
	e := EngineNotSupportedErr("bing", "apiquery")
	assert.Equal(t, EngineNotSupported, e.Code)
	assert.Contains(t, e.Error(), "bing")
	assert.Contains(t, e.Error(), "apiquery")
}

func TestErrorsAsMatchesByPointer(t *testing.T) {
	var target *Error
	err := error(New(Timeout, "driver start"))
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, Timeout, target.Code)
}
