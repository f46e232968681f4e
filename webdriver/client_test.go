package webdriver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitEndpointStripsScheme(t *testing.T) {
	host, port, err := splitEndpoint("http://127.0.0.1:9515")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", host)
	assert.Equal(t, "9515", port)
}

func TestSplitEndpointHandlesHTTPS(t *testing.T) {
	host, port, err := splitEndpoint("https://example.com:4444")
	require.NoError(t, err)
	assert.Equal(t, "example.com", host)
	assert.Equal(t, "4444", port)
}

func TestSplitEndpointRejectsMissingPort(t *testing.T) {
	_, _, err := splitEndpoint("http://127.0.0.1")
	assert.Error(t, err)
}

func TestProbeFailsFastAgainstUnreachableEndpoint(t *testing.T) {
	assert.False(t, Probe("http://127.0.0.1:1", 200*time.Millisecond))
}

func TestProbeFailsOnMalformedEndpoint(t *testing.T) {
	assert.False(t, Probe("not-a-url", 200*time.Millisecond))
}

func TestNewSetsEndpoint(t *testing.T) {
	c := New("http://127.0.0.1:9515")
	assert.Equal(t, "http://127.0.0.1:9515", c.Endpoint())
}
