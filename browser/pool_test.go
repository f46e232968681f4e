package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/use-agent/tarzi/tarzierr"
)

func TestNewExternalUnreachableReturnsConfigError(t *testing.T) {
	_, err := New(Config{WebDriverURL: "http://127.0.0.1:1"})
	var target *tarzierr.Error
	assert.ErrorAs(t, err, &target)
	assert.Equal(t, tarzierr.ConfigError, target.Code)
	assert.Contains(t, err.Error(), "http://127.0.0.1:1")
}

func TestCapabilitiesMatchActualKindNotPreference(t *testing.T) {
	p := &Pool{actual: "firefox"}
	caps := p.capabilities(true, "")
	assert.Equal(t, "firefox", caps["browserName"])
	_, hasChromeOpts := caps["goog:chromeOptions"]
	assert.False(t, hasChromeOpts)
}

func TestCapabilitiesDefaultToChrome(t *testing.T) {
	p := &Pool{actual: "chrome"}
	caps := p.capabilities(false, "/tmp/profile")
	assert.Equal(t, "chrome", caps["browserName"])
	opts := caps["goog:chromeOptions"].(map[string]any)
	args := opts["args"].([]string)
	assert.Contains(t, args, "--user-data-dir=/tmp/profile")
	assert.NotContains(t, args, "--headless")
}
