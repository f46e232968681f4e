// Package browser owns a pool of WebDriver sessions sharing one endpoint,
// resolved either from a user-supplied external server or from a
// self-managed driver process started on demand.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/use-agent/tarzi/driver"
	"github.com/use-agent/tarzi/tarzierr"
	"github.com/use-agent/tarzi/webdriver"
)

// Config configures how the pool resolves and uses its shared endpoint.
type Config struct {
	PreferredKind driver.Kind
	WebDriverURL  string // non-empty means external, mutually exclusive with self-managed
	StartTimeout  time.Duration
	Proxy         string
}

// Session is one WebDriver session owned by the pool.
type Session struct {
	InstanceID string
	SessionID  string
	ProfileDir string
	ownedDir   bool
}

// Pool resolves one WebDriver endpoint per spec §4.B's endpoint-exclusivity
// policy, then indexes sessions opened against it.
type Pool struct {
	mu       sync.Mutex
	cfg      Config
	client   *webdriver.Client
	actual   driver.Kind
	external bool
	mgr      *driver.Manager
	managed  *driver.Record
	sessions map[string]*Session
}

// New resolves the endpoint per cfg and returns a ready-to-use Pool. It
// never starts a self-managed driver when cfg.WebDriverURL is set (spec
// §4.B's exclusivity invariant).
func New(cfg Config) (*Pool, error) {
	p := &Pool{cfg: cfg, sessions: make(map[string]*Session), mgr: driver.New()}

	if cfg.WebDriverURL != "" {
		if !webdriver.Probe(cfg.WebDriverURL, 2*time.Second) {
			return nil, tarzierr.New(tarzierr.ConfigError,
				fmt.Sprintf("External WebDriver at %s is not reachable; start a server there or clear web_driver_url", cfg.WebDriverURL))
		}
		p.client = webdriver.New(cfg.WebDriverURL)
		p.actual = cfg.PreferredKind
		p.external = true
		return p, nil
	}

	preferred := cfg.PreferredKind
	if preferred == "" {
		preferred = driver.Firefox
	}
	fallback := driver.Chrome
	if preferred == driver.Chrome {
		fallback = driver.Firefox
	}

	if endpoint := conventionalEndpoint(preferred); webdriver.Probe(endpoint, 500*time.Millisecond) {
		p.client = webdriver.New(endpoint)
		p.actual = preferred
		slog.Info("browser pool reusing running driver", "kind", preferred, "endpoint", endpoint)
		return p, nil
	}

	timeout := cfg.StartTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	rec, err := p.mgr.Start(driver.Config{Kind: preferred, Port: preferred.DefaultPort(), Timeout: timeout})
	if err != nil {
		slog.Warn("preferred driver failed to start, trying fallback", "preferred", preferred, "fallback", fallback, "err", err)
		rec, err = p.mgr.Start(driver.Config{Kind: fallback, Port: fallback.DefaultPort(), Timeout: timeout})
		if err != nil {
			return nil, fmt.Errorf("starting self-managed driver (tried %s then %s): %w", preferred, fallback, err)
		}
		p.actual = fallback
	} else {
		p.actual = preferred
	}
	p.managed = rec
	p.client = webdriver.New(rec.Endpoint)
	return p, nil
}

func conventionalEndpoint(kind driver.Kind) string {
	return fmt.Sprintf("http://127.0.0.1:%d", kind.DefaultPort())
}

// ActualKind reports the driver family the pool is actually bound to, which
// may differ from the configured preference after a fallback.
func (p *Pool) ActualKind() driver.Kind { return p.actual }

// CreateSession opens a new WebDriver session and indexes it by instanceID
// (generated if empty). On any failure it cleans up whatever it created.
func (p *Pool) CreateSession(ctx context.Context, instanceID, profileDir string, headless bool) (string, error) {
	if instanceID == "" {
		instanceID = fmt.Sprintf("session-%d-%s", time.Now().UnixNano(), uuid.NewString()[:8])
	}

	ownedDir := profileDir == ""
	if ownedDir {
		dir, err := os.MkdirTemp("", "tarzi-profile-*")
		if err != nil {
			return "", tarzierr.Wrap(tarzierr.BrowserError, "creating temp profile dir", err)
		}
		profileDir = dir
	}

	caps := p.capabilities(headless, profileDir)
	sessionID, err := p.client.NewSession(ctx, caps)
	if err != nil {
		if ownedDir {
			os.RemoveAll(profileDir)
		}
		return "", tarzierr.Wrap(tarzierr.BrowserError, "opening webdriver session", err)
	}

	p.mu.Lock()
	p.sessions[instanceID] = &Session{InstanceID: instanceID, SessionID: sessionID, ProfileDir: profileDir, ownedDir: ownedDir}
	p.mu.Unlock()
	return instanceID, nil
}

// capabilities builds the W3C capability set matching the pool's
// actually-started driver kind (spec §4.B: never the configured preference
// alone, since a fallback may have substituted the other kind).
func (p *Pool) capabilities(headless bool, profileDir string) webdriver.NewSessionCapabilities {
	proxy := proxyFromEnvOrConfig(p.cfg.Proxy)

	switch p.actual {
	case driver.Firefox:
		args := []string{}
		if headless {
			args = append(args, "--headless")
		}
		if profileDir != "" {
			args = append(args, "--profile="+profileDir)
		}
		return webdriver.NewSessionCapabilities{
			"browserName": "firefox",
			"moz:firefoxOptions": map[string]any{
				"args": args,
			},
		}
	default:
		args := []string{"--disable-gpu", "--disable-dev-shm-usage", "--no-sandbox"}
		if headless {
			args = append(args, "--headless")
		}
		if profileDir != "" {
			args = append(args, "--user-data-dir="+profileDir)
		}
		if proxy != "" {
			args = append(args, "--proxy-server="+proxy)
		}
		return webdriver.NewSessionCapabilities{
			"browserName": "chrome",
			"goog:chromeOptions": map[string]any{
				"args": args,
			},
		}
	}
}

func proxyFromEnvOrConfig(configured string) string {
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		return v
	}
	if v := os.Getenv("HTTP_PROXY"); v != "" {
		return v
	}
	return configured
}

// Get returns the session for instanceID.
func (p *Pool) Get(instanceID string) (*Session, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.sessions[instanceID]
	return s, ok
}

// IDs returns every currently-indexed instance id.
func (p *Pool) IDs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	ids := make([]string, 0, len(p.sessions))
	for id := range p.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Remove quits the WebDriver session and deletes its owned temp profile dir.
func (p *Pool) Remove(ctx context.Context, instanceID string) error {
	p.mu.Lock()
	s, ok := p.sessions[instanceID]
	if ok {
		delete(p.sessions, instanceID)
	}
	p.mu.Unlock()
	if !ok {
		return nil
	}
	return p.teardownSession(ctx, s)
}

func (p *Pool) teardownSession(ctx context.Context, s *Session) error {
	err := p.client.Quit(ctx, s.SessionID)
	if s.ownedDir {
		os.RemoveAll(s.ProfileDir)
	}
	if err != nil {
		return tarzierr.Wrap(tarzierr.BrowserError, "quitting webdriver session", err)
	}
	return nil
}

// Client exposes the bound WebDriver client for the Fetcher's navigate/read
// calls on a given session.
func (p *Pool) Client() *webdriver.Client { return p.client }

// Shutdown quits every session then stops any self-managed driver. Never
// spins up an async runtime; safe to call from a deferred cleanup path.
func (p *Pool) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	p.mu.Lock()
	sessions := make([]*Session, 0, len(p.sessions))
	for _, s := range p.sessions {
		sessions = append(sessions, s)
	}
	p.sessions = make(map[string]*Session)
	p.mu.Unlock()

	for _, s := range sessions {
		if err := p.teardownSession(ctx, s); err != nil {
			slog.Warn("session teardown failed during shutdown", "instance_id", s.InstanceID, "err", err)
		}
	}

	if !p.external && p.managed != nil {
		if err := p.mgr.Stop(p.managed.Port); err != nil {
			slog.Warn("stopping self-managed driver failed", "port", p.managed.Port, "err", err)
		}
	}
}
