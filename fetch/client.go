package fetch

import (
	"context"
	"fmt"
	"net"
	"net/http"
	nurl "net/url"
	"time"

	tls "github.com/refraction-networking/utls"
)

// chromeH1Spec is a Chrome-like TLS ClientHello with ALPN forced to
// http/1.1 only, since Go's http.Transport cannot speak h2 over a utls
// connection. Computed once and reused for every dial.
var chromeH1Spec tls.ClientHelloSpec

func init() {
	spec, err := tls.UTLSIdToSpec(tls.HelloChrome_Auto)
	if err != nil {
		return
	}
	for i, ext := range spec.Extensions {
		if alpn, ok := ext.(*tls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
			spec.Extensions[i] = alpn
			break
		}
	}
	chromeH1Spec = spec
}

// newHTTPClient builds the shared, concurrency-safe client used for
// PlainRequest fetches, fingerprinted as Chrome over TLS to reduce naive
// anti-bot blocking. A non-empty proxy routes every request through it; a
// proxy that does not parse is ignored and the client falls back to a plain
// http.Transport with no proxy and Go's default TLS.
func newHTTPClient(proxy string) *http.Client {
	transport, err := dialTransport(proxy)
	if err != nil {
		transport = &http.Transport{}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}

// clientWithProxy builds a one-shot client per spec §5's per-call proxy
// policy: constructed fresh for each fetch_with_proxy call so proxy
// configuration never bleeds across requests.
func clientWithProxy(proxy string) (*http.Client, error) {
	transport, err := dialTransport(proxy)
	if err != nil {
		return nil, err
	}
	return &http.Client{Timeout: 30 * time.Second, Transport: transport}, nil
}

func dialTransport(proxy string) (*http.Transport, error) {
	transport := &http.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			dialer := &net.Dialer{Timeout: 10 * time.Second}
			conn, err := dialer.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			host, _, _ := net.SplitHostPort(addr)
			tlsConn := tls.UClient(conn, &tls.Config{ServerName: host}, tls.HelloCustom)
			if err := tlsConn.ApplyPreset(&chromeH1Spec); err != nil {
				conn.Close()
				return nil, fmt.Errorf("fetch: apply tls spec: %w", err)
			}
			if err := tlsConn.HandshakeContext(ctx); err != nil {
				conn.Close()
				return nil, err
			}
			return tlsConn, nil
		},
		ForceAttemptHTTP2: false,
	}
	if proxy != "" {
		proxyURL, err := nurl.Parse(proxy)
		if err != nil {
			return nil, fmt.Errorf("fetch: invalid proxy %q: %w", proxy, err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}
	return transport, nil
}
