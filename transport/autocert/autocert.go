// Package autocert builds a *tls.Config that obtains certificates
// on the fly via Let's Encrypt, for use with transport/tcp once the
// resulting net.Conn has been TLS-handshaked. TLS handshaking itself stays
// the listener's concern; this package only prepares the config a
// net/http-style listener would use.
package autocert

import (
	"crypto/tls"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/crypto/acme/autocert"
)

// Config returns a *tls.Config that fetches and caches certificates for
// domains via ACME. An empty domains list accepts any domain requested via
// SNI, which is only appropriate behind a reverse proxy that already
// restricts Host.
func Config(domains ...string) *tls.Config {
	m := &autocert.Manager{
		Prompt: autocert.AcceptTOS,
	}

	if len(domains) > 0 {
		m.HostPolicy = autocert.HostWhitelist(domains...)
	}

	if cache := cacheDir(); mkdirIfNotExists(cache) == nil {
		m.Cache = autocert.DirCache(cache)
	}

	return &tls.Config{
		GetCertificate: m.GetCertificate,
	}
}

func homeDir() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("HOMEDRIVE") + os.Getenv("HOMEPATH")
	}
	if h := os.Getenv("HOME"); h != "" {
		return h
	}
	return "/"
}

func cacheDir() string {
	const base = "httpflow-autocert"

	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, base)
	}

	return filepath.Join(homeDir(), ".cache", base)
}

func mkdirIfNotExists(dir string) error {
	if stat, err := os.Stat(dir); err == nil && stat.IsDir() {
		return nil
	}

	return os.MkdirAll(dir, 0700)
}
