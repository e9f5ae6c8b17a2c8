package inference

import (
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/Ojas-Arora/SoundAware/internal/conf"
)

// ResolveCandidates builds the ordered list of backend base URLs to try for
// one inference request. Highest priority first:
//
//  1. the explicit override from settings (backend.url),
//  2. a LAN host derived from the debug host environment variable,
//  3. localhost on the backend port,
//  4. the static last-resort address.
//
// Candidates are normalized to scheme://host:port with no trailing slash and
// deduplicated by exact string match, preserving order. The list is rebuilt
// on every call so a newly configured candidate is picked up immediately.
func ResolveCandidates(settings *conf.Settings) []string {
	port := settings.Backend.Port
	if port <= 0 {
		port = conf.DefaultBackendPort
	}

	var raw []string

	if override := strings.TrimSpace(settings.Backend.URL); override != "" {
		raw = append(raw, override)
	}

	if host := debugHost(os.Getenv(conf.DebugHostEnv)); host != "" {
		raw = append(raw, fmt.Sprintf("http://%s:%d", host, port))
	}

	raw = append(raw,
		fmt.Sprintf("http://127.0.0.1:%d", port),
		conf.LastResortBackend,
	)

	seen := make(map[string]bool, len(raw))
	candidates := make([]string, 0, len(raw))
	for _, c := range raw {
		c = normalizeBase(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		candidates = append(candidates, c)
	}

	return candidates
}

// debugHost extracts the host portion of a "host:port" debug server address.
// Returns empty when the value is unset or unusable.
func debugHost(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if host, _, err := net.SplitHostPort(value); err == nil {
		return host
	}
	// Plain host with no port component.
	if !strings.Contains(value, ":") {
		return value
	}
	return ""
}

// normalizeBase strips any path and trailing slashes so candidates compare
// and join predictably.
func normalizeBase(base string) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return ""
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	scheme, rest, _ := strings.Cut(base, "://")
	if idx := strings.IndexByte(rest, '/'); idx >= 0 {
		rest = rest[:idx]
	}
	if rest == "" {
		return ""
	}
	return scheme + "://" + rest
}
