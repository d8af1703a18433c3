package notely

import (
	"log/slog"
	"time"

	"github.com/aretw0/notely/internal/platform"
	"github.com/aretw0/notely/pkg/adapters/rest"
	"github.com/aretw0/notely/pkg/core"
)

// --- Types ---

// Client is a wired session, notes and tags store set.
type Client = platform.Client

// Remotes bundles the remote resource groups; see WithRemotes.
type Remotes = platform.Remotes

// --- Configuration ---

// Option defines a functional option for configuring a Client.
type Option = platform.Option

// WithLogger sets the logger for the transport and the stores.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithTokenStore injects the token persistence backend.
func WithTokenStore(tokens core.TokenStore) Option {
	return platform.WithTokenStore(tokens)
}

// WithStateDir persists the session token under dir.
func WithStateDir(dir string) Option {
	return platform.WithStateDir(dir)
}

// WithHTTPClient replaces the HTTP client used by the transport.
func WithHTTPClient(client rest.HTTPClient) Option {
	return platform.WithHTTPClient(client)
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return platform.WithTimeout(timeout)
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return platform.WithUserAgent(ua)
}

// WithRemotes wires the stores to custom remotes instead of HTTP.
func WithRemotes(remotes Remotes) Option {
	return platform.WithRemotes(remotes)
}

// WithDevSafety controls state dir sandboxing during `go run` and `go test`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithForceTemp forces the state directory into the temporary sandbox.
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// --- Factory ---

// New creates a Client for the notes API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	return platform.New(baseURL, opts...)
}

// --- Safety & Utils ---

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// ResolveStateDir determines the actual state directory based on safety rules.
func ResolveStateDir(dir string, forceTemp bool) string {
	return platform.ResolveStateDir(dir, forceTemp)
}

// FindConfig looks upwards from startDir for a .notely.yaml file.
func FindConfig(startDir string) (string, error) {
	return platform.FindConfig(startDir)
}
