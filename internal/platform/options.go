package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/notely/pkg/adapters/rest"
	"github.com/aretw0/notely/pkg/core"
)

// Remotes bundles the three remote resource groups the stores talk to.
type Remotes struct {
	Accounts core.AccountRemote
	Notes    core.NoteRemote
	Tags     core.TagRemote
}

// options holds the internal configuration for a notely client.
type options struct {
	logger     *slog.Logger
	tokens     core.TokenStore
	stateDir   string
	httpClient rest.HTTPClient
	timeout    time.Duration
	userAgent  string
	remotes    *Remotes
	devSafety  bool
	forceTemp  bool
}

// Option defines a functional option for configuring a notely client.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		devSafety: true,
	}
}

// WithLogger sets the logger shared by the transport and the stores.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithTokenStore injects the token persistence backend.
// When set, WithStateDir is ignored.
func WithTokenStore(tokens core.TokenStore) Option {
	return func(o *options) {
		o.tokens = tokens
	}
}

// WithStateDir persists the session token under dir, scoped by server origin.
// Without it (and without WithTokenStore) the token lives in memory only.
func WithStateDir(dir string) Option {
	return func(o *options) {
		o.stateDir = dir
	}
}

// WithHTTPClient replaces the HTTP client used by the transport.
func WithHTTPClient(client rest.HTTPClient) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.userAgent = ua
	}
}

// WithRemotes bypasses the HTTP transport and wires the stores to the given
// remotes (e.g. in-memory fakes). All three must be set.
func WithRemotes(remotes Remotes) Option {
	return func(o *options) {
		o.remotes = &remotes
	}
}

// WithDevSafety controls the sandboxing of the state directory when running
// via `go run` or `go test`. Enabled by default.
//
// CAUTION: disabling it lets development builds overwrite the real token file.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}

// WithForceTemp forces the state directory into the temporary sandbox.
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.forceTemp = force
	}
}
