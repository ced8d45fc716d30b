package service

import (
	"log/slog"
	"net/url"
	"strings"

	apperrors "github.com/plantops/opsgate/internal/errors"
	"github.com/plantops/opsgate/internal/ports"
	"github.com/plantops/opsgate/internal/registry"
)

// NavigateOptions controls a gateway navigation.
type NavigateOptions struct {
	// Replace uses a history replace instead of a push.
	Replace bool
	// PreserveQuery appends CurrentQuery to the target path.
	PreserveQuery bool
	// CurrentQuery is the query string of the page being left, without "?".
	CurrentQuery string
	// OnSuccess is invoked with the final URL after the router accepted it.
	OnSuccess func(target string)
	// OnError is invoked for unknown/disabled routes and router failures.
	OnError func(err error)
}

// NavGateway wraps the host router with route validation, query
// preservation, and fallback-on-error. Failures are reported through the
// OnError callback and a best-effort fallback, never as a panic.
type NavGateway struct {
	registry *registry.Registry
	logger   *slog.Logger
}

// NewNavGateway constructs a gateway over the given registry.
func NewNavGateway(reg *registry.Registry, logger *slog.Logger) *NavGateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &NavGateway{registry: reg, logger: logger}
}

// NavigateTo validates the path against the registry and performs the
// transition. Unknown or inactive paths trigger the error callback and a
// hard fallback to home; if the fallback itself fails the error is logged
// and swallowed.
func (g *NavGateway) NavigateTo(router ports.Router, path string, opts NavigateOptions) {
	if router == nil {
		g.fail(nil, opts, apperrors.Validation("router is required"))
		return
	}

	d := g.registry.ByPath(path)
	if d == nil {
		g.fail(router, opts, apperrors.NotFoundf("route %s is not registered", path))
		return
	}
	if !d.Active {
		g.fail(router, opts, apperrors.NotFoundf("route %s is disabled", path))
		return
	}

	target := path
	if opts.PreserveQuery && opts.CurrentQuery != "" {
		target = path + "?" + strings.TrimPrefix(opts.CurrentQuery, "?")
	}

	var err error
	if opts.Replace {
		err = router.Replace(target)
	} else {
		err = router.Push(target)
	}
	if err != nil {
		g.fail(router, opts, apperrors.Wrapf(err, apperrors.ErrCodeInternal, "navigate to %s", target))
		return
	}
	if opts.OnSuccess != nil {
		opts.OnSuccess(target)
	}
}

// NavigateToWorkspace resolves the workspace's page and replaces the
// current history entry with it.
func (g *NavGateway) NavigateToWorkspace(router ports.Router, workspaceName string, opts NavigateOptions) {
	d := g.registry.ByWorkspace(workspaceName)
	if d == nil {
		g.fail(router, opts, apperrors.NotFoundf("workspace %q has no registered page", workspaceName))
		return
	}
	opts.Replace = true
	g.NavigateTo(router, d.Path, opts)
}

// GoBack pops history when there is any, otherwise replaces with fallback
// (home when empty).
func (g *NavGateway) GoBack(router ports.Router, fallback string) {
	if router == nil {
		return
	}
	if router.Back() {
		return
	}
	if fallback == "" {
		fallback = registry.HomePath
	}
	if err := router.Replace(fallback); err != nil {
		g.logger.Warn("go-back fallback failed", "fallback", fallback, "error", err)
	}
}

// Preload asks the router to prefetch a route's resources. Unknown and
// inactive routes are ignored.
func (g *NavGateway) Preload(router ports.Router, path string) {
	if router == nil {
		return
	}
	if d := g.registry.ByPath(path); d == nil || !d.Active {
		return
	}
	router.Prefetch(path)
}

// Breadcrumb is one entry of a breadcrumb trail.
type Breadcrumb struct {
	Path  string `json:"path"`
	Title string `json:"title"`
}

// Breadcrumbs returns home plus the current route, or just home when the
// path is home itself or unknown.
func (g *NavGateway) Breadcrumbs(path string) []Breadcrumb {
	home := g.registry.ByPath(registry.HomePath)
	trail := []Breadcrumb{}
	if home != nil {
		trail = append(trail, Breadcrumb{Path: home.Path, Title: home.Title})
	}
	if path == registry.HomePath {
		return trail
	}
	if d := g.registry.ByPath(path); d != nil {
		trail = append(trail, Breadcrumb{Path: d.Path, Title: d.Title})
	}
	return trail
}

// fail reports the error and attempts a hard fallback to home.
func (g *NavGateway) fail(router ports.Router, opts NavigateOptions, err error) {
	g.logger.Warn("navigation failed", "error", err)
	if opts.OnError != nil {
		opts.OnError(err)
	}
	if router == nil {
		return
	}
	if ferr := router.Replace(registry.HomePath); ferr != nil {
		// No retry; a broken fallback leaves the caller where they are.
		g.logger.Warn("navigation fallback failed", "error", ferr)
	}
}

// BuildURL joins a path with query parameters in stable (sorted-key) order.
// Empty params yield the bare path.
func BuildURL(path string, params map[string]string) string {
	if len(params) == 0 {
		return path
	}
	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}
	return path + "?" + values.Encode()
}

// ParseQuery extracts query parameters from a URL or bare query string.
// Malformed input degrades to an empty map.
func ParseQuery(rawURL string) map[string]string {
	out := map[string]string{}
	if rawURL == "" {
		return out
	}
	query := rawURL
	if i := strings.IndexByte(rawURL, '?'); i >= 0 {
		query = rawURL[i+1:]
	} else if !strings.Contains(rawURL, "=") {
		return out
	}
	values, err := url.ParseQuery(query)
	if err != nil {
		return out
	}
	for k := range values {
		out[k] = values.Get(k)
	}
	return out
}
