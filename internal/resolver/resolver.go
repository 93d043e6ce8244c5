package resolver

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/frederic-klein/rubycoresource/internal/catalog"
	"github.com/frederic-klein/rubycoresource/internal/srcdir"
)

// Result is the outcome of a successful resolution.
type Result struct {
	Requested string
	Name      string // always a member of the catalog
	Path      string // <root>/<Name>
	Exact     bool
}

// NotFoundError reports that neither an exact match nor an acceptable older
// version exists. Cause is set when the request itself was malformed.
type NotFoundError struct {
	Requested string
	Cause     error
}

func (e *NotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("no packaged sources for %s: %v", e.Requested, e.Cause)
	}
	return fmt.Sprintf("no packaged sources compatible with %s", e.Requested)
}

func (e *NotFoundError) Unwrap() error {
	return e.Cause
}

// Resolver picks the packaged source directory matching a requested version.
type Resolver struct {
	root   string
	warner Warner
	logger *log.Logger
}

// NewResolver creates a resolver for the packaged-sources root. A nil warner
// discards fallback notifications and a nil logger disables debug output.
func NewResolver(root string, warner Warner, logger *log.Logger) *Resolver {
	if warner == nil {
		warner = Discard
	}
	return &Resolver{
		root:   root,
		warner: warner,
		logger: logger,
	}
}

// ResolveDir lists the root and resolves requested against it. The returned
// path is absolute.
func (r *Resolver) ResolveDir(requested string) (Result, error) {
	root, err := filepath.Abs(r.root)
	if err != nil {
		return Result{}, &catalog.ReadError{Root: r.root, Err: err}
	}
	cat, err := catalog.Scan(root)
	if err != nil {
		return Result{}, err
	}

	res, err := r.Resolve(requested, cat)
	if err != nil {
		return Result{}, err
	}
	res.Path = filepath.Join(root, res.Name)
	return res, nil
}

// Resolve finds requested in cat, falling back to the closest acceptable
// older version. The warner is notified once when a fallback is chosen.
func (r *Resolver) Resolve(requested string, cat catalog.Catalog) (Result, error) {
	want, err := srcdir.Parse(requested)
	if err != nil {
		return Result{}, &NotFoundError{Requested: requested, Cause: err}
	}

	if cat.Contains(requested) {
		r.debug("exact match", "requested", requested)
		return r.result(requested, requested, true), nil
	}

	entries, skipped := cat.Versions()
	for _, name := range skipped {
		r.debug("skipping unparseable catalog entry", "name", name)
	}

	chosen := ""
	if want.Track.Prerelease() {
		// Prerelease labels are invisible to runtime introspection, so the
		// stable cut of the same version is the nearest safe header set.
		if stable := want.Stable().String(); cat.Contains(stable) {
			chosen = stable
		}
	}
	if chosen == "" {
		e, ok := closestStable(entries, want)
		if !ok {
			return Result{}, &NotFoundError{Requested: requested}
		}
		chosen = e.Name
	}

	r.debug("falling back", "requested", requested, "chosen", chosen)
	r.warner.FallbackUsed(requested, chosen)
	return r.result(requested, chosen, false), nil
}

func (r *Resolver) result(requested, name string, exact bool) Result {
	return Result{
		Requested: requested,
		Name:      name,
		Path:      filepath.Join(r.root, name),
		Exact:     exact,
	}
}

func (r *Resolver) debug(msg string, keyvals ...interface{}) {
	if r.logger != nil {
		r.logger.Debug(msg, keyvals...)
	}
}

// closestStable returns the newest stable entry sharing want's major.minor
// whose patch does not exceed want's. Duplicate packaging revisions of one
// patch level resolve to the highest revision.
func closestStable(entries []catalog.Entry, want srcdir.Version) (catalog.Entry, bool) {
	var best catalog.Entry
	found := false
	for _, e := range entries {
		v := e.Version
		if v.Track != srcdir.TrackStable || v.Major != want.Major || v.Minor != want.Minor || v.Patch > want.Patch {
			continue
		}
		if !found || best.Version.Less(v) {
			best = e
			found = true
		}
	}
	return best, found
}
