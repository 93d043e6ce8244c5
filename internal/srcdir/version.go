package srcdir

import (
	"cmp"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Prefix is the leading component of every packaged source directory name.
const Prefix = "ruby-"

// Track is the release channel of a packaged version.
type Track int

// Tracks are declared in ascending precedence: at equal major.minor.patch a
// preview sorts below an rc, and both sort below the stable release.
const (
	TrackPreview Track = iota
	TrackRC
	TrackStable
)

func (t Track) String() string {
	switch t {
	case TrackPreview:
		return "preview"
	case TrackRC:
		return "rc"
	case TrackStable:
		return "stable"
	}
	return fmt.Sprintf("Track(%d)", int(t))
}

// Prerelease reports whether t is a preview or release-candidate track.
func (t Track) Prerelease() bool {
	return t == TrackPreview || t == TrackRC
}

// Version is a parsed packaged source directory name such as
// "ruby-3.4.1-p0", "ruby-4.0.0-preview2" or "ruby-4.0.0-rc1".
type Version struct {
	Major int
	Minor int
	Patch int
	Track Track

	// TrackNumber is the N of -previewN / -rcN. Zero for stable versions.
	TrackNumber int

	// Revision is the N of a stable -pN suffix. It is a packaging revision
	// and only meaningful when HasRevision is set.
	Revision    int
	HasRevision bool
}

// ParseError reports a name that does not follow the
// ruby-MAJOR.MINOR.PATCH[-pN|-previewN|-rcN] convention.
type ParseError struct {
	Name string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed version directory name %q", e.Name)
}

// Numbers with leading zeros are rejected so that String(Parse(name)) == name.
var nameRe = regexp.MustCompile(`^ruby-(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)(?:-(p|preview|rc)(0|[1-9]\d*))?$`)

// Parse decomposes a directory name into a Version.
func Parse(name string) (Version, error) {
	m := nameRe.FindStringSubmatch(name)
	if m == nil {
		return Version{}, &ParseError{Name: name}
	}

	nums := make([]int, 0, 4)
	for _, s := range []string{m[1], m[2], m[3], m[5]} {
		if s == "" {
			nums = append(nums, 0)
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			// Out of int range.
			return Version{}, &ParseError{Name: name}
		}
		nums = append(nums, n)
	}

	v := Version{Major: nums[0], Minor: nums[1], Patch: nums[2], Track: TrackStable}
	switch m[4] {
	case "p":
		v.Revision = nums[3]
		v.HasRevision = true
	case "preview":
		v.Track = TrackPreview
		v.TrackNumber = nums[3]
	case "rc":
		v.Track = TrackRC
		v.TrackNumber = nums[3]
	}
	return v, nil
}

// MustParse is like Parse but panics on malformed names.
func MustParse(name string) Version {
	v, err := Parse(name)
	if err != nil {
		panic(err)
	}
	return v
}

// String formats v back into its directory name.
func (v Version) String() string {
	var b strings.Builder
	b.WriteString(Prefix)
	b.WriteString(v.Core())
	switch {
	case v.Track == TrackPreview:
		fmt.Fprintf(&b, "-preview%d", v.TrackNumber)
	case v.Track == TrackRC:
		fmt.Fprintf(&b, "-rc%d", v.TrackNumber)
	case v.HasRevision:
		fmt.Fprintf(&b, "-p%d", v.Revision)
	}
	return b.String()
}

// Core returns the "MAJOR.MINOR.PATCH" part, which is all the interpreter
// reports about itself at runtime.
func (v Version) Core() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// GemString renders v the way RubyGems would: "3.4.1" for stable versions,
// "4.0.0.preview2" for prereleases.
func (v Version) GemString() string {
	if v.Track.Prerelease() {
		return fmt.Sprintf("%s.%s%d", v.Core(), v.Track, v.TrackNumber)
	}
	return v.Core()
}

// Stable returns the freshly cut stable package of the same
// major.minor.patch, i.e. ruby-MAJOR.MINOR.PATCH-p0.
func (v Version) Stable() Version {
	return Version{
		Major:       v.Major,
		Minor:       v.Minor,
		Patch:       v.Patch,
		Track:       TrackStable,
		HasRevision: true,
	}
}

// CompareCore compares only major.minor.patch.
func (v Version) CompareCore(o Version) int {
	if c := cmp.Compare(v.Major, o.Major); c != 0 {
		return c
	}
	if c := cmp.Compare(v.Minor, o.Minor); c != 0 {
		return c
	}
	return cmp.Compare(v.Patch, o.Patch)
}

// Compare returns -1, 0 or +1 depending on whether v sorts before, equal to
// or after o. Versions are ordered by major.minor.patch, then by track
// (preview < rc < stable), then by track number for prereleases or by
// packaging revision for stable versions (no revision sorts first).
func (v Version) Compare(o Version) int {
	if c := v.CompareCore(o); c != 0 {
		return c
	}
	if c := cmp.Compare(v.Track, o.Track); c != 0 {
		return c
	}
	return cmp.Compare(v.ordinal(), o.ordinal())
}

// Less reports whether v sorts before o.
func (v Version) Less(o Version) bool {
	return v.Compare(o) < 0
}

func (v Version) ordinal() int {
	if v.Track.Prerelease() {
		return v.TrackNumber
	}
	if !v.HasRevision {
		return -1
	}
	return v.Revision
}

// DevPatchlevel is the RUBY_PATCHLEVEL reported by preview and development
// interpreters.
const DevPatchlevel = -1

// FromRuntime builds the directory name an interpreter reporting
// RUBY_VERSION and RUBY_PATCHLEVEL should look for. DevPatchlevel maps to
// the -p0 cut, the first stable package of that version.
func FromRuntime(rubyVersion string, patchlevel int) (string, error) {
	if patchlevel == DevPatchlevel {
		patchlevel = 0
	}
	if patchlevel < 0 {
		return "", fmt.Errorf("invalid patchlevel %d", patchlevel)
	}
	name := fmt.Sprintf("%s%s-p%d", Prefix, strings.TrimSpace(rubyVersion), patchlevel)
	if _, err := Parse(name); err != nil {
		return "", fmt.Errorf("invalid ruby version %q: %w", rubyVersion, err)
	}
	return name, nil
}
