// Package target describes destination namespaces of the catalog.
//
// A Target is a closed variant. Its behavior differences (discovery
// filter, what files to fetch, how catalog tags are chosen) are kept as
// data, so callers never branch on the namespace name.
package target

import (
	"regexp"
	"strings"
)

// Mode tells a fetcher which GEO files to convert into a project.
type Mode int

const (
	// ModeRaw uses sample metadata of a series.
	ModeRaw Mode = iota
	// ModeProcessed uses processed supplementary files of samples.
	ModeProcessed
)

func (m Mode) String() string {
	switch m {
	case ModeRaw:
		return "raw"
	case ModeProcessed:
		return "processed"
	default:
		return "unknown"
	}
}

// Target is a destination namespace of the catalog.
type Target struct {
	name            string
	discoveryFilter string
	mode            Mode
	subTag          string
	fileFilter      *regexp.Regexp
	tagFromSub      bool
}

var (
	// Geo keeps metadata of all samples of a series.
	Geo = Target{
		name:   "geo",
		mode:   ModeRaw,
		subTag: "raw",
	}

	// BedBase keeps only series with genomic interval files.
	BedBase = Target{
		name:            "bedbase",
		discoveryFilter: "(bed)",
		mode:            ModeProcessed,
		subTag:          "samples",
		fileFilter: regexp.MustCompile(
			`\.(bed|bigBed|narrowPeak|broadPeak)\.`,
		),
		tagFromSub: true,
	}
)

// All returns known targets.
func All() []Target {
	return []Target{Geo, BedBase}
}

// Names returns names of known targets.
func Names() []string {
	res := make([]string, 0, 2)
	for _, v := range All() {
		res = append(res, v.name)
	}
	return res
}

// Parse finds a Target by its name. Comparison ignores case and
// surrounding spaces.
func Parse(s string) (Target, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, v := range All() {
		if v.name == name {
			return v, nil
		}
	}
	return Target{}, UnknownTargetError(s)
}

// String returns the namespace name.
func (t Target) String() string {
	return t.name
}

// IsZero is true for a Target that was not created by Parse.
func (t Target) IsZero() bool {
	return t.name == ""
}

// DiscoveryFilter is an extra term added to the discovery query.
// Empty means no filtering.
func (t Target) DiscoveryFilter() string {
	return t.discoveryFilter
}

// Mode returns the fetch mode.
func (t Target) Mode() Mode {
	return t.mode
}

// SubProjectTag is the tag a fetcher assigns to sub-projects of the
// target.
func (t Target) SubProjectTag() string {
	return t.subTag
}

// KeepFile reports if a supplementary file should be included into a
// project. All files are kept when the target has no file filter.
func (t Target) KeepFile(name string) bool {
	if t.fileFilter == nil {
		return true
	}
	return t.fileFilter.MatchString(name)
}

// CatalogTag decides under which tag a sub-project is written to the
// catalog. BedBase uses the tag of the sub-project, Geo uses the tag
// given by an operator, falling back to "default".
func (t Target) CatalogTag(tag, subTag string) string {
	if t.tagFromSub && subTag != "" {
		return subTag
	}
	if tag == "" {
		return DefaultTag
	}
	return tag
}

// DefaultTag is used when an operator did not provide a tag.
const DefaultTag = "default"
