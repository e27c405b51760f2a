package pipeline

import (
	"fmt"
	"strings"
)

// SubProject is a project produced from one GEO series.
type SubProject struct {
	// Name is the project name, usually a series accession.
	Name string

	// Tag distinguishes several projects made from the same series.
	Tag string

	// Description is a free text about the project.
	Description string

	// Config holds project-level attributes, such as the series
	// title, summary and contributors.
	Config map[string]any

	// Samples is a table of samples, one map per row.
	Samples []map[string]string
}

// ParseKey splits a combined "name_tag" key into name and tag. The
// split happens on the last underscore, so names with underscores
// survive. A key without underscore is all name.
func ParseKey(key string) (name, tag string) {
	idx := strings.LastIndex(key, "_")
	if idx < 0 {
		return key, ""
	}
	return key[:idx], key[idx+1:]
}

// GEOLink returns the address of the series page at NCBI.
func GEOLink(gse string) string {
	return "https://www.ncbi.nlm.nih.gov/geo/query/acc.cgi?acc=" + gse
}

// AddBacklink prepends a link to the GEO series to a description.
func AddBacklink(gse, description string) string {
	link := fmt.Sprintf("Data from [GEO %s](%s)", gse, GEOLink(gse))
	if description == "" {
		return link
	}
	return link + "\n" + description
}

// RegistryPath returns "namespace/name:tag".
func RegistryPath(namespace, name, tag string) string {
	return fmt.Sprintf("%s/%s:%s", namespace, name, tag)
}
