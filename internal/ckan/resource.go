package ckan

import (
	"strings"

	"golang.org/x/text/cases"
)

// FindResource returns the first resource, in listed order, whose name
// contains substr. The comparison uses Unicode case folding on both sides.
func FindResource(resources []Resource, substr string) (Resource, bool) {
	fold := cases.Fold()
	needle := fold.String(substr)

	for _, res := range resources {
		if strings.Contains(fold.String(res.Name), needle) {
			return res, true
		}
	}
	return Resource{}, false
}
