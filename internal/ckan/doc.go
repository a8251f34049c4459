// Package ckan provides a minimal client for the CKAN action API used by the
// City of Toronto open data portal.
//
// Only package_show is implemented: it returns a package's metadata including
// the list of downloadable resources. FindResource picks the first resource
// whose name contains a substring, compared case-insensitively with Unicode
// case folding.
package ckan
