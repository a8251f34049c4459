// Package cli implements the command-line interface for ward-profiles.
//
// The root command runs the full refresh: it fetches the Ward Profiles package
// metadata from the Toronto open data portal, downloads the census
// spreadsheet, cleans it and writes the CSV. Subcommands list the package's
// resources, preview the cleaned CSV and print the version.
//
// Settings come from flags, WARD_PROFILES_* environment variables, an
// optional ward-profiles.yaml and a .env file, in that order of precedence.
package cli
