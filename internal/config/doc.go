// Package config resolves the settings of a ward-profiles run.
//
// Values are layered with koanf, lowest precedence first: built-in defaults,
// an optional YAML file (--config, or ward-profiles.yaml in the working
// directory), WARD_PROFILES_* environment variables, and finally flags that
// were set explicitly on the command line. A .env file in the working
// directory is loaded into the environment beforehand.
//
// The defaults describe the 2023 ward profiles census export on the Toronto
// open data portal, so a bare invocation needs no configuration at all.
package config
