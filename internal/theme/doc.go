// Package theme handles TOML theme loading and hot-reload for wmosdd.
// It supports loading themes from ~/.config/wmosd/themes/ and provides
// embedded bundled themes for use when no custom theme is configured.
package theme
