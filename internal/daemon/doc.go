// Package daemon provides the main orchestration for wmosdd.
// It runs the single control loop every widget lives on and coordinates
// the window system backend, key bindings, the D-Bus server, the theme
// loader and configuration hot-reload.
package daemon
