// Package display implements the on-screen widgets: the Popup with its icon
// and pager variants, and the modal Prompt dialog. Widgets draw through a
// render.Toolkit and run on a single control goroutine; delayed showing is
// driven by a Scheduler.
package display
