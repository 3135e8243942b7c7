// Package dbus implements the io.github.jmylchreest.wmosd D-Bus interface.
// The daemon exports it so scripts can show popups and the desktop pager,
// ask questions with prompts and run resize actions; Client calls it.
package dbus
