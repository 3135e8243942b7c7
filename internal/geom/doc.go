// Package geom provides the rectangle arithmetic used by the resize actions
// and the OSD widgets: directions, gravity placement, size-hint negotiation
// and directional edge finding.
package geom
