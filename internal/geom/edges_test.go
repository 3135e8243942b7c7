package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResizeDirectionalGrow(t *testing.T) {
	area := NewRect(0, 0, 1000, 800)
	win := NewRect(200, 200, 300, 200)

	tests := []struct {
		name   string
		side   Direction
		others []Rect
		want   Rect
	}{
		{"north to boundary", North, nil, NewRect(200, 0, 300, 400)},
		{"south to boundary", South, nil, NewRect(200, 200, 300, 600)},
		{"west to boundary", West, nil, NewRect(0, 200, 500, 200)},
		{"east to boundary", East, nil, NewRect(200, 200, 800, 200)},
		{
			name:   "north stops at obstruction bottom",
			side:   North,
			others: []Rect{NewRect(250, 50, 100, 100)},
			want:   NewRect(200, 150, 300, 250),
		},
		{
			name:   "north ignores windows outside the column span",
			side:   North,
			others: []Rect{NewRect(600, 50, 100, 100)},
			want:   NewRect(200, 0, 300, 400),
		},
		{
			name:   "east stops at obstruction left edge",
			side:   East,
			others: []Rect{NewRect(700, 100, 100, 300)},
			want:   NewRect(200, 200, 500, 200),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResizeDirectional(area, win, tt.others, tt.side, true))
		})
	}
}

func TestResizeDirectionalGrowAtBoundary(t *testing.T) {
	area := NewRect(0, 0, 1000, 800)
	win := NewRect(0, 0, 300, 200)

	assert.Equal(t, win, ResizeDirectional(area, win, nil, North, true))
	assert.Equal(t, win, ResizeDirectional(area, win, nil, West, true))
}

func TestResizeDirectionalShrink(t *testing.T) {
	area := NewRect(0, 0, 1000, 800)
	win := NewRect(200, 200, 300, 200)

	// nothing inside the window: the edge collapses onto the opposite one
	assert.Equal(t, NewRect(200, 200, 300, 0), ResizeDirectional(area, win, nil, South, false))
	assert.Equal(t, NewRect(200, 400, 300, 0), ResizeDirectional(area, win, nil, North, false))
	assert.Equal(t, NewRect(500, 200, 0, 200), ResizeDirectional(area, win, nil, West, false))
	assert.Equal(t, NewRect(200, 200, 0, 200), ResizeDirectional(area, win, nil, East, false))

	// an obstruction edge inside the window stops the edge
	others := []Rect{NewRect(100, 250, 200, 100)}
	assert.Equal(t, NewRect(200, 200, 300, 150), ResizeDirectional(area, win, others, South, false))
	assert.Equal(t, NewRect(200, 250, 300, 150), ResizeDirectional(area, win, others, North, false))
}
