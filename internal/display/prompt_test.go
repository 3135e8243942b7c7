package display

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/wmosd/internal/geom"
	"github.com/jmylchreest/wmosd/internal/render"
)

type answer struct {
	index int
	text  string
}

type promptFixture struct {
	canvas  *render.Canvas
	prompt  *Prompt
	answers []answer
	hides   int
}

func newPromptFixture(t *testing.T, screen geom.Size, message string, answers ...string) *promptFixture {
	t.Helper()
	f := &promptFixture{canvas: render.NewCanvas(screen, nil)}
	f.prompt = NewPrompt(f.canvas, testKeymap{}, DefaultAppearance(), message, answers, nil)
	f.prompt.OnAnswer(func(i int, text string) { f.answers = append(f.answers, answer{i, text}) })
	f.prompt.OnHide(func() { f.hides++ })
	return f
}

func (f *promptFixture) button(i int) render.WindowID {
	return f.prompt.buttons[i].win.ID()
}

func (f *promptFixture) key(code uint32, state uint16) {
	f.prompt.HandleKey(KeyEvent{Code: code, State: state})
}

func (f *promptFixture) mouse(action MouseAction, i, x, y int) {
	f.prompt.HandleMouse(MouseEvent{Action: action, Window: f.button(i), X: x, Y: y})
}

func TestPromptWithoutAnswersHasOK(t *testing.T) {
	f := newPromptFixture(t, geom.Size{Width: 800, Height: 600}, "Done")
	buttons := f.prompt.Buttons()
	require.Len(t, buttons, 1)
	assert.Equal(t, DefaultAnswer, buttons[0].Text)
	assert.Equal(t, 0, f.prompt.Focus())
}

func TestPromptLayout(t *testing.T) {
	f := newPromptFixture(t, geom.Size{Width: 800, Height: 600}, "Really quit?", "Yes", "No", "Cancel")
	f.prompt.Show(0)

	look := f.prompt.look
	edge := look.BorderWidth + promptOutsideMargin
	buttons := f.prompt.Buttons()
	size := f.prompt.Size()
	msg := f.prompt.MessageRect()

	allw := 0
	allh := 0
	for i, b := range buttons {
		inner := f.canvas.MinSize(look.button(b.Text, look.Styles.Button))
		assert.Equal(t, inner.Width+2*promptButtonHMargin, b.Rect.Width, b.Text)
		assert.Equal(t, inner.Height+2*promptButtonVMargin, b.Rect.Height, b.Text)
		if i > 0 {
			prev := buttons[i-1].Rect
			assert.Equal(t, prev.X+prev.Width+promptButtonSeparation, b.Rect.X, "buttons are laid out left to right")
			allw += promptButtonSeparation
		}
		allw += b.Rect.Width
		allh = max(allh, b.Rect.Height)
		assert.Equal(t, size.Height-edge, b.Rect.Bottom(), "buttons sit at the bottom")
	}

	assert.Equal(t, edge, msg.Y)
	assert.LessOrEqual(t, msg.Bottom()+promptMsgButtonSeparation, buttons[0].Rect.Y)
	assert.Equal(t, max(msg.Width, allw)+2*edge, size.Width)
	assert.Equal(t, msg.Height+promptMsgButtonSeparation+allh+2*edge, size.Height)

	// the button row is centered
	left := buttons[0].Rect.X
	right := size.Width - buttons[len(buttons)-1].Rect.Right()
	assert.InDelta(t, left, right, 1)

	// windows follow the layout
	assert.Equal(t, buttons[1].Rect, canvasWindow(t, f.canvas, f.prompt.buttons[1].win).Rect())
	assert.Equal(t, msg, canvasWindow(t, f.canvas, f.prompt.msgWin).Rect())
	assert.Equal(t, geom.Rect{Width: size.Width, Height: size.Height}, canvasWindow(t, f.canvas, f.prompt.win).Rect())
}

func TestPromptMessageWrapsAtBound(t *testing.T) {
	long := strings.Repeat("this message is far too long for one line ", 40)

	f := newPromptFixture(t, geom.Size{Width: 1600, Height: 1200}, long, "OK")
	f.prompt.Show(0)
	assert.Equal(t, promptMaxWidth, f.prompt.msgBound, "capped at 600")
	assert.LessOrEqual(t, f.prompt.MessageRect().Width, promptMaxWidth)
	assert.Greater(t, f.prompt.MessageRect().Height, lineHeight(f.canvas, f.prompt.look))

	// a small screen bounds the message at four fifths of its width
	f = newPromptFixture(t, geom.Size{Width: 300, Height: 200}, long, "OK")
	f.prompt.Show(0)
	assert.Equal(t, 240, f.prompt.msgBound)
	assert.LessOrEqual(t, f.prompt.MessageRect().Width, 240)

	// wide buttons widen the bound
	wide := strings.Repeat("W", 60)
	f = newPromptFixture(t, geom.Size{Width: 300, Height: 200}, long, wide)
	f.prompt.Show(0)
	assert.Equal(t, f.prompt.Buttons()[0].Rect.Width, f.prompt.msgBound)
}

func TestPromptShowDeclaresDialog(t *testing.T) {
	f := newPromptFixture(t, geom.Size{Width: 800, Height: 600}, "Hello", "OK")

	f.prompt.Show(42)
	assert.True(t, f.prompt.Mapped())
	assert.Equal(t, []render.Dialog{{Window: f.prompt.Window().ID(), TransientFor: 42, Size: f.prompt.Size()}}, f.canvas.Dialogs())
	assert.True(t, canvasWindow(t, f.canvas, f.prompt.win).Options().Input)

	f.prompt.Show(42)
	assert.Len(t, f.canvas.Dialogs(), 1, "showing a shown prompt does nothing")
}

func TestPromptTabWrapsAround(t *testing.T) {
	f := newPromptFixture(t, geom.Size{Width: 800, Height: 600}, "Pick", "A", "B", "C")
	f.prompt.Show(0)

	var seen []int
	for range 4 {
		f.key(codeTab, 0)
		seen = append(seen, f.prompt.Focus())
	}
	assert.Equal(t, []int{1, 2, 0, 1}, seen)

	f.key(codeTab, shiftMask)
	assert.Equal(t, 0, f.prompt.Focus())
	f.key(codeTab, shiftMask)
	assert.Equal(t, 2, f.prompt.Focus(), "shift-tab wraps backwards")

	assert.Empty(t, f.answers)
	assert.True(t, f.prompt.Mapped())
}

func TestPromptIgnoresModifiedKeys(t *testing.T) {
	f := newPromptFixture(t, geom.Size{Width: 800, Height: 600}, "Pick", "A", "B")
	f.prompt.Show(0)

	f.key(codeTab, controlMask)
	f.key(codeTab, shiftMask|controlMask)
	assert.Equal(t, 0, f.prompt.Focus())

	f.key(codeReturn, controlMask)
	f.key(codeEscape, controlMask)
	assert.Empty(t, f.answers)
	assert.True(t, f.prompt.Mapped())

	// unknown keys do nothing either
	f.key(codeA, 0)
	assert.True(t, f.prompt.Mapped())
}

func TestPromptEscapeHidesWithoutAnswer(t *testing.T) {
	f := newPromptFixture(t, geom.Size{Width: 800, Height: 600}, "Pick", "A", "B")
	f.prompt.Show(0)

	f.key(codeEscape, 0)
	assert.False(t, f.prompt.Mapped())
	assert.False(t, canvasWindow(t, f.canvas, f.prompt.win).Mapped())
	assert.Empty(t, f.answers)
	assert.Equal(t, 1, f.hides)
}

func TestPromptReturnActivatesFocused(t *testing.T) {
	f := newPromptFixture(t, geom.Size{Width: 800, Height: 600}, "Pick", "Yes", "No")
	f.prompt.Show(0)

	f.key(codeTab, 0)
	f.key(codeReturn, shiftMask)
	assert.Equal(t, []answer{{1, "No"}}, f.answers)
	assert.False(t, f.prompt.Mapped())
	assert.Equal(t, 1, f.hides)
}

func TestPromptPressReleaseActivates(t *testing.T) {
	f := newPromptFixture(t, geom.Size{Width: 800, Height: 600}, "Pick", "Yes", "No")
	f.prompt.Show(0)

	f.mouse(MousePress, 1, 3, 3)
	assert.Equal(t, 1, f.prompt.Focus())
	assert.True(t, f.prompt.Buttons()[1].Pressed)
	assert.True(t, f.prompt.Mapped())

	f.mouse(MouseRelease, 1, 3, 3)
	assert.False(t, f.prompt.Buttons()[1].Pressed)
	assert.Equal(t, []answer{{1, "No"}}, f.answers)
	assert.False(t, f.prompt.Mapped())
}

func TestPromptMotionTracksPointer(t *testing.T) {
	f := newPromptFixture(t, geom.Size{Width: 800, Height: 600}, "Pick", "Yes", "No")
	f.prompt.Show(0)
	r := f.prompt.Buttons()[0].Rect

	f.mouse(MousePress, 0, 2, 2)
	require.True(t, f.prompt.Buttons()[0].Pressed)

	f.mouse(MouseMotion, 0, -1, 2)
	assert.False(t, f.prompt.Buttons()[0].Pressed, "outside the button")
	f.mouse(MouseMotion, 0, r.Width, 2)
	assert.False(t, f.prompt.Buttons()[0].Pressed, "right edge is outside")
	f.mouse(MouseMotion, 0, r.Width-1, r.Height-1)
	assert.True(t, f.prompt.Buttons()[0].Pressed, "back inside")

	// hovering another button does not press it
	f.mouse(MouseMotion, 1, 2, 2)
	assert.False(t, f.prompt.Buttons()[1].Pressed)

	// releasing after leaving the button cancels
	f.mouse(MouseMotion, 0, -5, -5)
	f.mouse(MouseRelease, 0, -5, -5)
	assert.Empty(t, f.answers)
	assert.True(t, f.prompt.Mapped())

	// motion without a pressed button presses nothing
	f.mouse(MouseMotion, 0, 2, 2)
	assert.False(t, f.prompt.Buttons()[0].Pressed)
}

func TestPromptForeignWindowPanics(t *testing.T) {
	f := newPromptFixture(t, geom.Size{Width: 800, Height: 600}, "Pick", "A")
	f.prompt.Show(0)

	assert.Panics(t, func() {
		f.prompt.HandleMouse(MouseEvent{Action: MousePress, Window: 9999})
	})
	assert.Panics(t, func() {
		f.prompt.HandleMouse(MouseEvent{Action: MousePress, Window: f.prompt.Window().ID()})
	})

	assert.True(t, f.prompt.Owns(f.prompt.Window().ID()))
	assert.True(t, f.prompt.Owns(f.button(0)))
	assert.False(t, f.prompt.Owns(9999))
}

func TestPromptRendersFocusAndPress(t *testing.T) {
	f := newPromptFixture(t, geom.Size{Width: 800, Height: 600}, "Pick", "Yes", "No")
	f.prompt.Show(0)
	look := f.prompt.look
	corner := look.BorderWidth + 1

	pixel := func(i int) any {
		return canvasWindow(t, f.canvas, f.prompt.buttons[i].win).Image().RGBAAt(corner, corner)
	}

	assert.Equal(t, rgba(look.Styles.ButtonFocused.Background), pixel(0))
	assert.Equal(t, rgba(look.Styles.Button.Background), pixel(1))

	f.key(codeTab, 0)
	assert.Equal(t, rgba(look.Styles.Button.Background), pixel(0))
	assert.Equal(t, rgba(look.Styles.ButtonFocused.Background), pixel(1))

	f.mouse(MousePress, 0, 1, 1)
	assert.Equal(t, rgba(look.Styles.ButtonPressed.Background), pixel(0))
	assert.Equal(t, rgba(look.Styles.Button.Background), pixel(1))
}

func TestPromptSetAppearanceRelayouts(t *testing.T) {
	f := newPromptFixture(t, geom.Size{Width: 800, Height: 600}, "Pick", "Yes")
	f.prompt.Show(0)
	before := f.prompt.Size()

	look := f.prompt.look
	look.BorderWidth += 5
	f.prompt.SetAppearance(look)

	assert.Equal(t, before.Width+2*10, f.prompt.Size().Width, "frame and button borders grow")
}
