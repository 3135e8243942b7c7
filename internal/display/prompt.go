package display

import (
	"fmt"
	"log/slog"

	"github.com/jmylchreest/wmosd/internal/geom"
	"github.com/jmylchreest/wmosd/internal/render"
)

// Prompt layout constants, in pixels.
const (
	promptOutsideMargin       = 4
	promptMsgButtonSeparation = 4
	promptButtonSeparation    = 4
	promptButtonVMargin       = 4
	promptButtonHMargin       = 12
	promptMaxWidth            = 600
)

// DefaultAnswer labels the only button of a prompt without answers.
const DefaultAnswer = "OK"

// Button is the state of one prompt button.
type Button struct {
	Text    string
	Rect    geom.Rect // relative to the prompt window
	Pressed bool
}

type promptButton struct {
	Button
	win render.Window
}

// AnswerFunc receives the index and label of an activated button.
type AnswerFunc func(index int, text string)

// Prompt is a modal dialog with a message and a row of answer buttons.
// Exactly one button has the focus at any time.
type Prompt struct {
	tk     render.Toolkit
	keymap Keymap
	logger *slog.Logger
	look   Appearance

	win      render.Window
	msgWin   render.Window
	message  string
	msgRect  geom.Rect
	msgBound int
	buttons  []*promptButton
	focus    int
	down     int // button the pointer was pressed on, or -1
	size     geom.Size
	mapped   bool

	onAnswer AnswerFunc
	onHide   func()
}

// NewPrompt creates a hidden prompt. With no answers the prompt gets a
// single "OK" button.
func NewPrompt(tk render.Toolkit, keymap Keymap, look Appearance, message string, answers []string, logger *slog.Logger) *Prompt {
	if logger == nil {
		logger = slog.Default()
	}
	if len(answers) == 0 {
		answers = []string{DefaultAnswer}
	}

	p := &Prompt{
		tk:      tk,
		keymap:  keymap,
		logger:  logger,
		look:    look,
		message: message,
		down:    -1,
	}
	p.win = tk.CreateWindow(nil, render.WindowOptions{Name: "prompt", Input: true})
	p.msgWin = tk.CreateWindow(p.win, render.WindowOptions{Name: "prompt-message"})
	p.msgWin.Map()

	for i, text := range answers {
		w := tk.CreateWindow(p.win, render.WindowOptions{Name: fmt.Sprintf("prompt-button-%d", i), Input: true})
		w.Map()
		p.buttons = append(p.buttons, &promptButton{Button: Button{Text: text}, win: w})
	}
	return p
}

// OnAnswer sets the function called when a button is activated.
func (p *Prompt) OnAnswer(fn AnswerFunc) {
	p.onAnswer = fn
}

// OnHide sets the function called after the prompt was hidden.
func (p *Prompt) OnHide(fn func()) {
	p.onHide = fn
}

// Destroy frees the prompt's windows.
func (p *Prompt) Destroy() {
	for _, b := range p.buttons {
		b.win.Destroy()
	}
	p.msgWin.Destroy()
	p.win.Destroy()
	p.mapped = false
}

// Window is the prompt's top-level window.
func (p *Prompt) Window() render.Window {
	return p.win
}

// Message is the prompt text.
func (p *Prompt) Message() string {
	return p.message
}

// Mapped reports whether the prompt is shown.
func (p *Prompt) Mapped() bool {
	return p.mapped
}

// Focus is the index of the focused button.
func (p *Prompt) Focus() int {
	return p.focus
}

// Size is the prompt size from the last layout.
func (p *Prompt) Size() geom.Size {
	return p.size
}

// MessageRect is the message area from the last layout.
func (p *Prompt) MessageRect() geom.Rect {
	return p.msgRect
}

// Buttons returns a copy of the button states.
func (p *Prompt) Buttons() []Button {
	out := make([]Button, len(p.buttons))
	for i, b := range p.buttons {
		out[i] = b.Button
	}
	return out
}

// Owns reports whether id is one of the prompt's windows.
func (p *Prompt) Owns(id render.WindowID) bool {
	if id == p.win.ID() || id == p.msgWin.ID() {
		return true
	}
	return p.buttonFor(id) >= 0
}

func (p *Prompt) buttonFor(id render.WindowID) int {
	for i, b := range p.buttons {
		if b.win.ID() == id {
			return i
		}
	}
	return -1
}

// SetAppearance changes the look. A shown prompt is laid out and painted
// again.
func (p *Prompt) SetAppearance(look Appearance) {
	p.look = look
	p.layout()
	p.renderAll()
}

func (p *Prompt) buttonTemplate(b *promptButton, i int) render.Template {
	s := p.look.Styles.Button
	switch {
	case b.Pressed:
		s = p.look.Styles.ButtonPressed
	case i == p.focus:
		s = p.look.Styles.ButtonFocused
	}
	return p.look.button(b.Text, s)
}

func (p *Prompt) messageTemplate() render.Template {
	t := p.look.label(p.message, render.JustifyCenter, p.look.Styles.Prompt)
	t.Flow = true
	t.MaxWidth = p.msgBound
	return t
}

func (p *Prompt) layout() {
	m := p.tk.Margins(p.look.frame(p.look.Styles.Prompt))
	l := m.Left + promptOutsideMargin
	t := m.Top + promptOutsideMargin
	r := m.Right + promptOutsideMargin
	b := m.Bottom + promptOutsideMargin

	maxw := min(promptMaxWidth, p.tk.ScreenArea().Width*4/5)

	allw, allh := 0, 0
	for i, btn := range p.buttons {
		var size geom.Size
		for _, style := range [...]render.Template{
			p.look.button(btn.Text, p.look.Styles.Button),
			p.look.button(btn.Text, p.look.Styles.ButtonFocused),
			p.look.button(btn.Text, p.look.Styles.ButtonPressed),
		} {
			ms := p.tk.MinSize(style)
			size.Width = max(size.Width, ms.Width)
			size.Height = max(size.Height, ms.Height)
		}
		btn.Rect.Width = size.Width + 2*promptButtonHMargin
		btn.Rect.Height = size.Height + 2*promptButtonVMargin

		allw += btn.Rect.Width
		if i > 0 {
			allw += promptButtonSeparation
		}
		allh = max(allh, btn.Rect.Height)
	}

	p.msgBound = max(allw, maxw)
	msg := p.tk.MinSize(p.messageTemplate())

	w := max(msg.Width, allw)
	h := msg.Height + promptMsgButtonSeparation + allh

	p.msgRect = geom.Rect{X: l + (w-msg.Width)/2, Y: t, Width: msg.Width, Height: msg.Height}

	x := l + (w-allw)/2
	for _, btn := range p.buttons {
		btn.Rect.X = x
		x += btn.Rect.Width + promptButtonSeparation
		btn.Rect.Y = t + h - allh + (allh-btn.Rect.Height)/2
	}

	p.size = geom.Size{Width: w + l + r, Height: h + t + b}

	p.win.MoveResize(geom.Rect{Width: p.size.Width, Height: p.size.Height})
	p.msgWin.MoveResize(p.msgRect)
	for _, btn := range p.buttons {
		btn.win.MoveResize(btn.Rect)
	}
}

func (p *Prompt) renderButton(i int) {
	b := p.buttons[i]
	p.tk.Paint(b.win, p.buttonTemplate(b, i))
}

func (p *Prompt) renderAll() {
	p.tk.Paint(p.win, p.look.frame(p.look.Styles.Prompt))
	p.tk.Paint(p.msgWin, p.messageTemplate())
	for i := range p.buttons {
		p.renderButton(i)
	}
}

// Show lays out and paints the prompt and hands it to the window manager
// as a fixed-size dialog, transient for parent when it is non-zero.
// Showing a shown prompt does nothing.
func (p *Prompt) Show(parent render.WindowID) {
	if p.mapped {
		return
	}
	p.layout()
	p.renderAll()
	p.tk.ManageDialog(p.win, parent, p.size)
	p.mapped = true
	p.logger.Debug("prompt shown", "message", p.message, "buttons", len(p.buttons), "size", p.size)
}

// Hide unmaps the prompt.
func (p *Prompt) Hide() {
	p.win.Unmap()
	p.mapped = false
	if p.onHide != nil {
		p.onHide()
	}
}

func (p *Prompt) activate(i int) {
	b := p.buttons[i]
	p.logger.Debug("prompt answered", "index", i, "answer", b.Text)
	if p.onAnswer != nil {
		p.onAnswer(i, b.Text)
	}
	p.Hide()
}

// HandleKey reacts to a key press. Only presses without modifiers or with
// just shift are considered.
func (p *Prompt) HandleKey(e KeyEvent) {
	shift := p.keymap.ShiftMask()
	if e.State != 0 && e.State != shift {
		return
	}

	switch p.keymap.Key(e.Code) {
	case KeyEscape:
		p.Hide()
	case KeyReturn:
		p.activate(p.focus)
	case KeyTab:
		old := p.focus
		n := len(p.buttons)
		if e.State == shift {
			p.focus = (p.focus - 1 + n) % n
		} else {
			p.focus = (p.focus + 1) % n
		}
		if old != p.focus {
			p.renderButton(old)
		}
		p.renderButton(p.focus)
	}
}

// HandleMouse reacts to a pointer event on one of the buttons. Events for
// other windows are a programming error.
func (p *Prompt) HandleMouse(e MouseEvent) {
	i := p.buttonFor(e.Window)
	if i < 0 {
		panic(fmt.Sprintf("display: prompt got a mouse event for foreign window %d", e.Window))
	}
	b := p.buttons[i]

	switch e.Action {
	case MousePress:
		old := p.focus
		b.Pressed = true
		p.focus = i
		p.down = i
		if old != i {
			p.renderButton(old)
		}
		p.renderButton(i)
	case MouseRelease:
		p.down = -1
		if b.Pressed {
			b.Pressed = false
			p.renderButton(i)
			p.activate(i)
		}
	case MouseMotion:
		inside := e.X >= 0 && e.Y >= 0 && e.X < b.Rect.Width && e.Y < b.Rect.Height
		press := inside && i == p.down
		if press != b.Pressed {
			b.Pressed = press
			p.renderButton(i)
		}
	}
}
