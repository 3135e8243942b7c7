package display

import (
	"cmp"
	"crypto/rand"
	"errors"
	"image"
	"log/slog"
	"slices"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/jmylchreest/wmosd/internal/config"
	"github.com/jmylchreest/wmosd/internal/render"
	"github.com/jmylchreest/wmosd/internal/theme"
)

var (
	// ErrPromptNotFound is returned for an unknown or already closed prompt.
	ErrPromptNotFound = errors.New("prompt not found")
	// ErrTooManyPrompts is returned when the open prompt limit is reached.
	ErrTooManyPrompts = errors.New("too many open prompts")
	// ErrNotStarted is returned when the manager is used before Start.
	ErrNotStarted = errors.New("display manager not started")
)

// PromptInfo describes an open prompt.
type PromptInfo struct {
	ID        string
	Message   string
	Answers   []string
	CreatedAt time.Time
}

// AnswerCallback is called once per prompt when it closes. index is -1
// and answer empty when the prompt was dismissed without an answer.
type AnswerCallback func(id string, index int, answer string)

type promptState struct {
	info     PromptInfo
	prompt   *Prompt
	answered bool
}

// Manager owns the daemon's widgets: one text popup, one icon popup, the
// desktop pager and any number of prompts. It must only be used from the
// goroutine that runs the Scheduler's callbacks.
type Manager struct {
	tk     render.Toolkit
	sched  Scheduler
	events EventFilter
	keymap Keymap
	config *config.DaemonConfig
	layout *LayoutManager
	logger *slog.Logger
	look   Appearance

	text  *Popup
	icon  *IconPopup
	pager *PagerPopup

	textHide  TimerID
	iconHide  TimerID
	pagerHide TimerID

	// last shown content, repainted on theme changes
	lastText  string
	lastIcon  image.Image
	lastDesk  int
	lastCount int
	lastName  string

	wmLayout *DesktopLayout

	prompts  map[string]*promptState
	onAnswer AnswerCallback

	now     func() time.Time
	started bool
}

// NewManager creates a new display manager. events may be nil.
func NewManager(tk render.Toolkit, sched Scheduler, events EventFilter, keymap Keymap, cfg *config.DaemonConfig, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = config.DefaultDaemonConfig()
	}

	return &Manager{
		tk:      tk,
		sched:   sched,
		events:  events,
		keymap:  keymap,
		config:  cfg,
		layout:  NewLayoutManager(cfg, logger),
		logger:  logger,
		look:    DefaultAppearance(),
		prompts: make(map[string]*promptState),
		now:     time.Now,
	}
}

// Start creates the popups.
func (m *Manager) Start() error {
	if m.started {
		return nil
	}
	area := m.tk.ScreenArea()
	if area.Width <= 0 || area.Height <= 0 {
		return &DisplayError{Message: "no display available"}
	}

	m.text = NewPopup(m.tk, m.sched, m.events, m.look, m.logger)
	m.icon = NewIconPopup(m.tk, m.sched, m.events, m.look, m.logger)
	m.pager = NewPagerPopup(m.tk, m.sched, m.events, m.look, m.logger)
	m.started = true
	m.applyConfig()

	m.logger.Info("display manager started", "screen", area)
	return nil
}

// Stop dismisses all prompts and frees every widget.
func (m *Manager) Stop() {
	if !m.started {
		return
	}
	m.CloseAll()

	for _, id := range []*TimerID{&m.textHide, &m.iconHide, &m.pagerHide} {
		m.cancelTimer(id)
	}
	m.text.Destroy()
	m.icon.Destroy()
	m.pager.Destroy()
	m.started = false

	m.logger.Info("display manager stopped")
}

// SetAnswerCallback sets the callback for prompt answers.
func (m *Manager) SetAnswerCallback(cb AnswerCallback) {
	m.onAnswer = cb
}

// Appearance is the current look.
func (m *Manager) Appearance() Appearance {
	return m.look
}

// TextPopup is the popup used by ShowText without an icon.
func (m *Manager) TextPopup() *Popup {
	return m.text
}

// IconPopup is the popup used by ShowText with an icon.
func (m *Manager) IconPopup() *IconPopup {
	return m.icon
}

// Pager is the desktop pager popup.
func (m *Manager) Pager() *PagerPopup {
	return m.pager
}

func (m *Manager) applyConfig() {
	m.layout = NewLayoutManager(m.config, m.logger)
	if !m.started {
		return
	}
	m.place()

	align := m.layout.TextAlign()
	for _, p := range []*Popup{m.text, m.icon.Popup, m.pager.Popup} {
		p.SetAppearance(m.look)
		p.SetTextAlign(align)
		p.SetMinWidth(m.config.Popup.MinWidth)
		p.SetMaxWidth(m.config.Popup.MaxWidth)
	}
	m.pager.SetHeight(m.config.Pager.CellSize)
}

// place anchors the popups on the current screen area.
func (m *Manager) place() {
	g, at := m.layout.PopupPosition(m.tk.ScreenArea())
	for _, p := range []*Popup{m.text, m.icon.Popup, m.pager.Popup} {
		p.Position(g, at.X, at.Y)
	}
}

func (m *Manager) cancelTimer(id *TimerID) {
	if *id != 0 {
		m.sched.Cancel(*id)
		*id = 0
	}
}

// scheduleHide restarts the auto-hide timer stored in id. d <= 0 keeps the
// popup up until it is hidden explicitly.
func (m *Manager) scheduleHide(id *TimerID, d time.Duration, hide func()) {
	m.cancelTimer(id)
	if d <= 0 {
		return
	}
	*id = m.sched.Schedule(d, func() {
		*id = 0
		hide()
	})
}

// ShowText shows text in the popup after the configured delay and hides it
// after the configured timeout. A non-nil icon selects the icon popup.
func (m *Manager) ShowText(text string, icon image.Image) error {
	return m.ShowTextAfter(text, icon, m.config.Popup.Delay.Duration())
}

// ShowTextAfter is ShowText with an explicit show delay.
func (m *Manager) ShowTextAfter(text string, icon image.Image, delay time.Duration) error {
	if !m.started {
		return &DisplayError{Message: "cannot show popup", Cause: ErrNotStarted}
	}
	if delay < 0 {
		delay = 0
	}
	m.place()
	m.lastText, m.lastIcon = text, icon

	// hide_after 0 keeps the popup up regardless of the show delay
	hideAfter := m.config.Popup.HideAfter.Duration()
	if hideAfter > 0 {
		hideAfter += delay
	}
	if icon != nil {
		m.cancelTimer(&m.textHide)
		m.text.Hide()
		m.icon.DelayShow(delay, text, icon)
		m.scheduleHide(&m.iconHide, hideAfter, m.icon.Hide)
	} else {
		m.cancelTimer(&m.iconHide)
		m.icon.Hide()
		m.text.DelayShow(delay, text)
		m.scheduleHide(&m.textHide, hideAfter, m.text.Hide)
	}

	m.logger.Debug("showing popup", "text", text, "icon", icon != nil, "delay", delay)
	return nil
}

// HideText hides the text and icon popups.
func (m *Manager) HideText() {
	if !m.started {
		return
	}
	m.cancelTimer(&m.textHide)
	m.cancelTimer(&m.iconHide)
	m.text.Hide()
	m.icon.Hide()
}

// SetDesktopLayout records the window manager's desktop layout. It is used
// instead of the configured one when the pager is configured to follow the
// window manager. nil forgets it.
func (m *Manager) SetDesktopLayout(l *DesktopLayout) {
	if l != nil && !l.Valid() {
		m.logger.Debug("ignoring invalid desktop layout", "orientation", l.Orientation, "corner", l.StartCorner)
		return
	}
	m.wmLayout = l
}

// DesktopLayout is the layout the pager uses for count desktops.
func (m *Manager) DesktopLayout(count int) DesktopLayout {
	l := m.layout.DesktopLayout()
	if m.config.Pager.FromWM && m.wmLayout != nil {
		l = *m.wmLayout
	}
	return l.Resolve(count)
}

// ShowDesktop shows the pager with desk highlighted among count desktops,
// labelled with name.
func (m *Manager) ShowDesktop(desk, count int, name string) error {
	if !m.started {
		return &DisplayError{Message: "cannot show desktop", Cause: ErrNotStarted}
	}
	if count < 1 || desk < 0 || desk >= count {
		return &DisplayError{Message: "desktop out of range"}
	}
	m.place()
	m.lastDesk, m.lastCount, m.lastName = desk, count, name

	l := m.DesktopLayout(count)
	m.pager.SetDesktopLayout(l)
	m.pager.IconSizeMultiplier(PagerMultiplier(l))
	m.pager.Show(name, desk, count)
	m.scheduleHide(&m.pagerHide, m.config.Pager.HideAfter.Duration(), m.pager.Hide)

	m.logger.Debug("showing desktop", "desktop", desk, "count", count, "layout", l)
	return nil
}

// OpenPrompt shows a prompt transient for parent, which may be zero, and
// returns its id.
func (m *Manager) OpenPrompt(message string, answers []string, parent render.WindowID) (string, error) {
	if !m.started {
		return "", &DisplayError{Message: "cannot open prompt", Cause: ErrNotStarted}
	}
	if len(m.prompts) >= m.config.Prompt.MaxOpen {
		return "", &DisplayError{Message: "cannot open prompt", Cause: ErrTooManyPrompts}
	}

	now := m.now()
	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return "", &DisplayError{Message: "failed to generate prompt id", Cause: err}
	}

	p := NewPrompt(m.tk, m.keymap, m.look, message, answers, m.logger.With("prompt", id.String()))
	st := &promptState{
		info: PromptInfo{
			ID:        id.String(),
			Message:   message,
			CreatedAt: now,
		},
		prompt: p,
	}
	for _, b := range p.Buttons() {
		st.info.Answers = append(st.info.Answers, b.Text)
	}

	p.OnAnswer(func(index int, text string) {
		st.answered = true
		m.answer(st.info.ID, index, text)
	})
	p.OnHide(func() {
		m.promptClosed(st)
	})

	m.prompts[st.info.ID] = st
	p.Show(parent)

	m.logger.Debug("opened prompt", "id", st.info.ID, "answers", st.info.Answers, "open_prompts", len(m.prompts))
	return st.info.ID, nil
}

func (m *Manager) answer(id string, index int, text string) {
	if m.onAnswer != nil {
		m.onAnswer(id, index, text)
	}
}

// promptClosed forgets a hidden prompt and frees it.
func (m *Manager) promptClosed(st *promptState) {
	if _, ok := m.prompts[st.info.ID]; !ok {
		return
	}
	delete(m.prompts, st.info.ID)
	if !st.answered {
		m.answer(st.info.ID, -1, "")
	}
	st.prompt.Destroy()
	m.logger.Debug("closed prompt", "id", st.info.ID, "answered", st.answered)
}

// ClosePrompt dismisses a prompt without an answer.
func (m *Manager) ClosePrompt(id string) error {
	st, ok := m.prompts[id]
	if !ok {
		return &DisplayError{Message: "cannot close prompt " + id, Cause: ErrPromptNotFound}
	}
	st.prompt.Hide()
	return nil
}

// CloseAll dismisses every prompt.
func (m *Manager) CloseAll() {
	for _, info := range m.Prompts() {
		if st, ok := m.prompts[info.ID]; ok {
			st.prompt.Hide()
		}
	}
}

// Prompts lists the open prompts, oldest first.
func (m *Manager) Prompts() []PromptInfo {
	out := make([]PromptInfo, 0, len(m.prompts))
	for _, st := range m.prompts {
		out = append(out, st.info)
	}
	slices.SortFunc(out, func(a, b PromptInfo) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// Prompt returns an open prompt.
func (m *Manager) Prompt(id string) (*Prompt, bool) {
	st, ok := m.prompts[id]
	if !ok {
		return nil, false
	}
	return st.prompt, true
}

// PromptCount returns the number of open prompts.
func (m *Manager) PromptCount() int {
	return len(m.prompts)
}

func (m *Manager) promptOwning(win render.WindowID) *Prompt {
	for _, st := range m.prompts {
		if st.prompt.Owns(win) {
			return st.prompt
		}
	}
	return nil
}

// DispatchKey routes a key press on win to the prompt owning it. It
// reports whether a prompt took the event.
func (m *Manager) DispatchKey(win render.WindowID, e KeyEvent) bool {
	p := m.promptOwning(win)
	if p == nil {
		return false
	}
	p.HandleKey(e)
	return true
}

// DispatchMouse routes a pointer event to the prompt owning its window.
// Events on a prompt's frame or message are taken but ignored.
func (m *Manager) DispatchMouse(e MouseEvent) bool {
	p := m.promptOwning(e.Window)
	if p == nil {
		return false
	}
	if p.buttonFor(e.Window) >= 0 {
		p.HandleMouse(e)
	}
	return true
}

// Reconfigure applies a new theme. Open prompts are laid out and painted
// again and shown popups are repainted.
func (m *Manager) Reconfigure(t *theme.Theme) {
	m.look = NewAppearance(t)
	if !m.started {
		return
	}
	m.applyConfig()

	for _, st := range m.prompts {
		st.prompt.SetAppearance(m.look)
	}
	m.repaint()

	m.logger.Info("display theme changed", "theme", t.Name, "open_prompts", len(m.prompts))
}

// repaint shows the visible popups again with their last content.
func (m *Manager) repaint() {
	if m.text.Mapped() {
		m.text.Show(m.lastText)
	}
	if m.icon.Mapped() {
		m.icon.Show(m.lastText, m.lastIcon)
	}
	if m.pager.Mapped() {
		m.pager.Show(m.lastName, m.lastDesk, m.lastCount)
	}
}

// UpdateConfig updates the configuration and adjusts displayed popups if necessary.
// This is called when the config file is hot-reloaded.
func (m *Manager) UpdateConfig(cfg *config.DaemonConfig) {
	oldMaxOpen := m.config.Prompt.MaxOpen
	m.config = cfg
	m.applyConfig()
	if m.started {
		m.repaint()
	}

	m.logger.Debug("display manager config updated",
		"old_max_open", oldMaxOpen,
		"new_max_open", cfg.Prompt.MaxOpen,
	)
	// Note: If max_open decreased, open prompts stay until answered.
	// New prompts respect the limit.
}

// DisplayError represents a display-related error.
type DisplayError struct {
	Message string
	Cause   error
}

func (e *DisplayError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *DisplayError) Unwrap() error {
	return e.Cause
}
