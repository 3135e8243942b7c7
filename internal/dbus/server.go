package dbus

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
)

// Server exports the OSD interface on the session bus. Requests are passed
// to a Handler.
type Server struct {
	conn    *dbus.Conn
	handler Handler
	logger  *slog.Logger

	mu      sync.RWMutex
	running bool
}

// NewServer creates a new Server.
func NewServer(handler Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		handler: handler,
		logger:  logger,
	}
}

// Start connects to the session bus and exports the service.
func (s *Server) Start() error {
	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return s.StartOn(conn)
}

// StartOn exports the service on an existing connection.
func (s *Server) StartOn(conn *dbus.Conn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("server already running")
	}

	if err := conn.Export(s, DBusPath, DBusInterface); err != nil {
		return fmt.Errorf("failed to export object: %w", err)
	}

	node := &introspect.Node{
		Name: DBusPath,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name:    DBusInterface,
				Methods: osdMethods(),
				Signals: osdSignals(),
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), DBusPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	reply, err := conn.RequestName(DBusBusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("bus name %s already taken", DBusBusName)
	}

	s.conn = conn
	s.running = true

	s.logger.Info("D-Bus OSD server started", "interface", DBusInterface, "path", DBusPath)
	return nil
}

// Stop releases the bus name and unexports the service.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if _, err := s.conn.ReleaseName(DBusBusName); err != nil {
		s.logger.Warn("failed to release bus name", "error", err)
	}
	_ = s.conn.Export(nil, DBusPath, DBusInterface)
	_ = s.conn.Export(nil, DBusPath, "org.freedesktop.DBus.Introspectable")
	// The session bus connection is shared and stays open.

	s.logger.Info("D-Bus OSD server stopped")
	return nil
}

// Running reports whether the service is exported.
func (s *Server) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// ShowPopup shows text in the popup after delayMs milliseconds.
// D-Bus method: ShowPopup(su)
func (s *Server) ShowPopup(text string, delayMs uint32) *dbus.Error {
	s.logger.Debug("ShowPopup called", "text", text, "delay_ms", delayMs)
	return toDBusError(s.handler.ShowPopup(text, time.Duration(delayMs)*time.Millisecond))
}

// HidePopup hides the popup.
// D-Bus method: HidePopup()
func (s *Server) HidePopup() *dbus.Error {
	s.logger.Debug("HidePopup called")
	return toDBusError(s.handler.HidePopup())
}

// ShowDesktop shows the desktop pager.
// D-Bus method: ShowDesktop(uu)
func (s *Server) ShowDesktop(desktop, count uint32) *dbus.Error {
	s.logger.Debug("ShowDesktop called", "desktop", desktop, "count", count)
	return toDBusError(s.handler.ShowDesktop(int(desktop), int(count)))
}

// Prompt opens a prompt and returns its id. The answer is reported by
// the PromptAnswered signal.
// D-Bus method: Prompt(sas) -> s
func (s *Server) Prompt(message string, answers []string) (string, *dbus.Error) {
	s.logger.Debug("Prompt called", "message", message, "answers", answers)
	id, err := s.handler.OpenPrompt(message, answers)
	if err != nil {
		return "", toDBusError(err)
	}
	return id, nil
}

// ClosePrompt dismisses a prompt.
// D-Bus method: ClosePrompt(s)
func (s *Server) ClosePrompt(id string) *dbus.Error {
	s.logger.Debug("ClosePrompt called", "id", id)
	return toDBusError(s.handler.ClosePrompt(id))
}

// ListPrompts lists the open prompts, oldest first.
// D-Bus method: ListPrompts() -> a(ssx)
func (s *Server) ListPrompts() ([]PromptEntry, *dbus.Error) {
	entries, err := s.handler.ListPrompts()
	if err != nil {
		return nil, toDBusError(err)
	}
	if entries == nil {
		entries = []PromptEntry{}
	}
	return entries, nil
}

// RunAction runs a resize action on the active window.
// D-Bus method: RunAction(sa{ss})
func (s *Server) RunAction(name string, options map[string]string) *dbus.Error {
	s.logger.Debug("RunAction called", "name", name, "options", options)
	return toDBusError(s.handler.RunAction(name, options))
}

// osdMethods returns the D-Bus method introspection data.
func osdMethods() []introspect.Method {
	return []introspect.Method{
		{
			Name: "ShowPopup",
			Args: []introspect.Arg{
				{Name: "text", Type: "s", Direction: "in"},
				{Name: "delay_ms", Type: "u", Direction: "in"},
			},
		},
		{
			Name: "HidePopup",
		},
		{
			Name: "ShowDesktop",
			Args: []introspect.Arg{
				{Name: "desktop", Type: "u", Direction: "in"},
				{Name: "count", Type: "u", Direction: "in"},
			},
		},
		{
			Name: "Prompt",
			Args: []introspect.Arg{
				{Name: "message", Type: "s", Direction: "in"},
				{Name: "answers", Type: "as", Direction: "in"},
				{Name: "id", Type: "s", Direction: "out"},
			},
		},
		{
			Name: "ClosePrompt",
			Args: []introspect.Arg{
				{Name: "id", Type: "s", Direction: "in"},
			},
		},
		{
			Name: "ListPrompts",
			Args: []introspect.Arg{
				{Name: "prompts", Type: "a(ssx)", Direction: "out"},
			},
		},
		{
			Name: "RunAction",
			Args: []introspect.Arg{
				{Name: "name", Type: "s", Direction: "in"},
				{Name: "options", Type: "a{ss}", Direction: "in"},
			},
		},
	}
}

// osdSignals returns the D-Bus signal introspection data.
func osdSignals() []introspect.Signal {
	return []introspect.Signal{
		{
			Name: "PromptAnswered",
			Args: []introspect.Arg{
				{Name: "id", Type: "s"},
				{Name: "index", Type: "i"},
				{Name: "answer", Type: "s"},
			},
		},
	}
}
