package dbus

import (
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"
)

// EmitPromptAnswered emits the PromptAnswered signal. index is -1 when the
// prompt was dismissed without an answer.
func (s *Server) EmitPromptAnswered(id string, index int, answer string) error {
	s.mu.RLock()
	conn := s.conn
	running := s.running
	s.mu.RUnlock()

	if conn == nil || !running {
		return errors.New("not connected to D-Bus")
	}

	err := conn.Emit(DBusPath, DBusInterface+".PromptAnswered", id, int32(index), answer)
	if err != nil {
		return fmt.Errorf("failed to emit PromptAnswered signal: %w", err)
	}

	s.logger.Debug("emitted PromptAnswered signal", "id", id, "index", index)
	return nil
}

// Connection returns the underlying D-Bus connection.
func (s *Server) Connection() *dbus.Conn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conn
}
