package dbus

import (
	"errors"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/wmosd/internal/actions"
	"github.com/jmylchreest/wmosd/internal/display"
)

const (
	// DBusInterface is the OSD interface name.
	DBusInterface = "io.github.jmylchreest.wmosd"
	// DBusPath is the OSD object path.
	DBusPath = "/io/github/jmylchreest/wmosd"
	// DBusBusName is the bus name to claim.
	DBusBusName = "io.github.jmylchreest.wmosd"
)

// Error names returned by the service.
const (
	ErrorFailed         = DBusInterface + ".Error.Failed"
	ErrorPromptNotFound = DBusInterface + ".Error.PromptNotFound"
	ErrorTooManyPrompts = DBusInterface + ".Error.TooManyPrompts"
	ErrorUnknownAction  = DBusInterface + ".Error.UnknownAction"
)

// Handler carries out the requests the service receives. Methods are
// called on D-Bus goroutines.
type Handler interface {
	ShowPopup(text string, delay time.Duration) error
	HidePopup() error
	ShowDesktop(desktop, count int) error
	OpenPrompt(message string, answers []string) (string, error)
	ClosePrompt(id string) error
	ListPrompts() ([]PromptEntry, error)
	RunAction(name string, options map[string]string) error
}

// PromptEntry is an open prompt as listed over D-Bus, signature (ssx).
type PromptEntry struct {
	ID      string
	Message string
	Created int64 // Unix seconds
}

// CreatedAt returns the creation time of the prompt.
func (e PromptEntry) CreatedAt() time.Time {
	return time.Unix(e.Created, 0)
}

// NewPromptEntry converts a prompt description.
func NewPromptEntry(info display.PromptInfo) PromptEntry {
	return PromptEntry{
		ID:      info.ID,
		Message: info.Message,
		Created: info.CreatedAt.Unix(),
	}
}

// Answer is the payload of the PromptAnswered signal. Index is -1 when
// the prompt was dismissed.
type Answer struct {
	ID    string
	Index int32
	Text  string
}

// Dismissed reports whether the prompt closed without an answer.
func (a Answer) Dismissed() bool {
	return a.Index < 0
}

// ParseAnswer extracts an Answer from a PromptAnswered signal.
func ParseAnswer(sig *dbus.Signal) (Answer, bool) {
	if sig == nil || sig.Name != DBusInterface+".PromptAnswered" || len(sig.Body) != 3 {
		return Answer{}, false
	}
	id, ok1 := sig.Body[0].(string)
	index, ok2 := sig.Body[1].(int32)
	text, ok3 := sig.Body[2].(string)
	if !ok1 || !ok2 || !ok3 {
		return Answer{}, false
	}
	return Answer{ID: id, Index: index, Text: text}, true
}

// toDBusError maps handler errors to D-Bus errors callers can branch on.
func toDBusError(err error) *dbus.Error {
	if err == nil {
		return nil
	}
	name := ErrorFailed
	switch {
	case errors.Is(err, display.ErrPromptNotFound):
		name = ErrorPromptNotFound
	case errors.Is(err, display.ErrTooManyPrompts):
		name = ErrorTooManyPrompts
	case errors.Is(err, actions.ErrUnknownAction):
		name = ErrorUnknownAction
	}
	return dbus.NewError(name, []interface{}{err.Error()})
}

// IsError reports whether err is a D-Bus error with the given name.
func IsError(err error, name string) bool {
	var de dbus.Error
	if errors.As(err, &de) {
		return de.Name == name
	}
	var dep *dbus.Error
	if errors.As(err, &dep) && dep != nil {
		return dep.Name == name
	}
	return false
}
