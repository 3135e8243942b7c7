package dbus

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/wmosd/internal/actions"
	"github.com/jmylchreest/wmosd/internal/display"
)

type call struct {
	method string
	args   []interface{}
}

type fakeHandler struct {
	calls   []call
	err     error
	id      string
	entries []PromptEntry
}

func (h *fakeHandler) record(method string, args ...interface{}) error {
	h.calls = append(h.calls, call{method, args})
	return h.err
}

func (h *fakeHandler) ShowPopup(text string, delay time.Duration) error {
	return h.record("ShowPopup", text, delay)
}

func (h *fakeHandler) HidePopup() error {
	return h.record("HidePopup")
}

func (h *fakeHandler) ShowDesktop(desktop, count int) error {
	return h.record("ShowDesktop", desktop, count)
}

func (h *fakeHandler) OpenPrompt(message string, answers []string) (string, error) {
	return h.id, h.record("OpenPrompt", message, answers)
}

func (h *fakeHandler) ClosePrompt(id string) error {
	return h.record("ClosePrompt", id)
}

func (h *fakeHandler) ListPrompts() ([]PromptEntry, error) {
	return h.entries, h.record("ListPrompts")
}

func (h *fakeHandler) RunAction(name string, options map[string]string) error {
	return h.record("RunAction", name, options)
}

func TestServerForwardsCalls(t *testing.T) {
	h := &fakeHandler{id: "01PROMPT"}
	s := NewServer(h, nil)

	assert.Nil(t, s.ShowPopup("Volume 40%", 250))
	assert.Nil(t, s.HidePopup())
	assert.Nil(t, s.ShowDesktop(2, 4))
	id, derr := s.Prompt("Quit?", []string{"Yes", "No"})
	assert.Nil(t, derr)
	assert.Equal(t, "01PROMPT", id)
	assert.Nil(t, s.ClosePrompt("01PROMPT"))
	assert.Nil(t, s.RunAction("GrowToEdge", map[string]string{"direction": "east"}))

	assert.Equal(t, []call{
		{"ShowPopup", []interface{}{"Volume 40%", 250 * time.Millisecond}},
		{"HidePopup", nil},
		{"ShowDesktop", []interface{}{2, 4}},
		{"OpenPrompt", []interface{}{"Quit?", []string{"Yes", "No"}}},
		{"ClosePrompt", []interface{}{"01PROMPT"}},
		{"RunAction", []interface{}{"GrowToEdge", map[string]string{"direction": "east"}}},
	}, h.calls)
}

func TestServerListPromptsNeverNil(t *testing.T) {
	s := NewServer(&fakeHandler{}, nil)
	entries, derr := s.ListPrompts()
	assert.Nil(t, derr)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestServerMapsErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"prompt not found", &display.DisplayError{Message: "cannot close", Cause: display.ErrPromptNotFound}, ErrorPromptNotFound},
		{"too many prompts", fmt.Errorf("open: %w", display.ErrTooManyPrompts), ErrorTooManyPrompts},
		{"unknown action", fmt.Errorf("%w: %q", actions.ErrUnknownAction, "Maximize"), ErrorUnknownAction},
		{"anything else", errors.New("boom"), ErrorFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(&fakeHandler{err: tt.err}, nil)
			_, derr := s.Prompt("x", nil)
			require.NotNil(t, derr)
			assert.Equal(t, tt.want, derr.Name)
			assert.Equal(t, []interface{}{tt.err.Error()}, derr.Body)
			assert.True(t, IsError(derr, tt.want))
			assert.True(t, IsError(fmt.Errorf("wrapped: %w", *derr), tt.want))
		})
	}

	assert.Nil(t, toDBusError(nil))
	assert.False(t, IsError(errors.New("plain"), ErrorFailed))
}

func TestIntrospectionMatchesExportedMethods(t *testing.T) {
	typ := reflect.TypeOf(&Server{})
	errType := reflect.TypeOf(&dbus.Error{})

	for _, m := range osdMethods() {
		method, ok := typ.MethodByName(m.Name)
		require.True(t, ok, "method %s is not implemented", m.Name)
		out := method.Type.NumOut()
		require.Positive(t, out)
		assert.Equal(t, errType, method.Type.Out(out-1), "method %s must return *dbus.Error", m.Name)

		var in, outArgs int
		for _, a := range m.Args {
			if a.Direction == "in" {
				in++
			} else {
				outArgs++
			}
		}
		assert.Equal(t, in, method.Type.NumIn()-1, "in args of %s", m.Name)
		assert.Equal(t, outArgs, out-1, "out args of %s", m.Name)
	}
}

func TestEmitWithoutConnection(t *testing.T) {
	s := NewServer(&fakeHandler{}, nil)
	assert.Error(t, s.EmitPromptAnswered("id", 0, "Yes"))
	assert.False(t, s.Running())
	assert.NoError(t, s.Stop())
}

func TestParseAnswer(t *testing.T) {
	good := &dbus.Signal{
		Name: DBusInterface + ".PromptAnswered",
		Body: []interface{}{"01ABC", int32(1), "No"},
	}
	a, ok := ParseAnswer(good)
	require.True(t, ok)
	assert.Equal(t, Answer{ID: "01ABC", Index: 1, Text: "No"}, a)
	assert.False(t, a.Dismissed())

	dismissed := &dbus.Signal{
		Name: DBusInterface + ".PromptAnswered",
		Body: []interface{}{"01ABC", int32(-1), ""},
	}
	a, ok = ParseAnswer(dismissed)
	require.True(t, ok)
	assert.True(t, a.Dismissed())

	for _, sig := range []*dbus.Signal{
		nil,
		{Name: "org.example.Other", Body: good.Body},
		{Name: good.Name, Body: []interface{}{"01ABC", 1, "No"}},
		{Name: good.Name, Body: []interface{}{"01ABC"}},
	} {
		_, ok := ParseAnswer(sig)
		assert.False(t, ok)
	}
}

func TestWaitAnswerSkipsOtherPrompts(t *testing.T) {
	signals := make(chan *dbus.Signal, 3)
	signals <- &dbus.Signal{Name: "org.example.Noise"}
	signals <- &dbus.Signal{Name: DBusInterface + ".PromptAnswered", Body: []interface{}{"other", int32(0), "Yes"}}
	signals <- &dbus.Signal{Name: DBusInterface + ".PromptAnswered", Body: []interface{}{"mine", int32(2), "Maybe"}}

	a, err := waitAnswer(context.Background(), "mine", signals)
	require.NoError(t, err)
	assert.Equal(t, Answer{ID: "mine", Index: 2, Text: "Maybe"}, a)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = waitAnswer(ctx, "mine", make(chan *dbus.Signal))
	assert.ErrorIs(t, err, context.Canceled)

	closed := make(chan *dbus.Signal)
	close(closed)
	_, err = waitAnswer(context.Background(), "mine", closed)
	assert.Error(t, err)
}

func TestNewPromptEntry(t *testing.T) {
	created := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	e := NewPromptEntry(display.PromptInfo{ID: "01X", Message: "Hello", Answers: []string{"OK"}, CreatedAt: created})
	assert.Equal(t, PromptEntry{ID: "01X", Message: "Hello", Created: created.Unix()}, e)
	assert.True(t, e.CreatedAt().Equal(created))
}
