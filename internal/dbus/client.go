package dbus

import (
	"context"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
)

// Client calls the OSD service of a running daemon.
type Client struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// NewClient connects to the session bus.
func NewClient() (*Client, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return NewClientOn(conn), nil
}

// NewClientOn creates a client on an existing connection.
func NewClientOn(conn *dbus.Conn) *Client {
	return &Client{
		conn: conn,
		obj:  conn.Object(DBusBusName, DBusPath),
	}
}

// Running reports whether a daemon owns the bus name.
func (c *Client) Running(ctx context.Context) (bool, error) {
	var has bool
	err := c.conn.BusObject().CallWithContext(ctx, "org.freedesktop.DBus.NameHasOwner", 0, DBusBusName).Store(&has)
	if err != nil {
		return false, fmt.Errorf("failed to query bus name: %w", err)
	}
	return has, nil
}

func (c *Client) call(ctx context.Context, method string, args ...interface{}) *dbus.Call {
	return c.obj.CallWithContext(ctx, DBusInterface+"."+method, 0, args...)
}

// ShowPopup shows text in the daemon's popup.
func (c *Client) ShowPopup(ctx context.Context, text string, delay time.Duration) error {
	ms := uint32(max(delay.Milliseconds(), 0))
	if err := c.call(ctx, "ShowPopup", text, ms).Err; err != nil {
		return fmt.Errorf("failed to show popup: %w", err)
	}
	return nil
}

// HidePopup hides the daemon's popup.
func (c *Client) HidePopup(ctx context.Context) error {
	if err := c.call(ctx, "HidePopup").Err; err != nil {
		return fmt.Errorf("failed to hide popup: %w", err)
	}
	return nil
}

// ShowDesktop shows the desktop pager.
func (c *Client) ShowDesktop(ctx context.Context, desktop, count uint32) error {
	if err := c.call(ctx, "ShowDesktop", desktop, count).Err; err != nil {
		return fmt.Errorf("failed to show desktop: %w", err)
	}
	return nil
}

// Prompt opens a prompt and returns its id.
func (c *Client) Prompt(ctx context.Context, message string, answers []string) (string, error) {
	if answers == nil {
		answers = []string{}
	}
	var id string
	if err := c.call(ctx, "Prompt", message, answers).Store(&id); err != nil {
		return "", fmt.Errorf("failed to open prompt: %w", err)
	}
	return id, nil
}

// ClosePrompt dismisses a prompt.
func (c *Client) ClosePrompt(ctx context.Context, id string) error {
	if err := c.call(ctx, "ClosePrompt", id).Err; err != nil {
		return fmt.Errorf("failed to close prompt: %w", err)
	}
	return nil
}

// ListPrompts lists the open prompts.
func (c *Client) ListPrompts(ctx context.Context) ([]PromptEntry, error) {
	var entries []PromptEntry
	if err := c.call(ctx, "ListPrompts").Store(&entries); err != nil {
		return nil, fmt.Errorf("failed to list prompts: %w", err)
	}
	return entries, nil
}

// RunAction runs a resize action on the active window.
func (c *Client) RunAction(ctx context.Context, name string, options map[string]string) error {
	if options == nil {
		options = map[string]string{}
	}
	if err := c.call(ctx, "RunAction", name, options).Err; err != nil {
		return fmt.Errorf("failed to run action %s: %w", name, err)
	}
	return nil
}

// Ask opens a prompt and waits until it is answered or dismissed.
func (c *Client) Ask(ctx context.Context, message string, answers []string) (Answer, error) {
	match := []dbus.MatchOption{
		dbus.WithMatchObjectPath(DBusPath),
		dbus.WithMatchInterface(DBusInterface),
		dbus.WithMatchMember("PromptAnswered"),
	}
	if err := c.conn.AddMatchSignalContext(ctx, match...); err != nil {
		return Answer{}, fmt.Errorf("failed to subscribe to answers: %w", err)
	}
	defer func() { _ = c.conn.RemoveMatchSignal(match...) }()

	signals := make(chan *dbus.Signal, 8)
	c.conn.Signal(signals)
	defer c.conn.RemoveSignal(signals)

	// subscribe first so a quick answer is not missed
	id, err := c.Prompt(ctx, message, answers)
	if err != nil {
		return Answer{}, err
	}
	return waitAnswer(ctx, id, signals)
}

func waitAnswer(ctx context.Context, id string, signals <-chan *dbus.Signal) (Answer, error) {
	for {
		select {
		case <-ctx.Done():
			return Answer{}, ctx.Err()
		case sig, ok := <-signals:
			if !ok {
				return Answer{}, fmt.Errorf("connection closed waiting for prompt %s", id)
			}
			if a, ok := ParseAnswer(sig); ok && a.ID == id {
				return a, nil
			}
		}
	}
}
