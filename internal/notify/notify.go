package notify

import (
	"context"
	"os/exec"
	"strconv"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"
)

const (
	notificationsDest  = "org.freedesktop.Notifications"
	notificationsPath  = "/org/freedesktop/Notifications"
	notificationsIface = "org.freedesktop.Notifications"

	// AppName is reported to the notification daemon
	AppName = "mousetrap"
)

// callTimeout bounds a single delivery attempt
var callTimeout = 2 * time.Second

// Messages shown when confinement starts and stops
const (
	MessageOn  = "Mousetrap: ON"
	MessageOff = "Mousetrap: OFF"
)

// Notifier sends fire-and-forget desktop notifications.
// Implementations swallow delivery failures.
type Notifier interface {
	Notify(text string, timeout time.Duration)
}

// Nop discards notifications
type Nop struct{}

// Notify implements Notifier
func (Nop) Notify(string, time.Duration) {}

// Desktop delivers notifications over the session bus and falls back to
// the notify-send command when the bus is unavailable
type Desktop struct {
	log   zerolog.Logger
	sends []sendFunc
}

type sendFunc func(ctx context.Context, text string, timeout time.Duration) error

// New returns a Desktop notifier, or Nop when disabled
func New(enabled bool, logger zerolog.Logger) Notifier {
	if !enabled {
		return Nop{}
	}
	return &Desktop{log: logger, sends: []sendFunc{sendDBus, sendCommand}}
}

// Notify implements Notifier. Senders are tried in order until one
// succeeds; each gets its own callTimeout.
func (d *Desktop) Notify(text string, timeout time.Duration) {
	for i, send := range d.sends {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		err := send(ctx, text, timeout)
		cancel()
		if err == nil {
			return
		}
		d.log.Debug().Err(err).Int("sender", i).Msg("notification attempt failed")
	}
}

// sendDBus calls org.freedesktop.Notifications.Notify
func sendDBus(ctx context.Context, text string, timeout time.Duration) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return err
	}
	defer conn.Close()

	obj := conn.Object(notificationsDest, notificationsPath)
	// Notify(app_name s, replaces_id u, app_icon s, summary s, body s,
	//        actions as, hints a{sv}, expire_timeout i) -> id u
	var id uint32
	return obj.CallWithContext(ctx, notificationsIface+".Notify", 0,
		AppName,
		uint32(0),
		"input-mouse",
		text,
		"",
		[]string{},
		map[string]dbus.Variant{},
		int32(timeout.Milliseconds()),
	).Store(&id)
}

// sendCommand runs notify-send, as found on most desktops
func sendCommand(ctx context.Context, text string, timeout time.Duration) error {
	cmd := exec.CommandContext(ctx, "notify-send",
		"-t", strconv.FormatInt(timeout.Milliseconds(), 10),
		"--app-name="+AppName,
		text,
	)
	return cmd.Run()
}
