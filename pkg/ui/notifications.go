package ui

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// NotificationSender delivers a desktop notification
type NotificationSender interface {
	Send(ctx context.Context, title, message string) error
}

// commandSender runs a platform notification tool
type commandSender struct {
	build func(title, message string) (string, []string)
}

func (c commandSender) Send(ctx context.Context, title, message string) error {
	name, args := c.build(title, message)
	return exec.CommandContext(ctx, name, args...).Run()
}

func linuxSender() NotificationSender {
	return commandSender{build: func(title, message string) (string, []string) {
		return "notify-send", []string{"--app-name=galleryscraper", title, message}
	}}
}

func macSender() NotificationSender {
	return commandSender{build: func(title, message string) (string, []string) {
		script := fmt.Sprintf(`display notification %q with title %q`, message, title)
		return "osascript", []string{"-e", script}
	}}
}

func windowsSender() NotificationSender {
	return commandSender{build: func(title, message string) (string, []string) {
		quote := func(s string) string { return "'" + strings.ReplaceAll(s, "'", "''") + "'" }
		script := fmt.Sprintf(`
[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType = WindowsRuntime] | Out-Null
$t = [Windows.UI.Notifications.ToastNotificationManager]::GetTemplateContent([Windows.UI.Notifications.ToastTemplateType]::ToastText02)
$n = $t.GetElementsByTagName('text')
$n.Item(0).AppendChild($t.CreateTextNode(%s)) | Out-Null
$n.Item(1).AppendChild($t.CreateTextNode(%s)) | Out-Null
[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier('galleryscraper').Show([Windows.UI.Notifications.ToastNotification]::new($t))
`, quote(title), quote(message))
		return "powershell", []string{"-NoProfile", "-NonInteractive", "-Command", script}
	}}
}

// Notifier prints a message and mirrors it to the desktop when enabled
type Notifier struct {
	printer *Printer
	sender  NotificationSender
	timeout time.Duration
}

// NewNotifier picks the sender for the current platform. When desktop is
// false, or the platform is unsupported, messages are only printed.
func NewNotifier(p *Printer, desktop bool) *Notifier {
	n := &Notifier{printer: p, timeout: 5 * time.Second}
	if !desktop {
		return n
	}

	switch runtime.GOOS {
	case "linux":
		n.sender = linuxSender()
	case "darwin":
		n.sender = macSender()
	case "windows":
		n.sender = windowsSender()
	}
	return n
}

// WithSender replaces the platform sender
func (n *Notifier) WithSender(s NotificationSender) *Notifier {
	n.sender = s
	return n
}

// SendSuccess reports a finished run
func (n *Notifier) SendSuccess(title, message string) {
	n.printer.PrintSuccess(title + ": " + message)
	n.send(title, message)
}

// SendError reports a failed run
func (n *Notifier) SendError(title, message string) {
	n.printer.PrintError(title, message)
	n.send(title, message)
}

func (n *Notifier) send(title, message string) {
	if n.sender == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()
	// a missing notify-send should never fail the run
	_ = n.sender.Send(ctx, title, message)
}
