// Package notify sends desktop notifications through github.com/gen2brain/beeep.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gen2brain/beeep"
)

// Notification represents a notification to be displayed.
type Notification struct {
	Title   string
	Message string
	// URL is appended to the message so the user can copy it.
	URL string
}

// Notifier is the interface for desktop notification systems.
type Notifier interface {
	// Send sends a notification to the OS notification system.
	Send(ctx context.Context, notification Notification) error
	// Close cleans up notification system resources.
	Close() error
}

// Config contains notification system configuration.
type Config struct {
	// AppName is the application name shown in notifications
	AppName string
	// Timeout for a single Send
	Timeout time.Duration
}

// DefaultConfig returns default notification configuration.
func DefaultConfig() Config {
	return Config{
		AppName: "Image Viewer",
		Timeout: 5 * time.Second,
	}
}

var (
	ErrNotificationFailed = errors.New("failed to send notification")
	ErrTimeout            = errors.New("notification timeout")
)

// notifyFunc is replaced in tests.
var notifyFunc = func(title, message string) error {
	return beeep.Notify(title, message, "")
}

type beeepNotifier struct {
	config Config
}

// New creates a beeep-backed notifier.
func New(config Config) (Notifier, error) {
	if config.AppName == "" {
		return nil, fmt.Errorf("notify: app name is required")
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	beeep.AppName = config.AppName
	return &beeepNotifier{config: config}, nil
}

// Send delivers the notification or gives up after the configured timeout.
func (n *beeepNotifier) Send(ctx context.Context, notification Notification) error {
	title := strings.TrimSpace(notification.Title)
	if title == "" {
		title = n.config.AppName
	}
	message := notification.Message
	if notification.URL != "" {
		message = strings.TrimSpace(message + "\n" + notification.URL)
	}

	ctx, cancel := context.WithTimeout(ctx, n.config.Timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- notifyFunc(title, message) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%w: %w", ErrNotificationFailed, err)
		}
		return nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ctx.Err()
	}
}

func (n *beeepNotifier) Close() error {
	return nil
}
