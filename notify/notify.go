// Package notify supplies the notifier collaborator contract
// (original_source/notify/torcnotifier.h) spec.md §1 leaves out of scope,
// adapted from the teacher's services/bridge transport-config pattern: a
// pluggable factory registry keyed by a type tag, decoding a JSON config
// blob into the concrete notifier, with one working implementation (Log,
// mirroring torclognotifier.cpp) and stub config types for the
// out-of-scope network notifiers so an HTTP/websocket layer has somewhere
// real to attach.
package notify

import (
	"encoding/json"
	"fmt"
	"sync"

	"torc/telemetry"
)

// Notification is the payload a Notifier receives — torcnotifier.h's
// QVariantMap with NOTIFICATION_TITLE/NOTIFICATION_BODY keys narrowed to a
// concrete struct.
type Notification struct {
	Title string
	Body  string
}

// Notifier is the slot every notifier implements — torcnotifier.h's
// virtual void Notify(const QVariantMap&).
type Notifier interface {
	Notify(n Notification)
}

// Factory builds a Notifier from its decoded JSON config.
type Factory func(raw json.RawMessage) (Notifier, error)

var (
	mu       sync.RWMutex
	registry = map[string]Factory{}
)

// Register adds a notifier factory under a type tag ("log", "pushbullet",
// "thingspeak", "iotplotter"), mirroring TorcNotifierFactory's chained
// Create dispatch but as a map rather than a linked list of factories.
func Register(tag string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	registry[tag] = f
}

// New constructs the notifier registered under tag from raw config.
func New(tag string, raw json.RawMessage) (Notifier, error) {
	mu.RLock()
	f, ok := registry[tag]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("notify: unknown notifier type %q", tag)
	}
	return f(raw)
}

func init() {
	Register("log", newLogNotifier)
}

// LogNotifier logs every notification through telemetry.Logger at Info
// level, the direct equivalent of torclognotifier.cpp's
// LOG(VB_GENERAL, LOG_INFO, "Notify: %1"). It requires no config, matching
// the original's doc note "requires no additional parameters". The one built
// through the "log" registry tag has no Logger and prints to stdout instead.
type LogNotifier struct {
	log telemetry.Logger
}

// NewLogNotifier constructs a LogNotifier directly, for callers wiring one
// up without going through the tag-keyed registry.
func NewLogNotifier(log telemetry.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func newLogNotifier(json.RawMessage) (Notifier, error) {
	return &LogNotifier{log: nil}, nil
}

func (n *LogNotifier) Notify(note Notification) {
	body := note.Body
	if body == "" {
		body = "Unknown"
	}
	if n.log != nil {
		n.log.Infof("Notify: %s", body)
		return
	}
	fmt.Printf("Notify: %s\n", body)
}
