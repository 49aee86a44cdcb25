package qrstudio

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Notifier shows transient, non-blocking messages to the end user.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// LogNotifier writes notifications to a logger. Used when the host has no
// notification surface of its own, e.g. the command line.
type LogNotifier struct {
	Logger logrus.FieldLogger
}

func (n LogNotifier) Success(msg string) {
	n.Logger.WithField("notification", "success").Info(msg)
}

func (n LogNotifier) Error(msg string) {
	n.Logger.WithField("notification", "error").Error(msg)
}

// Notification is one message recorded by a Recorder.
type Notification struct {
	Success bool
	Message string
}

// Recorder keeps every notification in order. Safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Success(msg string) {
	r.add(Notification{Success: true, Message: msg})
}

func (r *Recorder) Error(msg string) {
	r.add(Notification{Message: msg})
}

func (r *Recorder) add(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append(r.items, n)
}

func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Notification(nil), r.items...)
}

// Last returns the most recent notification, if any.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.items) == 0 {
		return Notification{}, false
	}

	return r.items[len(r.items)-1], true
}
