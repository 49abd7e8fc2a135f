package client

import (
	"fmt"
	"log"
	"strings"
)

type NoticeKind string

const (
	NoticeInfo    NoticeKind = "info"
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notifier receives transient human-readable notices. Fire and forget: no
// acknowledgement, no queue, display duration is the presenter's business.
type Notifier interface {
	Notify(kind NoticeKind, message string)
}

// LogNotifier writes notices to the process log.
type LogNotifier struct{}

func (LogNotifier) Notify(kind NoticeKind, message string) {
	log.Printf("[%s] %s", kind, message)
}

// NopNotifier discards every notice.
type NopNotifier struct{}

func (NopNotifier) Notify(NoticeKind, string) {}

func notifyInserted(n Notifier, entity string) {
	n.Notify(NoticeSuccess, fmt.Sprintf("New %s added", entity))
}

func notifyUpdated(n Notifier, entity string) {
	n.Notify(NoticeInfo, fmt.Sprintf("%s updated", capitalized(entity)))
}

func notifyDeleted(n Notifier, entity string) {
	n.Notify(NoticeInfo, fmt.Sprintf("A %s was removed", entity))
}

func notifyFetchFailed(n Notifier, entityPlural string) {
	n.Notify(NoticeError, fmt.Sprintf("Failed to fetch %s", entityPlural))
}

// NotifyMutationFailed reports a failed create/update/delete, e.g.
// NotifyMutationFailed(n, "delete", "property").
func NotifyMutationFailed(n Notifier, action, entity string) {
	n.Notify(NoticeError, fmt.Sprintf("Failed to %s %s", action, entity))
}

func capitalized(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
