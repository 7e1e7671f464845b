// Package notify is the client's user-facing notification sink, the CLI
// equivalent of the web app's toast pop-ups. The API client raises
// notifications here when it classifies a response; callers still receive
// the original error.
package notify

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Kind classifies user-facing notifications.
type Kind int

const (
	KindSessionExpired Kind = iota
	KindPermissionDenied
	KindServerError
	KindNetworkError
)

// Message returns the default user-facing text for the kind.
func (k Kind) Message() string {
	switch k {
	case KindSessionExpired:
		return "Session expired. Please sign in again."
	case KindPermissionDenied:
		return "You do not have permission to perform this action."
	case KindServerError:
		return "Server error. Please try again later."
	case KindNetworkError:
		return "Network error. Please check your connection."
	default:
		return "Something went wrong."
	}
}

// Notifier receives user-facing notifications. msg may be empty, in which
// case implementations should fall back to kind.Message().
type Notifier interface {
	Notify(ctx context.Context, kind Kind, msg string)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Kind, string) {}

// WriterNotifier prints notifications to a terminal writer.
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (n *WriterNotifier) Notify(_ context.Context, kind Kind, msg string) {
	if msg == "" {
		msg = kind.Message()
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "! %s\n", msg)
}
