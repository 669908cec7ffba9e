// Package notify presents a conversion failure to the user. It is the only
// user-visible output of a failed run; success is silent.
package notify

import (
	"fmt"
	"io"
	"strings"
)

// Title heads every failure notice.
const Title = "md2png error"

// Notifier shows a human-readable failure message.
type Notifier interface {
	Failure(message string) error
}

// WriterNotifier prints failures as text, one notice per call.
type WriterNotifier struct {
	W io.Writer
}

// Failure writes "md2png error: <message>" followed by a newline.
func (n WriterNotifier) Failure(message string) error {
	_, err := fmt.Fprintf(n.W, "%s: %s\n", Title, strings.TrimRight(message, "\n"))
	return err
}

// ModalNotifier presents failures in a blocking native dialog. When the
// dialog cannot be shown (no display, headless session) the message goes to
// Fallback, so a failure is never lost.
type ModalNotifier struct {
	Show     func(title, message string) error
	Fallback Notifier
}

// Failure shows message and blocks until the user dismisses it.
func (n ModalNotifier) Failure(message string) error {
	if err := n.show(strings.TrimRight(message, "\n")); err == nil {
		return nil
	}
	return n.Fallback.Failure(message)
}

// show converts a panicking dialog backend into an error.
func (n ModalNotifier) show(message string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("dialog: %v", r)
		}
	}()
	return n.Show(Title, message)
}

// Compile-time interface checks.
var (
	_ Notifier = WriterNotifier{}
	_ Notifier = ModalNotifier{}
	_ Notifier = (*Recorder)(nil)
)

// Recorder keeps failures in memory, for callers that defer presentation.
type Recorder struct {
	Messages []string
}

// Failure records message.
func (r *Recorder) Failure(message string) error {
	r.Messages = append(r.Messages, message)
	return nil
}
