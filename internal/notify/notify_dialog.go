//go:build (darwin && cgo) || (linux && cgo && gtk)

package notify

import (
	"io"

	"github.com/mattn/go-isatty"
	"github.com/sqweek/dialog"
)

// Default returns the platform notifier. A terminal on w gets plain text;
// otherwise, as when launched from a shortcut, failures open a native dialog
// and fall back to text on w.
func Default(w io.Writer) Notifier {
	text := WriterNotifier{W: w}
	if f, ok := w.(interface{ Fd() uintptr }); ok && isatty.IsTerminal(f.Fd()) {
		return text
	}
	return ModalNotifier{Show: showDialog, Fallback: text}
}

// showDialog panics when GTK has no display; ModalNotifier recovers it.
func showDialog(title, message string) error {
	dialog.Message("%s", message).Title(title).Error()
	return nil
}
