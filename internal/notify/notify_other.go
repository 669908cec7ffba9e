//go:build !windows && !((darwin && cgo) || (linux && cgo && gtk))

package notify

import "io"

// Default returns the platform notifier: plain text on w. Linux builds get a
// GTK dialog with -tags gtk.
func Default(w io.Writer) Notifier {
	return WriterNotifier{W: w}
}
