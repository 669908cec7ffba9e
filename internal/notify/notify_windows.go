//go:build windows

package notify

import (
	"io"

	"golang.org/x/sys/windows"
)

// messageBox shows an error dialog and blocks until it is dismissed.
func messageBox(title, message string) error {
	text, err := windows.UTF16PtrFromString(message)
	if err != nil {
		return err
	}
	caption, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return err
	}
	_, err = windows.MessageBox(0, text, caption,
		windows.MB_OK|windows.MB_ICONERROR|windows.MB_SETFOREGROUND|windows.MB_TOPMOST)
	return err
}

// Default returns the platform notifier: a message box on Windows, where the
// binary usually runs without a console. Text on w is the fallback.
func Default(w io.Writer) Notifier {
	return ModalNotifier{Show: messageBox, Fallback: WriterNotifier{W: w}}
}
