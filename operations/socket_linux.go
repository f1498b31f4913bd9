//go:build linux

package operations

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// socketCheck opens and closes a raw HCI socket. Missing kernel support
// shows up as EAFNOSUPPORT.
func socketCheck(DiagnosticOptions) *DiagnosticCheck {
	check := &DiagnosticCheck{
		Type:     "hci-socket",
		Category: categoryTransport,
		Status:   statusOk,
	}
	fd, err := unix.Socket(unix.AF_BLUETOOTH, unix.SOCK_RAW|unix.SOCK_CLOEXEC, unix.BTPROTO_HCI)
	if err != nil {
		check.Status = statusWarning
		check.Message = fmt.Sprintf("Kernel bluetooth socket is not available: %v", err)
		return check
	}
	unix.Close(fd)
	check.Message = "Kernel bluetooth sockets are available."
	return check
}
