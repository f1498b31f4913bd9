//go:build !linux

package operations

import "runtime"

func socketCheck(DiagnosticOptions) *DiagnosticCheck {
	return &DiagnosticCheck{
		Type:     "hci-socket",
		Category: categoryTransport,
		Status:   statusUnsupported,
		Message:  "No kernel bluetooth sockets on " + runtime.GOOS + ".",
	}
}
