//go:build !windows

package common

const (
	defaultHomeLocation = "$HOME/.btmgr"
)
