package common

const (
	Version = `v0.4.2`
)
