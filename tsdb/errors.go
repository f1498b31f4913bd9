package tsdb

import "errors"

var (
	ErrDisabled         = errors.New("influxdb sink is disabled")
	ErrConnectionFailed = errors.New("influxdb connection failed")
)
