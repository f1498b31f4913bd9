package notify

import (
	"github.com/joshyorko/btmgr/common"
)

type Sink interface {
	Deliver(Notification)
}

type SinkFunc func(Notification)

func (it SinkFunc) Deliver(notification Notification) {
	it(notification)
}

type fanout []Sink

func (it fanout) Deliver(notification Notification) {
	for _, sink := range it {
		sink.Deliver(notification)
	}
}

// Fanout delivers every notification to all non nil sinks, in order.
func Fanout(sinks ...Sink) Sink {
	result := make(fanout, 0, len(sinks))
	for _, sink := range sinks {
		if sink != nil {
			result = append(result, sink)
		}
	}
	return result
}

// LogSink writes notifications as log lines.
var LogSink = SinkFunc(func(notification Notification) {
	common.Log("%s", notification)
})
