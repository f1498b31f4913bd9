package interactive

import (
	"sync"

	"github.com/joshyorko/btmgr/notify"
)

// Relay is a notification sink whose target is attached after the
// registry exists. Until something is attached, notifications are logged.
type Relay struct {
	sync.RWMutex
	target notify.Sink
}

func NewRelay() *Relay {
	return &Relay{}
}

func (r *Relay) Attach(target notify.Sink) {
	r.Lock()
	defer r.Unlock()
	r.target = target
}

func (r *Relay) Detach() {
	r.Attach(nil)
}

func (r *Relay) Deliver(notification notify.Notification) {
	r.RLock()
	target := r.target
	r.RUnlock()
	if target == nil {
		target = notify.LogSink
	}
	target.Deliver(notification)
}
