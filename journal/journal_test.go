package journal_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/joshyorko/btmgr/address"
	"github.com/joshyorko/btmgr/hamlet"
	"github.com/joshyorko/btmgr/journal"
	"github.com/joshyorko/btmgr/notify"
)

func notification(at time.Time, kind notify.EventKind, text string) notify.Notification {
	return notify.Notification{
		Event: notify.Event{
			Kind:    kind,
			Address: address.MustParse("/00:1A:7D:DA:71:13/11:22:33:44:55:66"),
			At:      at,
		},
		Source: "[Device] /00:1A:7D:DA:71:13/11:22:33:44:55:66 [Battery Tag]",
		Text:   text,
	}
}

func TestJournalCanBeCalled(t *testing.T) {
	must, wont := hamlet.Specifications(t)

	must.Equal("foo bar", journal.Unify("  foo  \t  \r\n   bar  "))

	sut, err := journal.Open(filepath.Join(t.TempDir(), "deep", "journal.db"))
	must.Nil(err)
	defer sut.Close()

	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	first := notification(start, notify.EventOnline, "ONLINE")
	second := notification(start.Add(time.Second), notify.EventConnected, "CONNECTED")

	inserted, err := sut.Record(first)
	must.Nil(err)
	must.True(inserted)
	inserted, err = sut.Record(first)
	must.Nil(err)
	wont.True(inserted)
	sut.Deliver(second)

	count, err := sut.Count()
	must.Nil(err)
	must.Equal(2, count)

	events, err := sut.Recent(10)
	must.Nil(err)
	must.Equal(2, len(events))
	must.Equal("CONNECTED", events[0].Kind)
	must.Equal(second.String(), events[0].Text)
	must.True(events[0].At.Equal(start.Add(time.Second)))

	latest, err := sut.Recent(1)
	must.Nil(err)
	must.Equal(1, len(latest))
}

func TestDigestSeparatesEvents(t *testing.T) {
	must, wont := hamlet.Specifications(t)

	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	online := notification(start, notify.EventOnline, "ONLINE")
	must.Equal(journal.Digest(online), journal.Digest(online))
	wont.Equal(journal.Digest(online), journal.Digest(notification(start, notify.EventOffline, "OFFLINE")))
	wont.Equal(journal.Digest(online), journal.Digest(notification(start.Add(time.Nanosecond), notify.EventOnline, "ONLINE")))
}

func TestClosedJournalRefusesWork(t *testing.T) {
	must, _ := hamlet.Specifications(t)

	sut, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"))
	must.Nil(err)
	must.Nil(sut.Close())
	must.Nil(sut.Close())

	_, err = sut.Recent(5)
	must.ErrorIs(err, journal.ErrNotOpen)
	_, err = sut.Record(notification(time.Now(), notify.EventOnline, "ONLINE"))
	must.ErrorIs(err, journal.ErrNotOpen)
}

func TestPurgeByAge(t *testing.T) {
	must, _ := hamlet.Specifications(t)

	sut, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"))
	must.Nil(err)
	defer sut.Close()

	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for step := 0; step < 4; step++ {
		sut.Deliver(notification(start.Add(time.Duration(step)*time.Hour), notify.EventRSSI, "RSSI"))
	}
	removed, err := sut.Purge(start.Add(2 * time.Hour))
	must.Nil(err)
	must.Equal(int64(2), removed)

	removed, err = sut.Purge(time.Time{})
	must.Nil(err)
	must.Equal(int64(2), removed)
	count, _ := sut.Count()
	must.Equal(0, count)
}
