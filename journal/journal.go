// Package journal keeps delivered notifications in a local SQLite file so
// that the history verb can show them after the fact.
package journal

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/joshyorko/btmgr/common"
	"github.com/joshyorko/btmgr/notify"
)

const (
	directoryMode = 0o750
	busyTimeoutMs = 5000
	openTimeout   = 5 * time.Second

	schema = `CREATE TABLE IF NOT EXISTS notifications (
	digest  TEXT PRIMARY KEY,
	at      INTEGER NOT NULL,
	address TEXT NOT NULL,
	kind    TEXT NOT NULL,
	text    TEXT NOT NULL,
	value   TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS notifications_at ON notifications (at);`
)

var (
	ErrNotOpen = errors.New("journal is not open")

	spacePattern = regexp.MustCompile(`\s+`)
)

type Entry struct {
	Digest  string
	At      time.Time
	Address string
	Kind    string
	Text    string
	Value   string
}

func (it Entry) String() string {
	return fmt.Sprintf("%s %s: %s", it.At.Format("2006-01-02 15:04:05.000"), it.Address, it.Text)
}

type Journal struct {
	db   *sql.DB
	path string
}

// Unify collapses all whitespace runs into single spaces.
func Unify(value string) string {
	return strings.TrimSpace(spacePattern.ReplaceAllString(value, " "))
}

// Digest identifies an event; the same event delivered twice has the same
// digest.
func Digest(notification notify.Notification) string {
	return common.Digest(
		strconv.FormatInt(notification.At.UnixNano(), 10),
		notification.Address.String(),
		notification.Kind.String(),
		strconv.Itoa(int(notification.RSSI)),
		strconv.Itoa(notification.Services),
		hex.EncodeToString(notification.Value))
}

func Open(filename string) (*Journal, error) {
	fullpath := common.ExpandPath(filename)
	err := os.MkdirAll(filepath.Dir(fullpath), directoryMode)
	if err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}
	connection := fmt.Sprintf("file:%s?_busy_timeout=%d&_journal_mode=WAL", fullpath, busyTimeoutMs)
	db, err := sql.Open("sqlite3", connection)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), openTimeout)
	defer cancel()
	_, err = db.ExecContext(ctx, schema)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("preparing journal schema: %w", err)
	}
	common.Debug("Journal %q is open.", fullpath)
	return &Journal{db: db, path: fullpath}, nil
}

func (it *Journal) Path() string {
	return it.path
}

// Record stores the notification and tells if it was new.
func (it *Journal) Record(notification notify.Notification) (bool, error) {
	if it == nil || it.db == nil {
		return false, ErrNotOpen
	}
	result, err := it.db.Exec(
		`INSERT OR IGNORE INTO notifications (digest, at, address, kind, text, value) VALUES (?, ?, ?, ?, ?, ?)`,
		Digest(notification),
		notification.At.UnixNano(),
		notification.Address.String(),
		notification.Kind.String(),
		Unify(notification.String()),
		hex.EncodeToString(notification.Value))
	if err != nil {
		return false, fmt.Errorf("recording notification: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (it *Journal) Deliver(notification notify.Notification) {
	_, err := it.Record(notification)
	common.Uncritical("journal", err)
}

// Recent returns at most limit entries, newest first.
func (it *Journal) Recent(limit int) ([]Entry, error) {
	if it == nil || it.db == nil {
		return nil, ErrNotOpen
	}
	if limit < 1 {
		limit = 1
	}
	rows, err := it.db.Query(
		`SELECT digest, at, address, kind, text, value FROM notifications ORDER BY at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying journal: %w", err)
	}
	defer rows.Close()

	result := make([]Entry, 0, limit)
	for rows.Next() {
		var entry Entry
		var at int64
		err = rows.Scan(&entry.Digest, &at, &entry.Address, &entry.Kind, &entry.Text, &entry.Value)
		if err != nil {
			return nil, fmt.Errorf("reading journal: %w", err)
		}
		entry.At = time.Unix(0, at)
		result = append(result, entry)
	}
	return result, rows.Err()
}

func (it *Journal) Count() (int, error) {
	if it == nil || it.db == nil {
		return 0, ErrNotOpen
	}
	var count int
	err := it.db.QueryRow(`SELECT COUNT(*) FROM notifications`).Scan(&count)
	return count, err
}

// Purge removes entries older than cutoff. Zero cutoff removes everything.
func (it *Journal) Purge(cutoff time.Time) (int64, error) {
	if it == nil || it.db == nil {
		return 0, ErrNotOpen
	}
	limit := int64(math.MaxInt64)
	if !cutoff.IsZero() {
		limit = cutoff.UnixNano()
	}
	result, err := it.db.Exec(`DELETE FROM notifications WHERE at < ?`, limit)
	if err != nil {
		return 0, fmt.Errorf("purging journal: %w", err)
	}
	return result.RowsAffected()
}

func (it *Journal) Close() error {
	if it == nil || it.db == nil {
		return nil
	}
	err := it.db.Close()
	it.db = nil
	return err
}
