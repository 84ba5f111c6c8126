// Package journal keeps an append-only audit trail of lending activity in a
// SQLite database. The journal is never used to rebuild the catalog.
package journal

import (
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

// FileName is the database file created inside the data directory.
const FileName = "journal.db"

// Kind names the transition an event records.
type Kind string

// Event kinds.
const (
	KindAdd           Kind = "add"
	KindLend          Kind = "lend"
	KindRenew         Kind = "renew"
	KindReturn        Kind = "return"
	KindRelend        Kind = "relend"
	KindWaitlistJoin  Kind = "waitlist_join"
	KindWaitlistLeave Kind = "waitlist_leave"
	KindImport        Kind = "import"
)

// Event is one journal entry. ID and At are assigned by Record.
type Event struct {
	ID       string    `json:"id"`
	At       time.Time `json:"at"`
	Kind     Kind      `json:"kind"`
	ItemID   int       `json:"item_id"`
	Borrower string    `json:"borrower,omitempty"`
	Days     int       `json:"days,omitempty"`
	Fee      float64   `json:"fee,omitempty"`
	Detail   string    `json:"detail,omitempty"`
}

// Journal appends events to journal.db.
type Journal struct {
	mu       sync.Mutex
	attached bool
	db       *sql.DB
	path     string
	now      func() time.Time
}

// Open creates dataDir if needed and opens (or creates) the journal
// database inside it.
func Open(dataDir string) (*Journal, error) {
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating %s: %w", types.ErrIO, dataDir, err)
	}

	path := filepath.Join(dataDir, FileName)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", types.ErrIO, path, err)
	}
	db.SetMaxOpenConns(1)

	for _, stmt := range schemaDDL {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: initializing %s: %w", types.ErrIO, path, err)
		}
	}

	return &Journal{attached: true, db: db, path: path, now: time.Now}, nil
}

// Path returns the database file path.
func (j *Journal) Path() string {
	return j.path
}

// Record appends e, assigning its ID and timestamp, and returns the stored
// event.
func (j *Journal) Record(e Event) (Event, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.attached {
		return Event{}, types.ErrDetached
	}

	e.ID = generateUUID()
	e.At = j.now().UTC()

	_, err := j.db.Exec(
		`INSERT INTO events (event_id, recorded_at, kind, item_id, borrower, days, fee_cents, detail)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.At.Format(time.RFC3339Nano), string(e.Kind), e.ItemID,
		e.Borrower, e.Days, toCents(e.Fee), e.Detail,
	)
	if err != nil {
		return Event{}, fmt.Errorf("%w: recording %s event: %w", types.ErrIO, e.Kind, err)
	}
	return e, nil
}

// History returns the events for itemID oldest first, or every event when
// itemID is 0.
func (j *Journal) History(itemID int) ([]Event, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.attached {
		return nil, types.ErrDetached
	}

	query := `SELECT event_id, recorded_at, kind, item_id, borrower, days, fee_cents, detail FROM events`
	var args []any
	if itemID != 0 {
		query += ` WHERE item_id = ?`
		args = append(args, itemID)
	}
	query += ` ORDER BY rowid`

	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying history: %w", types.ErrIO, err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			e     Event
			at    string
			kind  string
			cents int64
		)
		if err := rows.Scan(&e.ID, &at, &kind, &e.ItemID, &e.Borrower, &e.Days, &cents, &e.Detail); err != nil {
			return nil, fmt.Errorf("%w: scanning event: %w", types.ErrIO, err)
		}
		e.At, err = time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, fmt.Errorf("%w: event %s: recorded_at: %v", types.ErrCorruptStore, e.ID, err)
		}
		e.Kind = Kind(kind)
		e.Fee = float64(cents) / 100
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading history: %w", types.ErrIO, err)
	}
	return events, nil
}

// FeesCollected sums the fees of every recorded return.
func (j *Journal) FeesCollected() (float64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.attached {
		return 0, types.ErrDetached
	}

	var cents int64
	err := j.db.QueryRow(
		`SELECT COALESCE(SUM(fee_cents), 0) FROM events WHERE kind = ?`, string(KindReturn),
	).Scan(&cents)
	if err != nil {
		return 0, fmt.Errorf("%w: summing fees: %w", types.ErrIO, err)
	}
	return float64(cents) / 100, nil
}

// Close releases the database. Close is idempotent; afterwards every
// operation returns ErrDetached.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.attached {
		return nil
	}
	j.attached = false
	if err := j.db.Close(); err != nil {
		return fmt.Errorf("%w: closing %s: %w", types.ErrIO, j.path, err)
	}
	return nil
}

// generateUUID generates a UUID v7 so ids sort by creation time.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}

func toCents(v float64) int64 {
	return int64(math.Floor(v*100 + 0.5 + 1e-9))
}
