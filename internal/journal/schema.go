package journal

// Schema DDL for the journal database.
const (
	createEvents = `CREATE TABLE IF NOT EXISTS events (
    event_id TEXT PRIMARY KEY,
    recorded_at TEXT NOT NULL,
    kind TEXT NOT NULL,
    item_id INTEGER NOT NULL,
    borrower TEXT NOT NULL DEFAULT '',
    days INTEGER NOT NULL DEFAULT 0,
    fee_cents INTEGER NOT NULL DEFAULT 0,
    detail TEXT NOT NULL DEFAULT ''
);`

	idxEventsItem = `CREATE INDEX IF NOT EXISTS idx_events_item ON events(item_id);`
	idxEventsKind = `CREATE INDEX IF NOT EXISTS idx_events_kind ON events(kind);`
)

// schemaDDL lists every statement run when the journal is opened.
var schemaDDL = []string{
	createEvents,
	idxEventsItem,
	idxEventsKind,
}
