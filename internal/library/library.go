// Package library runs one catalog session: it owns the catalog, the loan
// policy, the JSON store and the activity journal, and executes the intents
// issued by the command line. A Library is not safe for concurrent use.
package library

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/mesh-intelligence/shelf/internal/catalog"
	"github.com/mesh-intelligence/shelf/internal/journal"
	"github.com/mesh-intelligence/shelf/internal/lending"
	"github.com/mesh-intelligence/shelf/internal/search"
	"github.com/mesh-intelligence/shelf/internal/store"
	"github.com/mesh-intelligence/shelf/pkg/types"
)

// ErrNotSaved reports that an intent took effect in memory but autosave
// failed. The session stays dirty; Save or Close writes it again.
var ErrNotSaved = errors.New("change applied but not saved")

// Library is an open catalog session.
type Library struct {
	attached  bool
	dirty     bool
	config    types.Config
	catalog   *catalog.Catalog
	policy    *lending.Policy
	store     *store.Store
	journal   *journal.Journal // nil when the journal is disabled
	dailyRate float64
	log       *slog.Logger
	now       func() time.Time
}

// Option configures Open.
type Option func(*Library)

// WithLogger sets the session logger. The default discards everything.
func WithLogger(log *slog.Logger) Option {
	return func(l *Library) {
		if log != nil {
			l.log = log
		}
	}
}

// WithClock replaces the wall clock used for dates and timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Library) {
		if now != nil {
			l.now = now
		}
	}
}

// Open validates config, loads the catalog from the store in the data
// directory and, when enabled, opens the journal.
func Open(config types.Config, opts ...Option) (*Library, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrValidation, err)
	}

	l := &Library{
		config:    config,
		dailyRate: config.DailyRate,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	l.policy = lending.NewPolicy(config.DefaultLoanDays, config.MaxLoanDays)
	l.policy.Clock = l.now
	l.store = store.New(filepath.Join(dataDir, config.StoreFile))

	c, err := l.store.Load(catalog.WithClock(l.now))
	if err != nil {
		return nil, err
	}
	l.catalog = c

	if config.Journal {
		j, err := journal.Open(dataDir)
		if err != nil {
			return nil, err
		}
		l.journal = j
	}

	l.attached = true
	l.log.Debug("library opened", "store", l.store.Path(), "items", c.Len(), "journal", config.Journal)
	return l, nil
}

// StorePath returns the path of the catalog document.
func (l *Library) StorePath() string {
	return l.store.Path()
}

// Dirty reports whether the catalog has changes that are not yet saved.
func (l *Library) Dirty() bool {
	return l.dirty
}

// DailyRate returns the overdue fee charged per day.
func (l *Library) DailyRate() float64 {
	return l.dailyRate
}

// SetDailyRate changes the overdue fee for the rest of the session.
func (l *Library) SetDailyRate(rate float64) error {
	if !l.attached {
		return types.ErrDetached
	}
	if rate < 0 {
		return fmt.Errorf("%w: daily rate must not be negative, got %v", types.ErrValidation, rate)
	}
	l.dailyRate = rate
	l.log.Info("daily rate changed", "rate", rate)
	return nil
}

// DefaultLoanDays returns the configured loan length.
func (l *Library) DefaultLoanDays() int {
	return l.config.DefaultLoanDays
}

// Today returns the session's current calendar date.
func (l *Library) Today() types.Date {
	return types.Today(l.now())
}

// Counts returns the catalog totals.
func (l *Library) Counts() (catalog.Counts, error) {
	if !l.attached {
		return catalog.Counts{}, types.ErrDetached
	}
	return l.catalog.Counts(), nil
}

// Get returns a copy of the item with the given id.
func (l *Library) Get(id int) (types.Item, error) {
	if !l.attached {
		return types.Item{}, types.ErrDetached
	}
	it, err := l.catalog.Find(id)
	if err != nil {
		return types.Item{}, err
	}
	return it.Clone(), nil
}

// ListAll returns every item in insertion order.
func (l *Library) ListAll() ([]types.Item, error) {
	if !l.attached {
		return nil, types.ErrDetached
	}
	return l.catalog.ListAll(), nil
}

// ListAvailable returns the items that can be lent right now.
func (l *Library) ListAvailable() ([]types.Item, error) {
	if !l.attached {
		return nil, types.ErrDetached
	}
	return l.catalog.ListAvailable(), nil
}

// Search matches query against titles and authors.
func (l *Library) Search(query string, opts search.Options) ([]types.Item, error) {
	if !l.attached {
		return nil, types.ErrDetached
	}
	return search.SearchWith(l.catalog.ListAll(), query, opts), nil
}

// SearchRegex matches a regular expression against normalized titles and
// authors.
func (l *Library) SearchRegex(pattern string, availability search.Availability) ([]types.Item, error) {
	if !l.attached {
		return nil, types.ErrDetached
	}
	return search.Regex(l.catalog.ListAll(), pattern, availability)
}

// Add creates a new available item.
func (l *Library) Add(title, author string) (types.Item, error) {
	if !l.attached {
		return types.Item{}, types.ErrDetached
	}
	it, err := l.catalog.Add(title, author)
	if err != nil {
		return types.Item{}, err
	}
	l.log.Info("item added", "id", it.ID, "title", it.Title, "author", it.Author)
	l.record(journal.Event{Kind: journal.KindAdd, ItemID: it.ID, Detail: it.Title + " / " + it.Author})
	return it.Clone(), l.changed()
}

// Lend lends item id to borrower for days days.
func (l *Library) Lend(id int, borrower string, days int) (types.Item, error) {
	if !l.attached {
		return types.Item{}, types.ErrDetached
	}
	it, err := l.catalog.Find(id)
	if err != nil {
		return types.Item{}, err
	}
	if err := l.policy.Lend(it, borrower, days); err != nil {
		return types.Item{}, err
	}
	l.log.Info("item lent", "id", id, "borrower", it.Loan.Borrower, "due", it.Loan.DueOn.String())
	l.record(journal.Event{Kind: journal.KindLend, ItemID: id, Borrower: it.Loan.Borrower, Days: days})
	return it.Clone(), l.changed()
}

// JoinWaitlist queues borrower for a lent item and returns the 1-based
// position.
func (l *Library) JoinWaitlist(id int, borrower string) (int, error) {
	if !l.attached {
		return 0, types.ErrDetached
	}
	it, err := l.catalog.Find(id)
	if err != nil {
		return 0, err
	}
	before := len(it.Waitlist)
	pos, err := lending.Join(it, borrower)
	if err != nil {
		return 0, err
	}
	if len(it.Waitlist) == before {
		return pos, nil
	}
	l.log.Info("waitlist joined", "id", id, "borrower", borrower, "position", pos)
	l.record(journal.Event{Kind: journal.KindWaitlistJoin, ItemID: id, Borrower: it.Waitlist[pos-1]})
	return pos, l.changed()
}

// LeaveWaitlist removes borrower from the item's wait-list. It reports
// false when borrower was not queued.
func (l *Library) LeaveWaitlist(id int, borrower string) (bool, error) {
	if !l.attached {
		return false, types.ErrDetached
	}
	it, err := l.catalog.Find(id)
	if err != nil {
		return false, err
	}
	if !lending.Leave(it, borrower) {
		return false, nil
	}
	l.log.Info("waitlist left", "id", id, "borrower", borrower)
	l.record(journal.Event{Kind: journal.KindWaitlistLeave, ItemID: id, Borrower: borrower})
	return true, l.changed()
}

// Renew extends the due date of a lent item by extraDays.
func (l *Library) Renew(id int, extraDays int) (types.Item, error) {
	if !l.attached {
		return types.Item{}, types.ErrDetached
	}
	it, err := l.catalog.Find(id)
	if err != nil {
		return types.Item{}, err
	}
	if err := l.policy.Renew(it, extraDays); err != nil {
		return types.Item{}, err
	}
	l.log.Info("item renewed", "id", id, "due", it.Loan.DueOn.String())
	l.record(journal.Event{Kind: journal.KindRenew, ItemID: id, Borrower: it.Loan.Borrower, Days: extraDays})
	return it.Clone(), l.changed()
}

// ListOverdue reports every overdue item and its fee as of today.
func (l *Library) ListOverdue() (lending.OverdueReport, error) {
	if !l.attached {
		return lending.OverdueReport{}, types.ErrDetached
	}
	return l.policy.ListOverdue(l.catalog.ListAll(), l.Today(), l.dailyRate), nil
}

// Return closes the loan on item id as of today. When someone is waiting,
// the item is lent to them in the same step.
func (l *Library) Return(id int) (lending.Receipt, error) {
	if !l.attached {
		return lending.Receipt{}, types.ErrDetached
	}
	it, err := l.catalog.Find(id)
	if err != nil {
		return lending.Receipt{}, err
	}
	r, err := l.policy.Return(it, l.Today(), l.dailyRate)
	if err != nil {
		return lending.Receipt{}, err
	}
	l.log.Info("item returned", "id", id, "borrower", r.Borrower, "days_late", r.DaysLate, "fee", r.Fee)
	l.record(journal.Event{Kind: journal.KindReturn, ItemID: id, Borrower: r.Borrower, Days: r.DaysLate, Fee: r.Fee})
	if r.Relent() {
		l.log.Info("item handed to waitlist", "id", id, "borrower", r.RelentTo, "due", r.NewDueOn.String())
		l.record(journal.Event{Kind: journal.KindRelend, ItemID: id, Borrower: r.RelentTo, Days: l.config.DefaultLoanDays})
	}
	return r, l.changed()
}

// ExportCSV writes every item to path and returns the number of rows.
func (l *Library) ExportCSV(path string) (int, error) {
	if !l.attached {
		return 0, types.ErrDetached
	}
	items := l.catalog.ListAll()
	if err := store.ExportCSVFile(path, items); err != nil {
		return 0, err
	}
	l.log.Info("catalog exported", "path", path, "rows", len(items))
	return len(items), nil
}

// ImportCSV adds the title/author rows of the CSV file at path.
func (l *Library) ImportCSV(path string) (store.ImportResult, error) {
	if !l.attached {
		return store.ImportResult{}, types.ErrDetached
	}
	res, err := store.ImportCSVFile(l.catalog, path)
	if err != nil {
		return res, err
	}
	l.log.Info("catalog imported", "path", path, "added", res.Added, "duplicates", res.Duplicates, "invalid", res.Invalid)
	if res.Added == 0 {
		return res, nil
	}
	l.record(journal.Event{Kind: journal.KindImport, Days: res.Added, Detail: filepath.Base(path)})
	return res, l.changed()
}

// Save writes the catalog to the store.
func (l *Library) Save() error {
	if !l.attached {
		return types.ErrDetached
	}
	return l.save()
}

// Load replaces the in-memory catalog with the stored one. On failure the
// current catalog is kept unchanged.
func (l *Library) Load() error {
	if !l.attached {
		return types.ErrDetached
	}
	c, err := l.store.Load(catalog.WithClock(l.now))
	if err != nil {
		l.log.Warn("load failed", "path", l.store.Path(), "err", err)
		return err
	}
	l.catalog = c
	l.dirty = false
	l.log.Info("catalog loaded", "path", l.store.Path(), "items", c.Len())
	return nil
}

// Seed adds the demo items that are not already in the catalog and lends
// "1984" to Zey two days overdue. It returns the items it added.
func (l *Library) Seed() ([]types.Item, error) {
	if !l.attached {
		return nil, types.ErrDetached
	}

	var added []types.Item
	for _, s := range seedItems {
		if l.catalog.FindDuplicate(s.title, s.author) != nil {
			continue
		}
		it, err := l.catalog.Add(s.title, s.author)
		if err != nil {
			return added, err
		}
		if s.borrower != "" {
			days := s.loanDays
			if l.config.MaxLoanDays > 0 && days > l.config.MaxLoanDays {
				days = l.config.MaxLoanDays
			}
			from := l.Today().AddDays(s.dueIn - days)
			if err := l.policy.LendOn(it, s.borrower, days, from); err != nil {
				return added, err
			}
		}
		l.record(journal.Event{Kind: journal.KindAdd, ItemID: it.ID, Detail: it.Title + " / " + it.Author})
		added = append(added, it.Clone())
	}
	if len(added) == 0 {
		return nil, nil
	}
	l.log.Info("catalog seeded", "added", len(added))
	return added, l.changed()
}

type seedItem struct {
	title, author string
	borrower      string
	loanDays      int
	dueIn         int
}

var seedItems = []seedItem{
	{title: "Dune", author: "Frank Herbert"},
	{title: "Kürk Mantolu Madonna", author: "Sabahattin Ali"},
	{title: "1984", author: "George Orwell", borrower: "Zey", loanDays: 14, dueIn: -2},
}

// History returns the journal events for item id, or all events when id is
// 0. It fails with ErrInvalidOperation when the journal is disabled.
func (l *Library) History(id int) ([]journal.Event, error) {
	if !l.attached {
		return nil, types.ErrDetached
	}
	if l.journal == nil {
		return nil, fmt.Errorf("%w: the journal is disabled", types.ErrInvalidOperation)
	}
	if id != 0 {
		if _, err := l.catalog.Find(id); err != nil {
			return nil, err
		}
	}
	return l.journal.History(id)
}

// FeesCollected sums the fees of every journaled return.
func (l *Library) FeesCollected() (float64, error) {
	if !l.attached {
		return 0, types.ErrDetached
	}
	if l.journal == nil {
		return 0, fmt.Errorf("%w: the journal is disabled", types.ErrInvalidOperation)
	}
	return l.journal.FeesCollected()
}

// Close saves unsaved changes and releases the journal. Close is
// idempotent; afterwards every intent returns ErrDetached.
func (l *Library) Close() error {
	if !l.attached {
		return nil
	}

	var errs []error
	if l.dirty {
		errs = append(errs, l.save())
	}
	if l.journal != nil {
		errs = append(errs, l.journal.Close())
	}
	l.attached = false
	l.log.Debug("library closed")
	return errors.Join(errs...)
}

// changed marks the session dirty and saves when autosave is on. A failed
// save returns ErrNotSaved alongside the cause.
func (l *Library) changed() error {
	l.dirty = true
	if !l.config.Autosave {
		return nil
	}
	if err := l.save(); err != nil {
		return fmt.Errorf("%w: %w", ErrNotSaved, err)
	}
	return nil
}

func (l *Library) save() error {
	if err := l.store.Save(l.catalog); err != nil {
		l.log.Error("save failed", "path", l.store.Path(), "err", err)
		return err
	}
	l.dirty = false
	l.log.Debug("catalog saved", "path", l.store.Path(), "items", l.catalog.Len())
	return nil
}

// record appends e to the journal. Journal failures are logged and do not
// fail the intent.
func (l *Library) record(e journal.Event) {
	if l.journal == nil {
		return
	}
	if _, err := l.journal.Record(e); err != nil {
		l.log.Warn("journal write failed", "kind", e.Kind, "item", e.ItemID, "err", err)
	}
}
