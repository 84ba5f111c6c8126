package library

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/shelf/internal/journal"
	"github.com/mesh-intelligence/shelf/internal/search"
	"github.com/mesh-intelligence/shelf/pkg/types"
)

var fixedNow = time.Date(2026, time.October, 19, 10, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func testConfig(t *testing.T) types.Config {
	t.Helper()
	cfg := types.DefaultConfig()
	cfg.DataDir = t.TempDir()
	return cfg
}

func openLibrary(t *testing.T, cfg types.Config) *Library {
	t.Helper()
	l, err := Open(cfg, WithClock(clock))
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestOpenEmptyDataDir(t *testing.T) {
	cfg := testConfig(t)
	l := openLibrary(t, cfg)

	items, err := l.ListAll()
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, filepath.Join(cfg.DataDir, types.DefaultStoreFile), l.StorePath())
	assert.False(t, l.Dirty())
	assert.Equal(t, types.DefaultDailyRate, l.DailyRate())
}

func TestOpenRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.DailyRate = -1

	_, err := Open(cfg)
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestOpenCorruptStoreFails(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.DataDir, cfg.StoreFile), []byte("{ not-json }"), 0o644))

	_, err := Open(cfg)
	assert.ErrorIs(t, err, types.ErrCorruptStore)
}

func TestAutosavePersistsEachChange(t *testing.T) {
	cfg := testConfig(t)
	l := openLibrary(t, cfg)

	added, err := l.Add("dune", "frank herbert")
	require.NoError(t, err)
	assert.Equal(t, "Dune", added.Title)
	assert.False(t, l.Dirty())

	other, err := Open(cfg, WithClock(clock))
	require.NoError(t, err)
	defer other.Close()
	got, err := other.Get(added.ID)
	require.NoError(t, err)
	assert.Equal(t, "Frank Herbert", got.Author)
}

func TestCloseSavesDirtySession(t *testing.T) {
	cfg := testConfig(t)
	cfg.Autosave = false

	l, err := Open(cfg, WithClock(clock))
	require.NoError(t, err)
	_, err = l.Add("1984", "George Orwell")
	require.NoError(t, err)
	assert.True(t, l.Dirty())

	_, err = os.Stat(l.StorePath())
	assert.True(t, os.IsNotExist(err), "nothing is written before Close")

	require.NoError(t, l.Close())
	assert.NoError(t, l.Close(), "Close is idempotent")

	reopened := openLibrary(t, cfg)
	counts, err := reopened.Counts()
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Total)
}

func TestLendUsesDefaultLoanDays(t *testing.T) {
	l := openLibrary(t, testConfig(t))
	it, err := l.Add("Dune", "Frank Herbert")
	require.NoError(t, err)

	lent, err := l.Lend(it.ID, " Ali ", l.DefaultLoanDays())
	require.NoError(t, err)
	require.NotNil(t, lent.Loan)
	assert.Equal(t, "Ali", lent.Loan.Borrower)
	assert.Equal(t, types.NewDate(2026, time.October, 19), lent.Loan.CheckedOutOn)
	assert.Equal(t, types.NewDate(2026, time.November, 2), lent.Loan.DueOn)

	_, err = l.Lend(it.ID, "Can", 7)
	assert.ErrorIs(t, err, types.ErrInvalidOperation)

	_, err = l.Lend(99, "Can", 7)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestZeroDaysAreRejected(t *testing.T) {
	l := openLibrary(t, testConfig(t))
	it, err := l.Add("Dune", "Frank Herbert")
	require.NoError(t, err)

	_, err = l.Lend(it.ID, "Ali", 0)
	assert.ErrorIs(t, err, types.ErrValidation)
	got, err := l.Get(it.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Loan)

	_, err = l.Lend(it.ID, "Ali", 7)
	require.NoError(t, err)
	_, err = l.Renew(it.ID, 0)
	assert.ErrorIs(t, err, types.ErrValidation)
	got, err = l.Get(it.ID)
	require.NoError(t, err)
	assert.Equal(t, types.NewDate(2026, time.October, 26), got.Loan.DueOn)
}

func TestAutosaveFailureKeepsChangeForClose(t *testing.T) {
	cfg := testConfig(t)
	l, err := Open(cfg, WithClock(clock))
	require.NoError(t, err)

	// A non-empty directory at the store path makes the rename fail.
	require.NoError(t, os.MkdirAll(filepath.Join(l.StorePath(), "blocker"), 0o755))

	added, err := l.Add("Dune", "Frank Herbert")
	assert.ErrorIs(t, err, ErrNotSaved)
	assert.ErrorIs(t, err, types.ErrIO)
	assert.Equal(t, "Dune", added.Title)
	assert.True(t, l.Dirty())
	items, err := l.ListAll()
	require.NoError(t, err)
	assert.Len(t, items, 1)

	require.NoError(t, os.RemoveAll(l.StorePath()))
	require.NoError(t, l.Close())

	reopened := openLibrary(t, cfg)
	counts, err := reopened.Counts()
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Total)
}

func TestSeedAndOverdueReturn(t *testing.T) {
	l := openLibrary(t, testConfig(t))

	seeded, err := l.Seed()
	require.NoError(t, err)
	require.Len(t, seeded, 3)
	assert.Equal(t, types.NewDate(2026, time.October, 17), seeded[2].Loan.DueOn)

	again, err := l.Seed()
	require.NoError(t, err)
	assert.Empty(t, again, "seeding twice adds nothing")

	report, err := l.ListOverdue()
	require.NoError(t, err)
	require.Len(t, report.Entries, 1)
	assert.Equal(t, 2, report.Entries[0].Days)
	assert.InDelta(t, 3.0, report.TotalFee, 1e-9)

	r, err := l.Return(3)
	require.NoError(t, err)
	assert.Equal(t, "Zey", r.Borrower)
	assert.Equal(t, 2, r.DaysLate)
	assert.InDelta(t, 3.0, r.Fee, 1e-9)
	assert.False(t, r.Relent())

	events, err := l.History(3)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, journal.KindAdd, events[0].Kind)
	assert.Equal(t, journal.KindReturn, events[1].Kind)
	assert.Equal(t, 2, events[1].Days)
	assert.InDelta(t, 3.0, events[1].Fee, 1e-9)

	fees, err := l.FeesCollected()
	require.NoError(t, err)
	assert.InDelta(t, 3.0, fees, 1e-9)
}

func TestReturnHandsOverToWaitlist(t *testing.T) {
	l := openLibrary(t, testConfig(t))
	it, err := l.Add("Dune", "Frank Herbert")
	require.NoError(t, err)
	_, err = l.Lend(it.ID, "Ali", 7)
	require.NoError(t, err)

	pos, err := l.JoinWaitlist(it.ID, "Can")
	require.NoError(t, err)
	assert.Equal(t, 1, pos)
	pos, err = l.JoinWaitlist(it.ID, "Deniz")
	require.NoError(t, err)
	assert.Equal(t, 2, pos)
	pos, err = l.JoinWaitlist(it.ID, "can")
	require.NoError(t, err)
	assert.Equal(t, 1, pos, "joining twice keeps the first position")

	_, err = l.JoinWaitlist(it.ID, "Ali")
	assert.ErrorIs(t, err, types.ErrInvalidOperation)

	r, err := l.Return(it.ID)
	require.NoError(t, err)
	assert.True(t, r.Relent())
	assert.Equal(t, "Can", r.RelentTo)
	assert.Equal(t, types.NewDate(2026, time.November, 2), r.NewDueOn)

	got, err := l.Get(it.ID)
	require.NoError(t, err)
	assert.Equal(t, "Can", got.Loan.Borrower)
	assert.Equal(t, []string{"Deniz"}, got.Waitlist)

	left, err := l.LeaveWaitlist(it.ID, "deniz")
	require.NoError(t, err)
	assert.True(t, left)
	left, err = l.LeaveWaitlist(it.ID, "deniz")
	require.NoError(t, err)
	assert.False(t, left)

	events, err := l.History(it.ID)
	require.NoError(t, err)
	var kinds []journal.Kind
	for _, e := range events {
		kinds = append(kinds, e.Kind)
	}
	assert.Equal(t, []journal.Kind{
		journal.KindAdd, journal.KindLend, journal.KindWaitlistJoin, journal.KindWaitlistJoin,
		journal.KindReturn, journal.KindRelend, journal.KindWaitlistLeave,
	}, kinds)
}

func TestRenew(t *testing.T) {
	cfg := testConfig(t)
	cfg.MaxLoanDays = 21
	l := openLibrary(t, cfg)
	it, err := l.Add("Dune", "Frank Herbert")
	require.NoError(t, err)
	_, err = l.Lend(it.ID, "Ali", 14)
	require.NoError(t, err)

	renewed, err := l.Renew(it.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, types.NewDate(2026, time.November, 9), renewed.Loan.DueOn)

	_, err = l.Renew(it.ID, 1)
	assert.ErrorIs(t, err, types.ErrInvalidOperation)
}

func TestSearchThroughSession(t *testing.T) {
	l := openLibrary(t, testConfig(t))
	_, err := l.Seed()
	require.NoError(t, err)

	got, err := l.Search("KURK", search.Options{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Kürk Mantolu Madonna", got[0].Title)

	lent, err := l.Search("orwell", search.Options{Availability: search.LentOnly})
	require.NoError(t, err)
	assert.Len(t, lent, 1)

	matched, err := l.SearchRegex("^(dune|kurk) ", search.AnyStatus)
	require.NoError(t, err)
	assert.Len(t, matched, 2)

	avail, err := l.ListAvailable()
	require.NoError(t, err)
	assert.Len(t, avail, 2)
}

func TestLoadKeepsCatalogOnCorruptStore(t *testing.T) {
	cfg := testConfig(t)
	l := openLibrary(t, cfg)
	_, err := l.Add("Dune", "Frank Herbert")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(l.StorePath(), []byte("{ not-json }"), 0o644))
	err = l.Load()
	assert.ErrorIs(t, err, types.ErrCorruptStore)

	items, err := l.ListAll()
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestLoadReplacesCatalog(t *testing.T) {
	cfg := testConfig(t)
	cfg.Autosave = false
	l := openLibrary(t, cfg)
	_, err := l.Add("Dune", "Frank Herbert")
	require.NoError(t, err)
	require.NoError(t, l.Save())
	_, err = l.Add("1984", "George Orwell")
	require.NoError(t, err)

	require.NoError(t, l.Load())
	assert.False(t, l.Dirty())
	counts, err := l.Counts()
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Total)
}

func TestCSVRoundTrip(t *testing.T) {
	l := openLibrary(t, testConfig(t))
	_, err := l.Seed()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "books.csv")
	n, err := l.ExportCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	res, err := l.ImportCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Added)
	assert.Equal(t, 3, res.Duplicates)

	fresh := openLibrary(t, testConfig(t))
	res, err = fresh.ImportCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Added)
}

func TestSetDailyRate(t *testing.T) {
	l := openLibrary(t, testConfig(t))

	require.NoError(t, l.SetDailyRate(2.25))
	assert.Equal(t, 2.25, l.DailyRate())

	err := l.SetDailyRate(-0.5)
	assert.ErrorIs(t, err, types.ErrValidation)
	assert.Equal(t, 2.25, l.DailyRate())
}

func TestJournalDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Journal = false
	l := openLibrary(t, cfg)

	_, err := l.Add("Dune", "Frank Herbert")
	require.NoError(t, err)

	_, err = l.History(0)
	assert.ErrorIs(t, err, types.ErrInvalidOperation)
	_, err = os.Stat(filepath.Join(cfg.DataDir, journal.FileName))
	assert.True(t, os.IsNotExist(err))
}

func TestClosedSessionIsDetached(t *testing.T) {
	l, err := Open(testConfig(t), WithClock(clock))
	require.NoError(t, err)
	require.NoError(t, l.Close())

	_, err = l.ListAll()
	assert.ErrorIs(t, err, types.ErrDetached)
	_, err = l.Add("Dune", "Frank Herbert")
	assert.ErrorIs(t, err, types.ErrDetached)
	_, err = l.Return(1)
	assert.ErrorIs(t, err, types.ErrDetached)
	assert.ErrorIs(t, l.Save(), types.ErrDetached)
}

func TestLogsTransitions(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	l, err := Open(testConfig(t), WithClock(clock), WithLogger(logger))
	require.NoError(t, err)
	defer l.Close()

	it, err := l.Add("Dune", "Frank Herbert")
	require.NoError(t, err)
	_, err = l.Lend(it.ID, "Ali", 3)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "msg=\"item added\"")
	assert.Contains(t, out, "msg=\"item lent\"")
	assert.Contains(t, out, "borrower=Ali")
}
