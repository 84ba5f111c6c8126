// Shared helpers for shelf CLI commands.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/mesh-intelligence/shelf/internal/library"
	"github.com/mesh-intelligence/shelf/internal/paths"
	"github.com/mesh-intelligence/shelf/pkg/types"
)

var json = jsoniter.Config{
	EscapeHTML:    false,
	SortMapKeys:   true,
	IndentionStep: 2,
}.Froze()

// session is an open library plus the log file behind its logger.
type session struct {
	*library.Library
	logFile *os.File
}

// close closes the library, which saves unsaved changes, and then the log.
func (s *session) close() error {
	err := s.Library.Close()
	if s.logFile != nil {
		s.logFile.Close()
	}
	return err
}

// openLibrary resolves the data directory and opens a library session that
// logs to shelf.log there. The caller must call close.
func (a *app) openLibrary() (*session, error) {
	cfg, err := a.libraryConfig()
	if err != nil {
		return nil, err
	}
	if err := paths.EnsureDir(cfg.DataDir); err != nil {
		return nil, fmt.Errorf("%w: create data dir: %w", types.ErrIO, err)
	}

	logPath := filepath.Join(cfg.DataDir, paths.LogFileName)
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: open log: %w", types.ErrIO, err)
	}
	level, err := parseLogLevel(a.v.GetString(cfgKeyLogLevel))
	if err != nil {
		logFile.Close()
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: level}))

	lib, err := library.Open(cfg, library.WithLogger(logger))
	if err != nil {
		logger.Error("open library failed", "err", err)
		logFile.Close()
		return nil, err
	}
	return &session{Library: lib, logFile: logFile}, nil
}

// withLibrary opens a session, runs fn and closes the session. A close
// error is reported only when fn succeeded.
func (a *app) withLibrary(fn func(s *session) error) error {
	s, err := a.openLibrary()
	if err != nil {
		return err
	}
	err = fn(s)
	if cerr := s.close(); err == nil {
		err = cerr
	}
	return err
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("%w: log_level %q", types.ErrValidation, s)
	}
	return level, nil
}

// exitCode maps an error to the process exit code: 1 for problems with the
// user's request, 2 for everything else.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, types.ErrValidation),
		errors.Is(err, types.ErrNotFound),
		errors.Is(err, types.ErrDuplicate),
		errors.Is(err, types.ErrInvalidOperation):
		return exitUserError
	default:
		return exitSysError
	}
}

// parseID parses a positive item id argument.
func parseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: invalid item id %q", types.ErrValidation, s)
	}
	return id, nil
}

// parseRate parses a non-negative daily rate.
func parseRate(s string) (float64, error) {
	rate, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || rate < 0 {
		return 0, fmt.Errorf("%w: invalid daily rate %q", types.ErrValidation, s)
	}
	return rate, nil
}

func (a *app) printJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	fmt.Fprintln(a.out, string(data))
	return nil
}

// itemView is the JSON form of an item.
type itemView struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	Author       string   `json:"author"`
	Status       string   `json:"status"`
	Borrower     string   `json:"borrower,omitempty"`
	CheckedOutOn string   `json:"checked_out_on,omitempty"`
	DueOn        string   `json:"due_on,omitempty"`
	Waitlist     []string `json:"waitlist"`
}

func viewOf(it types.Item) itemView {
	v := itemView{
		ID:       it.ID,
		Title:    it.Title,
		Author:   it.Author,
		Status:   string(it.Status()),
		Waitlist: it.Waitlist,
	}
	if v.Waitlist == nil {
		v.Waitlist = []string{}
	}
	if it.Loan != nil {
		v.Borrower = it.Loan.Borrower
		v.CheckedOutOn = it.Loan.CheckedOutOn.String()
		v.DueOn = it.Loan.DueOn.String()
	}
	return v
}

func viewsOf(items []types.Item) []itemView {
	out := make([]itemView, 0, len(items))
	for _, it := range items {
		out = append(out, viewOf(it))
	}
	return out
}

// printItems writes items as JSON or as an aligned table. mark, when not
// nil, decorates titles and authors.
func (a *app) printItems(items []types.Item, mark func(string) string) error {
	if a.flagJSON {
		return a.printJSON(viewsOf(items))
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No books.")
		return nil
	}
	writeTable(a.out, items, mark)
	return nil
}

// describe renders one item on a single line.
func describe(it types.Item) string {
	s := fmt.Sprintf("#%d %s / %s", it.ID, it.Title, it.Author)
	if it.Loan != nil {
		s += fmt.Sprintf(" (lent to %s, due %s)", it.Loan.Borrower, it.Loan.DueOn)
	}
	return s
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
