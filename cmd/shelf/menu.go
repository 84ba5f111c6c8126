// Interactive menu for the shelf CLI.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shelf/internal/search"
	"github.com/mesh-intelligence/shelf/pkg/types"
)

// errInputClosed ends the menu when input runs out mid-prompt.
var errInputClosed = errors.New("input closed")

type menuAction struct {
	key   string
	label string
	run   func(m *menu) error
}

var menuActions = []menuAction{
	{"l", "list all books", (*menu).list},
	{"v", "list available books", (*menu).listAvailable},
	{"s", "search", (*menu).search},
	{"a", "add a book", (*menu).add},
	{"b", "lend a book", (*menu).lend},
	{"r", "return a book", (*menu).giveBack},
	{"n", "renew a loan", (*menu).renew},
	{"w", "join a wait-list", (*menu).join},
	{"o", "overdue books", (*menu).overdue},
	{"f", "set the daily fee", (*menu).rate},
	{"e", "export CSV", (*menu).export},
	{"i", "import CSV", (*menu).importCSV},
	{"k", "save", (*menu).save},
	{"d", "reload from disk", (*menu).load},
}

type menu struct {
	a  *app
	s  *session
	sc *bufio.Scanner
}

func newMenuCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Run an interactive session",
		Long: `Menu keeps the catalog open and reads single-letter commands. Enter ?
for the command list; q saves and exits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLibrary(func(s *session) error {
				m := &menu{a: a, s: s, sc: bufio.NewScanner(a.in)}
				return m.loop()
			})
		},
	}
}

// loop reads commands until q or end of input. Closing the session saves.
func (m *menu) loop() error {
	counts, err := m.s.Counts()
	if err != nil {
		return err
	}
	fmt.Fprintf(m.a.out, "shelf: %d books (%d available, %d lent). ? for help.\n",
		counts.Total, counts.Available, counts.Lent)

	for {
		key, err := m.ask(">")
		if errors.Is(err, errInputClosed) {
			return nil
		}
		if err != nil {
			return err
		}
		switch strings.ToLower(key) {
		case "":
			continue
		case "q":
			fmt.Fprintln(m.a.out, "Bye.")
			return nil
		case "?", "h":
			m.help()
			continue
		}

		action, ok := lookupAction(strings.ToLower(key))
		if !ok {
			fmt.Fprintf(m.a.out, "Unknown command %q. ? for help.\n", key)
			continue
		}
		err = action.run(m)
		switch {
		case errors.Is(err, errInputClosed):
			return nil
		case err != nil && exitCode(err) == exitSysError:
			fmt.Fprintln(m.a.out, "Error:", err)
		case err != nil:
			fmt.Fprintln(m.a.out, "Sorry:", err)
		}
	}
}

func lookupAction(key string) (menuAction, bool) {
	for _, act := range menuActions {
		if act.key == key {
			return act, true
		}
	}
	return menuAction{}, false
}

func (m *menu) help() {
	for _, act := range menuActions {
		fmt.Fprintf(m.a.out, "  %s  %s\n", act.key, act.label)
	}
	fmt.Fprintln(m.a.out, "  q  save and quit")
}

func (m *menu) ask(label string) (string, error) {
	fmt.Fprint(m.a.out, label+" ")
	if !m.sc.Scan() {
		if err := m.sc.Err(); err != nil {
			return "", err
		}
		return "", errInputClosed
	}
	return strings.TrimSpace(m.sc.Text()), nil
}

func (m *menu) askID() (int, error) {
	s, err := m.ask("Book id:")
	if err != nil {
		return 0, err
	}
	return parseID(s)
}

// askDays reads an optional day count; blank means the configured default.
func (m *menu) askDays(label string) (int, error) {
	s, err := m.ask(label)
	if err != nil {
		return 0, err
	}
	if s == "" {
		return m.s.DefaultLoanDays(), nil
	}
	days, err := strconv.Atoi(s)
	if err != nil || days < 1 {
		return 0, fmt.Errorf("%w: invalid day count %q", types.ErrValidation, s)
	}
	return days, nil
}

func (m *menu) list() error {
	items, err := m.s.ListAll()
	if err != nil {
		return err
	}
	return m.a.printItems(items, nil)
}

func (m *menu) listAvailable() error {
	items, err := m.s.ListAvailable()
	if err != nil {
		return err
	}
	return m.a.printItems(items, nil)
}

func (m *menu) search() error {
	query, err := m.ask("Search for:")
	if err != nil {
		return err
	}
	modeText, err := m.ask("Mode (any/all/prefix):")
	if err != nil {
		return err
	}
	mode, err := types.ParseSearchMode(modeText)
	if err != nil {
		return err
	}
	items, err := m.s.Search(query, search.Options{Mode: mode})
	if err != nil {
		return err
	}
	return m.a.printItems(items, func(text string) string {
		return search.Mark(text, query, "[", "]")
	})
}

func (m *menu) add() error {
	title, err := m.ask("Title:")
	if err != nil {
		return err
	}
	author, err := m.ask("Author:")
	if err != nil {
		return err
	}
	it, err := m.s.Add(title, author)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.a.out, "Added %s\n", describe(it))
	return nil
}

func (m *menu) lend() error {
	id, err := m.askID()
	if err != nil {
		return err
	}
	borrower, err := m.ask("Borrower:")
	if err != nil {
		return err
	}
	days, err := m.askDays("Days (blank for default):")
	if err != nil {
		return err
	}
	it, err := m.s.Lend(id, borrower, days)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.a.out, "Lent #%d %s to %s, due %s\n", it.ID, it.Title, it.Loan.Borrower, it.Loan.DueOn)
	return nil
}

func (m *menu) giveBack() error {
	id, err := m.askID()
	if err != nil {
		return err
	}
	r, err := m.s.Return(id)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.a.out, "Returned #%d from %s, fee %s\n", r.ItemID, r.Borrower, formatMoney(r.Fee))
	if r.Relent() {
		fmt.Fprintf(m.a.out, "Handed to %s, due %s\n", r.RelentTo, r.NewDueOn)
	}
	return nil
}

func (m *menu) renew() error {
	id, err := m.askID()
	if err != nil {
		return err
	}
	days, err := m.askDays("Extra days (blank for default):")
	if err != nil {
		return err
	}
	it, err := m.s.Renew(id, days)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.a.out, "Renewed #%d %s, now due %s\n", it.ID, it.Title, it.Loan.DueOn)
	return nil
}

func (m *menu) join() error {
	id, err := m.askID()
	if err != nil {
		return err
	}
	borrower, err := m.ask("Borrower:")
	if err != nil {
		return err
	}
	pos, err := m.s.JoinWaitlist(id, borrower)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.a.out, "%s is number %d in line\n", borrower, pos)
	return nil
}

func (m *menu) overdue() error {
	report, err := m.s.ListOverdue()
	if err != nil {
		return err
	}
	if len(report.Entries) == 0 {
		fmt.Fprintln(m.a.out, "No overdue books.")
		return nil
	}
	for _, e := range report.Entries {
		fmt.Fprintf(m.a.out, "  %s: %d days, %s\n", describe(e.Item), e.Days, formatMoney(e.Fee))
	}
	fmt.Fprintf(m.a.out, "Total: %s\n", formatMoney(report.TotalFee))
	return nil
}

func (m *menu) rate() error {
	s, err := m.ask(fmt.Sprintf("Daily fee (now %s):", formatMoney(m.s.DailyRate())))
	if err != nil {
		return err
	}
	rate, err := parseRate(s)
	if err != nil {
		return err
	}
	if err := m.s.SetDailyRate(rate); err != nil {
		return err
	}
	fmt.Fprintf(m.a.out, "Daily fee set to %s for this session\n", formatMoney(rate))
	return nil
}

func (m *menu) export() error {
	path, err := m.ask("CSV path:")
	if err != nil {
		return err
	}
	n, err := m.s.ExportCSV(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.a.out, "Exported %d books to %s\n", n, path)
	return nil
}

func (m *menu) importCSV() error {
	path, err := m.ask("CSV path:")
	if err != nil {
		return err
	}
	res, err := m.s.ImportCSV(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.a.out, "Imported %d books (%d duplicates, %d invalid rows skipped)\n",
		res.Added, res.Duplicates, res.Invalid)
	return nil
}

func (m *menu) save() error {
	if err := m.s.Save(); err != nil {
		return err
	}
	fmt.Fprintf(m.a.out, "Saved to %s\n", m.s.StorePath())
	return nil
}

func (m *menu) load() error {
	if err := m.s.Load(); err != nil {
		return err
	}
	counts, err := m.s.Counts()
	if err != nil {
		return err
	}
	fmt.Fprintf(m.a.out, "Loaded %d books\n", counts.Total)
	return nil
}
