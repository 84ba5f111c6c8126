package lending

import "github.com/mesh-intelligence/shelf/pkg/types"

// OverdueEntry is one late item in an overdue report.
type OverdueEntry struct {
	Item types.Item
	Days int
	Fee  float64
}

// OverdueReport lists late items and the fee they would owe if returned
// today. The total is an estimate recomputed on every call; it is never
// charged or stored.
type OverdueReport struct {
	Today     types.Date
	DailyRate float64
	Entries   []OverdueEntry
	TotalFee  float64
}

// ListOverdue returns the lent items past due as of today, in input order.
func (p *Policy) ListOverdue(items []types.Item, today types.Date, dailyRate float64) OverdueReport {
	report := OverdueReport{Today: today, DailyRate: dailyRate}
	var cents int64
	for i := range items {
		it := &items[i]
		days := p.OverdueDays(it, today)
		if days <= 0 {
			continue
		}
		fee := feeFor(days, dailyRate)
		report.Entries = append(report.Entries, OverdueEntry{Item: it.Clone(), Days: days, Fee: fee})
		cents += int64(fee*100 + 0.5)
	}
	report.TotalFee = float64(cents) / 100
	return report
}
