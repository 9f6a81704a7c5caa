package portfolio

import (
	"slices"

	"github.com/STTM-NSU/portfolio-tracker/internal/model"
)

// History lists txs newest first with their gross total. Transactions sharing
// a date keep their input order.
func History(txs []model.Transaction) []model.HistoryEntry {
	entries := make([]model.HistoryEntry, 0, len(txs))
	for _, tx := range txs {
		entries = append(entries, model.HistoryEntry{Transaction: tx, Total: tx.Total()})
	}
	slices.SortStableFunc(entries, func(a, b model.HistoryEntry) int {
		return b.Date.Compare(a.Date)
	})
	return entries
}
