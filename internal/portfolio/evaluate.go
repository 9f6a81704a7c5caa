package portfolio

import (
	"fmt"

	"github.com/STTM-NSU/portfolio-tracker/internal/model"
)

// Evaluate derives the full report from a transaction log and a market
// snapshot. It is pure: inputs are not modified and nothing is retained.
func Evaluate(cfg Config, txs []model.Transaction, snapshot model.Snapshot) (model.Report, error) {
	if err := cfg.Validate(); err != nil {
		return model.Report{}, err
	}

	rates := NewRates(cfg.BaseCurrency, snapshot.Rates)

	realized, err := RealizedGainsFor(txs, rates, cfg.OversellPolicy)
	if err != nil {
		return model.Report{}, fmt.Errorf("%w: can't replay ledger", err)
	}

	positions, totals, allocation := ConsolidatePositions(txs, snapshot.Prices, rates)

	return model.Report{
		Positions:     positions,
		Totals:        totals,
		Allocation:    allocation,
		RealizedGains: realized,
		BaseCurrency:  cfg.BaseCurrency,
	}, nil
}
