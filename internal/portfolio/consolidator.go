package portfolio

import "github.com/STTM-NSU/portfolio-tracker/internal/model"

// OpenPositionEpsilon is the quantity at or below which a position counts as
// closed.
const OpenPositionEpsilon = 0.0001

type accumulator struct {
	ticker           string
	assetType        model.AssetType
	quantity         float64
	totalCostInBase  float64
	totalBuyQuantity float64
}

// allTimeAvgCost is the average price of every unit ever bought; sells do not
// move it.
func (a accumulator) allTimeAvgCost() float64 {
	if a.totalBuyQuantity <= 0 {
		return 0
	}
	return a.totalCostInBase / a.totalBuyQuantity
}

// ConsolidatePositions aggregates txs per ticker regardless of their order and
// values the open ones at the given prices. Positions come out in first-seen
// ticker order.
func ConsolidatePositions(
	txs []model.Transaction,
	prices map[string]model.MoneyValue,
	rates Rates,
) ([]model.Position, model.Totals, []model.AllocationEntry) {
	var (
		order = make([]string, 0)
		accs  = make(map[string]*accumulator)
	)
	for _, tx := range txs {
		acc, ok := accs[tx.Ticker]
		if !ok {
			acc = &accumulator{ticker: tx.Ticker, assetType: tx.AssetType}
			accs[tx.Ticker] = acc
			order = append(order, tx.Ticker)
		}

		rate, _ := rates.Rate(tx.Currency)
		switch tx.Type {
		case model.Buy:
			acc.quantity += tx.Quantity
			acc.totalCostInBase += tx.Quantity*tx.Price*rate + tx.Fee*rate
			acc.totalBuyQuantity += tx.Quantity
		case model.Sell:
			acc.quantity -= tx.Quantity
		}
	}

	positions := make([]model.Position, 0, len(order))
	for _, ticker := range order {
		acc := accs[ticker]
		if acc.quantity <= OpenPositionEpsilon {
			continue
		}
		positions = append(positions, valuePosition(*acc, prices, rates))
	}

	return positions, totalsOf(positions), allocationOf(positions)
}

func valuePosition(acc accumulator, prices map[string]model.MoneyValue, rates Rates) model.Position {
	quote, ok := prices[acc.ticker]
	if !ok {
		quote = model.MoneyValue{Currency: rates.Base()}
	}

	avgCost := acc.allTimeAvgCost()
	marketValue := rates.ToBase(acc.quantity*quote.Value, quote.Currency)
	costBasis := acc.quantity * avgCost
	gainLoss := marketValue - costBasis

	return model.Position{
		Ticker:               acc.ticker,
		AssetType:            acc.assetType,
		Quantity:             acc.quantity,
		TotalBuyQuantity:     acc.totalBuyQuantity,
		TotalCostInBase:      acc.totalCostInBase,
		AvgCostInBase:        avgCost,
		CurrentPrice:         quote.Value,
		CurrentPriceCurrency: quote.Currency,
		MarketValueInBase:    marketValue,
		CostBasisInBase:      costBasis,
		GainLossInBase:       gainLoss,
		GainLossPercent:      percentOf(gainLoss, costBasis),
	}
}

func totalsOf(positions []model.Position) model.Totals {
	var t model.Totals
	for _, p := range positions {
		t.TotalInvested += p.Quantity * p.AvgCostInBase
		t.TotalMarketValue += p.MarketValueInBase
	}
	t.TotalGainLoss = t.TotalMarketValue - t.TotalInvested
	t.TotalGainLossPercent = percentOf(t.TotalGainLoss, t.TotalInvested)
	return t
}

func allocationOf(positions []model.Position) []model.AllocationEntry {
	allocation := make([]model.AllocationEntry, 0)
	index := make(map[model.AssetType]int)
	for _, p := range positions {
		i, ok := index[p.AssetType]
		if !ok {
			i = len(allocation)
			index[p.AssetType] = i
			allocation = append(allocation, model.AllocationEntry{Name: p.AssetType})
		}
		allocation[i].Value += p.MarketValueInBase
	}
	return allocation
}
