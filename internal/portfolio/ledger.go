package portfolio

import (
	"fmt"
	"slices"

	"github.com/STTM-NSU/portfolio-tracker/internal/model"
)

// holding is the running state of one ticker during the chronological replay.
type holding struct {
	quantity        float64
	totalCostInBase float64
}

// pointInTimeAvgCost is the weighted average cost of the units held right now,
// it moves with every buy and stays put on sells.
func (h holding) pointInTimeAvgCost() float64 {
	return h.totalCostInBase / h.quantity
}

// Chronological returns a copy of txs sorted by date; equal dates keep their
// input order.
func Chronological(txs []model.Transaction) []model.Transaction {
	sorted := slices.Clone(txs)
	slices.SortStableFunc(sorted, func(a, b model.Transaction) int {
		return a.Date.Compare(b.Date)
	})
	return sorted
}

// RealizedGainsFor replays txs in date order with weighted-average costing and
// classifies every sell as winning (profit > 0) or losing.
func RealizedGainsFor(txs []model.Transaction, rates Rates, policy OversellPolicy) (model.RealizedGains, error) {
	gains, _, err := replay(txs, rates, policy)
	return gains, err
}

func replay(txs []model.Transaction, rates Rates, policy OversellPolicy) (model.RealizedGains, map[string]*holding, error) {
	var (
		gains    model.RealizedGains
		holdings = make(map[string]*holding)
	)

	for _, tx := range Chronological(txs) {
		h, ok := holdings[tx.Ticker]
		if !ok {
			h = &holding{}
			holdings[tx.Ticker] = h
		}

		rate, _ := rates.Rate(tx.Currency)
		feeInBase := tx.Fee * rate

		switch tx.Type {
		case model.Buy:
			h.quantity += tx.Quantity
			h.totalCostInBase += tx.Quantity*tx.Price*rate + feeInBase
		case model.Sell:
			if h.quantity <= 0 {
				continue
			}

			quantity := tx.Quantity
			if quantity > h.quantity {
				switch policy {
				case Clamp:
					quantity = h.quantity
				case Reject:
					return model.RealizedGains{}, nil, fmt.Errorf("%w: %s sells %g of %g on %s",
						ErrOversell, tx.Ticker, tx.Quantity, h.quantity, tx.Date.Format("2006-01-02"))
				}
			}

			costOfSoldUnits := quantity * h.pointInTimeAvgCost()
			proceedsInBase := quantity*tx.Price*rate - feeInBase
			profit := proceedsInBase - costOfSoldUnits

			trade := model.ClosedTrade{
				Ticker:         tx.Ticker,
				Date:           tx.Date,
				Quantity:       quantity,
				ProceedsInBase: proceedsInBase,
				CostInBase:     costOfSoldUnits,
				Profit:         profit,
				Winning:        profit > 0,
			}
			if trade.Winning {
				gains.WinningTrades++
			} else {
				gains.LosingTrades++
			}
			gains.RealizedProfit += profit
			gains.Trades = append(gains.Trades, trade)

			h.quantity -= quantity
			h.totalCostInBase -= costOfSoldUnits
		}
	}

	gains.TotalClosedTrades = gains.WinningTrades + gains.LosingTrades
	gains.WinRatio = percentOf(float64(gains.WinningTrades), float64(gains.TotalClosedTrades))

	return gains, holdings, nil
}

// percentOf returns part/whole×100, or 0 when whole is not positive.
func percentOf(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}
