package api

import (
	"github.com/STTM-NSU/portfolio-tracker/internal/model"
	"github.com/STTM-NSU/portfolio-tracker/internal/tools"
)

// presentReport rounds a report for display: money and percentages to cents,
// quantities to four places. The engine itself never rounds.
func presentReport(r model.Report) model.Report {
	out := model.Report{
		Positions:    make([]model.Position, 0, len(r.Positions)),
		Allocation:   make([]model.AllocationEntry, 0, len(r.Allocation)),
		BaseCurrency: r.BaseCurrency,
		Totals: model.Totals{
			TotalInvested:        tools.RoundMoney(r.Totals.TotalInvested),
			TotalMarketValue:     tools.RoundMoney(r.Totals.TotalMarketValue),
			TotalGainLoss:        tools.RoundMoney(r.Totals.TotalGainLoss),
			TotalGainLossPercent: tools.Round(r.Totals.TotalGainLossPercent, tools.PercentPlaces),
		},
	}

	for _, p := range r.Positions {
		out.Positions = append(out.Positions, model.Position{
			Ticker:               p.Ticker,
			AssetType:            p.AssetType,
			Quantity:             tools.RoundQuantity(p.Quantity),
			TotalBuyQuantity:     tools.RoundQuantity(p.TotalBuyQuantity),
			TotalCostInBase:      tools.RoundMoney(p.TotalCostInBase),
			AvgCostInBase:        tools.RoundMoney(p.AvgCostInBase),
			CurrentPrice:         tools.RoundMoney(p.CurrentPrice),
			CurrentPriceCurrency: p.CurrentPriceCurrency,
			MarketValueInBase:    tools.RoundMoney(p.MarketValueInBase),
			CostBasisInBase:      tools.RoundMoney(p.CostBasisInBase),
			GainLossInBase:       tools.RoundMoney(p.GainLossInBase),
			GainLossPercent:      tools.Round(p.GainLossPercent, tools.PercentPlaces),
		})
	}

	for _, a := range r.Allocation {
		out.Allocation = append(out.Allocation, model.AllocationEntry{
			Name:  a.Name,
			Value: tools.RoundMoney(a.Value),
		})
	}

	rg := r.RealizedGains
	out.RealizedGains = model.RealizedGains{
		WinningTrades:     rg.WinningTrades,
		LosingTrades:      rg.LosingTrades,
		TotalClosedTrades: rg.TotalClosedTrades,
		WinRatio:          tools.Round(rg.WinRatio, tools.PercentPlaces),
		RealizedProfit:    tools.RoundMoney(rg.RealizedProfit),
		Trades:            make([]model.ClosedTrade, 0, len(rg.Trades)),
	}
	for _, t := range rg.Trades {
		out.RealizedGains.Trades = append(out.RealizedGains.Trades, model.ClosedTrade{
			Ticker:         t.Ticker,
			Date:           t.Date,
			Quantity:       tools.RoundQuantity(t.Quantity),
			ProceedsInBase: tools.RoundMoney(t.ProceedsInBase),
			CostInBase:     tools.RoundMoney(t.CostInBase),
			Profit:         tools.RoundMoney(t.Profit),
			Winning:        t.Winning,
		})
	}

	return out
}

func presentPerformance(points []model.PerformancePoint) []model.PerformancePoint {
	out := make([]model.PerformancePoint, 0, len(points))
	for _, p := range points {
		p.Portfolio = tools.Round(p.Portfolio, tools.PercentPlaces)
		out = append(out, p)
	}
	return out
}
