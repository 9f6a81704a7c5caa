package model

import "time"

type Position struct {
	Ticker               string    `json:"ticker"`
	AssetType            AssetType `json:"asset_type"`
	Quantity             float64   `json:"quantity"`
	TotalBuyQuantity     float64   `json:"total_buy_quantity"`
	TotalCostInBase      float64   `json:"total_cost_in_base"`
	AvgCostInBase        float64   `json:"avg_cost_in_base"`
	CurrentPrice         float64   `json:"current_price"`
	CurrentPriceCurrency string    `json:"current_price_currency"`
	MarketValueInBase    float64   `json:"market_value_in_base"`
	CostBasisInBase      float64   `json:"cost_basis_in_base"`
	GainLossInBase       float64   `json:"gain_loss_in_base"`
	GainLossPercent      float64   `json:"gain_loss_percent"`
}

type Totals struct {
	TotalInvested        float64 `json:"total_invested"`
	TotalMarketValue     float64 `json:"total_market_value"`
	TotalGainLoss        float64 `json:"total_gain_loss"`
	TotalGainLossPercent float64 `json:"total_gain_loss_percent"`
}

type AllocationEntry struct {
	Name  AssetType `json:"name"`
	Value float64   `json:"value"`
}

// ClosedTrade is one sell matched against the average cost held at that time.
type ClosedTrade struct {
	Ticker         string    `json:"ticker"`
	Date           time.Time `json:"date"`
	Quantity       float64   `json:"quantity"`
	ProceedsInBase float64   `json:"proceeds_in_base"`
	CostInBase     float64   `json:"cost_in_base"`
	Profit         float64   `json:"profit"`
	Winning        bool      `json:"winning"`
}

type RealizedGains struct {
	WinningTrades     int           `json:"winning_trades"`
	LosingTrades      int           `json:"losing_trades"`
	TotalClosedTrades int           `json:"total_closed_trades"`
	WinRatio          float64       `json:"win_ratio"`
	RealizedProfit    float64       `json:"realized_profit"`
	Trades            []ClosedTrade `json:"trades"`
}

type Report struct {
	Positions     []Position        `json:"positions"`
	Totals        Totals            `json:"totals"`
	Allocation    []AllocationEntry `json:"allocation"`
	RealizedGains RealizedGains     `json:"realized_gains"`
	BaseCurrency  string            `json:"base_currency"`
}

type BenchmarkPoint struct {
	Label string  `yaml:"label" json:"label"`
	Value float64 `yaml:"value" json:"value"`
}

type Benchmark struct {
	Name   string           `yaml:"name" json:"name"`
	Points []BenchmarkPoint `yaml:"points" json:"points"`
}

type PerformancePoint struct {
	Label      string             `json:"label"`
	Portfolio  float64            `json:"portfolio"`
	Benchmarks map[string]float64 `json:"benchmarks"`
}
