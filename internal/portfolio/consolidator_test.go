package portfolio

import (
	"testing"

	"github.com/STTM-NSU/portfolio-tracker/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(v float64, currency string) model.MoneyValue {
	return model.MoneyValue{Currency: currency, Value: v}
}

func TestConsolidatePositions_SingleBuy(t *testing.T) {
	txs := []model.Transaction{buy(1, "X", 10, 100)}
	prices := map[string]model.MoneyValue{"X": price(150, base)}

	positions, totals, allocation := ConsolidatePositions(txs, prices, baseRates(nil))

	require.Len(t, positions, 1)
	p := positions[0]
	assert.Equal(t, "X", p.Ticker)
	assert.Equal(t, 10.0, p.Quantity)
	assert.InDelta(t, 100, p.AvgCostInBase, 1e-9)
	assert.InDelta(t, 1500, p.MarketValueInBase, 1e-9)
	assert.InDelta(t, 500, p.GainLossInBase, 1e-9)
	assert.InDelta(t, 50, p.GainLossPercent, 1e-9)

	assert.InDelta(t, 1000, totals.TotalInvested, 1e-9)
	assert.InDelta(t, 1500, totals.TotalMarketValue, 1e-9)
	assert.InDelta(t, 500, totals.TotalGainLoss, 1e-9)
	assert.InDelta(t, 50, totals.TotalGainLossPercent, 1e-9)

	require.Len(t, allocation, 1)
	assert.Equal(t, model.Share, allocation[0].Name)
	assert.InDelta(t, 1500, allocation[0].Value, 1e-9)
}

func TestConsolidatePositions_ClosedPositionIsDropped(t *testing.T) {
	txs := []model.Transaction{
		buy(1, "X", 10, 100),
		sell(2, "X", 10, 150),
		buy(1, "Y", 1, 50),
	}
	prices := map[string]model.MoneyValue{
		"X": price(150, base),
		"Y": price(60, base),
	}

	positions, totals, _ := ConsolidatePositions(txs, prices, baseRates(nil))

	require.Len(t, positions, 1)
	assert.Equal(t, "Y", positions[0].Ticker)
	assert.InDelta(t, 50, totals.TotalInvested, 1e-9)
	assert.InDelta(t, 60, totals.TotalMarketValue, 1e-9)
}

func TestConsolidatePositions_ForeignCurrency(t *testing.T) {
	txs := []model.Transaction{in("USD", buy(1, "AAPL", 10, 100))}
	prices := map[string]model.MoneyValue{"AAPL": price(120, "USD")}
	rates := baseRates(map[string]float64{"USD_ARS": 1000})

	positions, totals, _ := ConsolidatePositions(txs, prices, rates)

	require.Len(t, positions, 1)
	assert.InDelta(t, 100_000, positions[0].AvgCostInBase, 1e-6)
	assert.InDelta(t, 1_200_000, positions[0].MarketValueInBase, 1e-6)
	assert.InDelta(t, 200_000, totals.TotalGainLoss, 1e-6)
	assert.Equal(t, "USD", positions[0].CurrentPriceCurrency)
}

func TestConsolidatePositions_AllTimeAverageIgnoresSells(t *testing.T) {
	txs := []model.Transaction{
		buy(1, "X", 10, 100),
		sell(2, "X", 5, 120),
		buy(3, "X", 5, 200),
	}
	prices := map[string]model.MoneyValue{"X": price(150, base)}

	positions, _, _ := ConsolidatePositions(txs, prices, baseRates(nil))

	require.Len(t, positions, 1)
	assert.InDelta(t, 10, positions[0].Quantity, 1e-9)
	assert.InDelta(t, 15, positions[0].TotalBuyQuantity, 1e-9)
	assert.InDelta(t, 2000.0/15, positions[0].AvgCostInBase, 1e-9)

	// the ledger holds the same units at a point-in-time average of 150
	_, holdings, err := replay(txs, baseRates(nil), Lenient)
	require.NoError(t, err)
	assert.InDelta(t, 150, holdings["X"].pointInTimeAvgCost(), 1e-9)
}

func TestConsolidatePositions_FeesAreCapitalized(t *testing.T) {
	txs := []model.Transaction{withFee(10, buy(1, "X", 10, 100))}
	prices := map[string]model.MoneyValue{"X": price(100, base)}

	positions, totals, _ := ConsolidatePositions(txs, prices, baseRates(nil))

	require.Len(t, positions, 1)
	assert.InDelta(t, 101, positions[0].AvgCostInBase, 1e-9)
	assert.InDelta(t, -10, totals.TotalGainLoss, 1e-9)
}

func TestConsolidatePositions_MissingPrice(t *testing.T) {
	txs := []model.Transaction{buy(1, "X", 10, 100)}

	positions, totals, allocation := ConsolidatePositions(txs, nil, baseRates(nil))

	require.Len(t, positions, 1)
	assert.Zero(t, positions[0].CurrentPrice)
	assert.Equal(t, base, positions[0].CurrentPriceCurrency)
	assert.Zero(t, positions[0].MarketValueInBase)
	assert.InDelta(t, -1000, positions[0].GainLossInBase, 1e-9)
	assert.InDelta(t, -100, positions[0].GainLossPercent, 1e-9)
	assert.InDelta(t, -100, totals.TotalGainLossPercent, 1e-9)
	require.Len(t, allocation, 1)
	assert.Zero(t, allocation[0].Value)
}

func TestConsolidatePositions_MissingRateContributesZero(t *testing.T) {
	txs := []model.Transaction{in("EUR", buy(1, "SAP", 10, 100))}
	prices := map[string]model.MoneyValue{"SAP": price(120, "EUR")}

	positions, totals, _ := ConsolidatePositions(txs, prices, baseRates(nil))

	require.Len(t, positions, 1)
	assert.Zero(t, positions[0].AvgCostInBase)
	assert.Zero(t, positions[0].MarketValueInBase)
	assert.Zero(t, positions[0].GainLossPercent)
	assert.Zero(t, totals.TotalGainLossPercent)
}

func TestConsolidatePositions_Epsilon(t *testing.T) {
	tests := []struct {
		name     string
		left     float64
		expected bool
	}{
		{name: "dust", left: 0.00005, expected: false},
		{name: "at epsilon", left: OpenPositionEpsilon, expected: false},
		{name: "above epsilon", left: 0.0002, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txs := []model.Transaction{
				buy(1, "X", 1+tt.left, 10),
				sell(2, "X", 1, 10),
			}
			positions, _, _ := ConsolidatePositions(txs, nil, baseRates(nil))
			if tt.expected {
				assert.Len(t, positions, 1)
			} else {
				assert.Empty(t, positions)
			}
		})
	}
}

func TestConsolidatePositions_OrderIndependent(t *testing.T) {
	txs := []model.Transaction{
		sell(3, "X", 4, 130),
		buy(1, "X", 10, 100),
		buy(2, "X", 2, 110),
	}
	reversed := []model.Transaction{txs[2], txs[1], txs[0]}
	prices := map[string]model.MoneyValue{"X": price(120, base)}

	a, ta, _ := ConsolidatePositions(txs, prices, baseRates(nil))
	b, tb, _ := ConsolidatePositions(reversed, prices, baseRates(nil))

	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.InDelta(t, a[0].AvgCostInBase, b[0].AvgCostInBase, 1e-9)
	assert.InDelta(t, a[0].Quantity, b[0].Quantity, 1e-9)
	assert.InDelta(t, ta.TotalGainLoss, tb.TotalGainLoss, 1e-9)
}

func TestConsolidatePositions_AllocationGroupsByAssetType(t *testing.T) {
	txs := []model.Transaction{
		asset(model.Fund, buy(1, "FCI-TECH", 100, 10)),
		asset(model.Share, buy(1, "MELI", 1, 1000)),
		asset(model.Fund, buy(1, "FCI-AGRO", 10, 20)),
	}
	prices := map[string]model.MoneyValue{
		"FCI-TECH": price(12, base),
		"MELI":     price(1450, base),
		"FCI-AGRO": price(25, base),
	}

	positions, totals, allocation := ConsolidatePositions(txs, prices, baseRates(nil))

	require.Len(t, positions, 3)
	assert.Equal(t, []string{"FCI-TECH", "MELI", "FCI-AGRO"},
		[]string{positions[0].Ticker, positions[1].Ticker, positions[2].Ticker})

	require.Len(t, allocation, 2)
	assert.Equal(t, model.Fund, allocation[0].Name)
	assert.InDelta(t, 1450, allocation[0].Value, 1e-9)
	assert.Equal(t, model.Share, allocation[1].Name)
	assert.InDelta(t, 1450, allocation[1].Value, 1e-9)

	var sum float64
	for _, a := range allocation {
		sum += a.Value
	}
	assert.InDelta(t, totals.TotalMarketValue, sum, 1e-9)
	assert.InDelta(t, totals.TotalMarketValue-totals.TotalInvested, totals.TotalGainLoss, 1e-9)
}

func TestConsolidatePositions_Empty(t *testing.T) {
	positions, totals, allocation := ConsolidatePositions(nil, nil, baseRates(nil))

	assert.Empty(t, positions)
	assert.Empty(t, allocation)
	assert.Equal(t, model.Totals{}, totals)
}
