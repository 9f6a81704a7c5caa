package portfolio

import (
	"time"

	"github.com/STTM-NSU/portfolio-tracker/internal/model"
)

const base = "ARS"

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func buy(d int, ticker string, quantity, price float64) model.Transaction {
	return model.Transaction{
		Date:      day(d),
		Type:      model.Buy,
		Ticker:    ticker,
		AssetType: model.Share,
		Quantity:  quantity,
		Price:     price,
		Currency:  base,
	}
}

func sell(d int, ticker string, quantity, price float64) model.Transaction {
	tx := buy(d, ticker, quantity, price)
	tx.Type = model.Sell
	return tx
}

func in(currency string, tx model.Transaction) model.Transaction {
	tx.Currency = currency
	return tx
}

func withFee(fee float64, tx model.Transaction) model.Transaction {
	tx.Fee = fee
	return tx
}

func asset(t model.AssetType, tx model.Transaction) model.Transaction {
	tx.AssetType = t
	return tx
}

func baseRates(table map[string]float64) Rates {
	return NewRates(base, table)
}
