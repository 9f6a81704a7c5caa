package portfolio

// Rates converts amounts into the reporting currency. The table is keyed
// either by currency code ("USD") or by pair code ("USD_ARS" for the
// reporting currency ARS); an inverse pair ("ARS_USD") is used as 1/rate.
type Rates struct {
	base  string
	table map[string]float64
}

func NewRates(base string, table map[string]float64) Rates {
	return Rates{base: base, table: table}
}

func (r Rates) Base() string {
	return r.base
}

// Rate returns the multiplier from currency to the reporting currency. The
// reporting currency itself, and an empty currency, have rate 1.
func (r Rates) Rate(currency string) (float64, bool) {
	if currency == "" || currency == r.base {
		return 1, true
	}
	if v, ok := r.table[currency]; ok && v > 0 {
		return v, true
	}
	if v, ok := r.table[currency+"_"+r.base]; ok && v > 0 {
		return v, true
	}
	if v, ok := r.table[r.base+"_"+currency]; ok && v > 0 {
		return 1 / v, true
	}
	return 0, false
}

// ToBase converts amount; an unknown currency contributes zero.
func (r Rates) ToBase(amount float64, currency string) float64 {
	rate, _ := r.Rate(currency)
	return amount * rate
}
