package market

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/STTM-NSU/portfolio-tracker/internal/model"
	"gopkg.in/yaml.v3"
)

var ErrInvalidSnapshot = errors.New("invalid market snapshot")

func LoadSnapshot(filename string) (model.Snapshot, error) {
	var snapshot model.Snapshot
	input, err := os.ReadFile(filename)
	if err != nil {
		return snapshot, fmt.Errorf("%w: can't read file", err)
	}

	if err := yaml.Unmarshal(input, &snapshot); err != nil {
		return snapshot, fmt.Errorf("%w: can't unmarshal snapshot", err)
	}

	if err := Validate(&snapshot); err != nil {
		return snapshot, err
	}

	return snapshot, nil
}

// Validate rejects negative prices and non-positive rates and upper-cases
// currency codes so lookups match transaction currencies.
func Validate(s *model.Snapshot) error {
	if s.Prices == nil {
		s.Prices = make(map[string]model.MoneyValue)
	}
	if s.Rates == nil {
		s.Rates = make(map[string]float64)
	}

	for ticker, p := range s.Prices {
		if p.Value < 0 {
			return fmt.Errorf("%w: negative price %g for %s", ErrInvalidSnapshot, p.Value, ticker)
		}
		if p.Currency == "" {
			return fmt.Errorf("%w: empty currency for %s", ErrInvalidSnapshot, ticker)
		}
		p.Currency = strings.ToUpper(p.Currency)
		s.Prices[ticker] = p
	}

	rates := make(map[string]float64, len(s.Rates))
	for key, rate := range s.Rates {
		if rate <= 0 {
			return fmt.Errorf("%w: non-positive rate %g for %s", ErrInvalidSnapshot, rate, key)
		}
		rates[strings.ToUpper(key)] = rate
	}
	s.Rates = rates

	for _, b := range s.Benchmarks {
		if b.Name == "" {
			return fmt.Errorf("%w: benchmark without name", ErrInvalidSnapshot)
		}
	}

	return nil
}
