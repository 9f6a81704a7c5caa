package portfolio

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidConfig = errors.New("invalid evaluation config")
	ErrOversell      = errors.New("sell exceeds held quantity")
)

// OversellPolicy decides what the ledger does with a sell larger than the
// quantity held at that point of the replay. Sells against an empty or
// negative holding are skipped whatever the policy.
type OversellPolicy int

const (
	// Lenient processes the whole sell and lets the holding go negative.
	Lenient OversellPolicy = iota
	// Clamp sells at most the held quantity.
	Clamp
	// Reject fails the evaluation with ErrOversell.
	Reject
)

func (p OversellPolicy) String() string {
	switch p {
	case Lenient:
		return "lenient"
	case Clamp:
		return "clamp"
	case Reject:
		return "reject"
	default:
		return "unknown"
	}
}

func ParseOversellPolicy(s string) (OversellPolicy, error) {
	switch strings.ToLower(s) {
	case "", "lenient":
		return Lenient, nil
	case "clamp":
		return Clamp, nil
	case "reject":
		return Reject, nil
	default:
		return 0, fmt.Errorf("unknown oversell policy: %q", s)
	}
}

// Config is owned by the caller and passed to every evaluation.
type Config struct {
	BaseCurrency   string
	OversellPolicy OversellPolicy
}

func (c Config) Validate() error {
	if c.BaseCurrency == "" {
		return fmt.Errorf("%w: empty base currency", ErrInvalidConfig)
	}
	if c.OversellPolicy < Lenient || c.OversellPolicy > Reject {
		return fmt.Errorf("%w: oversell policy %d", ErrInvalidConfig, c.OversellPolicy)
	}
	return nil
}
