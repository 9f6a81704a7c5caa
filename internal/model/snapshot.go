package model

// MoneyValue is a quoted price in the currency it trades in.
type MoneyValue struct {
	Currency string  `yaml:"currency" json:"currency"`
	Value    float64 `yaml:"price" json:"price"`
}

// Snapshot is the read-only market data an evaluation runs against.
type Snapshot struct {
	Prices     map[string]MoneyValue `yaml:"prices" json:"prices"`
	Rates      map[string]float64    `yaml:"rates" json:"rates"`
	Benchmarks []Benchmark           `yaml:"benchmarks" json:"benchmarks"`
}
