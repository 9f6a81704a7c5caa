package portfolio

import "github.com/STTM-NSU/portfolio-tracker/internal/model"

// ComparePerformance projects the portfolio's total return linearly over the
// labels of the first benchmark, starting from a base of 100, and lines up
// every benchmark value at the same index.
func ComparePerformance(totalGainLossPercent float64, benchmarks []model.Benchmark) []model.PerformancePoint {
	if len(benchmarks) == 0 || len(benchmarks[0].Points) == 0 {
		return nil
	}

	labels := benchmarks[0].Points
	n := float64(len(labels))
	points := make([]model.PerformancePoint, 0, len(labels))
	for i, label := range labels {
		p := model.PerformancePoint{
			Label:      label.Label,
			Portfolio:  100 + totalGainLossPercent*float64(i+1)/n,
			Benchmarks: make(map[string]float64, len(benchmarks)),
		}
		for _, b := range benchmarks {
			if i < len(b.Points) {
				p.Benchmarks[b.Name] = b.Points[i].Value
			}
		}
		points = append(points, p)
	}
	return points
}
