package stats

import (
	"fmt"

	"github.com/vytor/matchlog/internal/i18n"
	"github.com/vytor/matchlog/internal/models"
)

// RunRecord is satisfied by models.Run and models.SourcedRun.
type RunRecord interface {
	Timestamped
	Record() models.Run
}

// RunStats summarizes take-two runs.
type RunStats struct {
	Total       int    `json:"total"`
	TotalWins   int    `json:"totalWins"`
	AverageWins string `json:"averageWins"`
	// WinDistribution[n] is the number of runs that ended with n wins.
	WinDistribution [models.MaxRunWins + 1]int `json:"winDistribution"`
}

// SummarizeRuns computes the run count, average wins and the win-count
// histogram. Wins outside 0..7 are clamped into the histogram.
func SummarizeRuns[T RunRecord](runs []T, t i18n.Translator) RunStats {
	var s RunStats
	for _, item := range runs {
		r := item.Record()
		s.Total++
		s.TotalWins += r.Wins
		bucket := min(max(r.Wins, 0), models.MaxRunWins)
		s.WinDistribution[bucket]++
	}
	if s.Total == 0 {
		s.AverageWins = notApplicable(t)
	} else {
		s.AverageWins = fmt.Sprintf("%.2f", float64(s.TotalWins)/float64(s.Total))
	}
	return s
}
