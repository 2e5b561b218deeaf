package recruitment

import (
	"fmt"
	"time"
)

// JobStats summarizes the pipeline of one job.
type JobStats struct {
	JobID   string        `json:"jobId"`
	Total   int           `json:"total"`
	ByStage map[Stage]int `json:"byStage"`
}

// JobStats counts the candidates of a job per stage. Every known stage is
// present in the result, unknown stages are counted under their own value.
func (s *Store) JobStats(jobID string) JobStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := JobStats{JobID: jobID, ByStage: make(map[Stage]int, len(Stages))}
	for _, stage := range Stages {
		stats.ByStage[stage] = 0
	}

	for _, c := range s.candidates {
		if c.JobID != jobID {
			continue
		}
		stats.Total++
		stats.ByStage[c.Stage]++
	}

	return stats
}

// TimeAgo renders t relative to now in the coarsest fitting unit.
func TimeAgo(t, now time.Time) string {
	d := now.Sub(t)

	switch {
	case d < time.Minute:
		return "Just now"
	case d < time.Hour:
		return plural(int(d/time.Minute), "minute")
	case d < 24*time.Hour:
		return plural(int(d/time.Hour), "hour")
	case d < 7*24*time.Hour:
		return plural(int(d/(24*time.Hour)), "day")
	case d < 30*24*time.Hour:
		return plural(int(d/(7*24*time.Hour)), "week")
	case d < 365*24*time.Hour:
		return plural(int(d/(30*24*time.Hour)), "month")
	default:
		return plural(int(d/(365*24*time.Hour)), "year")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
