package recruitment

import (
	"strings"

	"github.com/ecodeclub/ekit/slice"
)

// SearchJobs keeps the jobs whose title or department contains q, ignoring
// case. A blank query keeps everything.
func SearchJobs(jobs []Job, q string) []Job {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return jobs
	}

	return slice.FilterMap(jobs, func(_ int, j Job) (Job, bool) {
		return j, strings.Contains(strings.ToLower(j.Title), q) ||
			strings.Contains(strings.ToLower(j.Department), q)
	})
}

// SearchCandidates keeps the candidates whose name contains q, ignoring case.
func SearchCandidates(candidates []Candidate, q string) []Candidate {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return candidates
	}

	return slice.FilterMap(candidates, func(_ int, c Candidate) (Candidate, bool) {
		return c, strings.Contains(strings.ToLower(c.Name), q)
	})
}
