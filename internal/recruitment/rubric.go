package recruitment

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// DefaultRubricKey is the rubric used for jobs without their own rubric.
const DefaultRubricKey = "default"

// RequiredWeightTotal is the weight sum the rubric editor insists on.
const RequiredWeightTotal = 100

var ErrInvalidWeightTotal = errors.New("rubric weights must add up to 100")

type Criterion struct {
	ID          string `json:"id" mapstructure:"id"`
	Name        string `json:"name" mapstructure:"name"`
	Weight      int    `json:"weight" mapstructure:"weight"`
	Description string `json:"description" mapstructure:"description"`
}

type Rubric struct {
	Criteria []Criterion `json:"criteria" mapstructure:"criteria"`
}

// TotalWeight sums the weights of all criteria.
func (r Rubric) TotalWeight() int {
	total := 0
	for _, c := range r.Criteria {
		total += c.Weight
	}
	return total
}

// Validate is the check performed when a human edits a rubric. The store itself
// never calls it, so generated or restored rubrics may carry any total.
func (r Rubric) Validate() error {
	if total := r.TotalWeight(); total != RequiredWeightTotal {
		return fmt.Errorf("%w: currently %d", ErrInvalidWeightTotal, total)
	}
	return nil
}

func (r Rubric) clone() Rubric {
	return Rubric{Criteria: slices.Clone(r.Criteria)}
}

// CalculateScore weights the candidate's per-criterion evaluation scores by the
// rubric and rounds the result. Missing scores count as zero.
func CalculateScore(c Candidate, r Rubric) int {
	if len(r.Criteria) == 0 {
		return 0
	}

	total := 0.0
	for _, criterion := range r.Criteria {
		score := 0
		if c.Evaluation != nil {
			score = c.Evaluation.Scores[criterion.ID]
		}
		total += float64(score*criterion.Weight) / 100
	}

	return int(math.Round(total))
}

// RubricTemplates returns the built-in rubric templates keyed by template name.
// Every call returns fresh copies.
func RubricTemplates() map[string]Rubric {
	return map[string]Rubric{
		"job-1": {Criteria: []Criterion{
			{ID: "tech", Name: "Technical Skills", Weight: 40, Description: "React, TypeScript, modern CSS and testing practices"},
			{ID: "problem", Name: "Problem Solving", Weight: 25, Description: "Breaks down ambiguous UI problems into shippable steps"},
			{ID: "comm", Name: "Communication", Weight: 20, Description: "Explains trade-offs clearly to designers and engineers"},
			{ID: "culture", Name: "Culture Fit", Weight: 15, Description: "Ownership, curiosity and team alignment"},
		}},
		"job-2": {Criteria: []Criterion{
			{ID: "portfolio", Name: "Design Portfolio", Weight: 35, Description: "Quality and range of shipped product work"},
			{ID: "research", Name: "User Research", Weight: 25, Description: "Grounds decisions in user evidence"},
			{ID: "collab", Name: "Collaboration", Weight: 20, Description: "Works closely with product and engineering"},
			{ID: "comm", Name: "Communication", Weight: 20, Description: "Presents and defends design rationale"},
		}},
		DefaultRubricKey: {Criteria: []Criterion{
			{ID: "tech", Name: "Technical Skills", Weight: 35, Description: "Core skills required for the role"},
			{ID: "problem", Name: "Problem Solving", Weight: 25, Description: "Analytical thinking and approach to new problems"},
			{ID: "comm", Name: "Communication", Weight: 20, Description: "Clear written and verbal communication"},
			{ID: "culture", Name: "Culture Fit", Weight: 20, Description: "Team alignment and shared values"},
		}},
	}
}

// departmentTemplates maps a job department to the template generated for it.
var departmentTemplates = map[string]string{
	"Frontend": "job-1",
	"Design":   "job-2",
	"DevOps":   DefaultRubricKey,
	"Data":     DefaultRubricKey,
	"Sales":    DefaultRubricKey,
}

// TemplateForDepartment returns the template key generated for a department.
// Unmapped departments fall back to the default template.
func TemplateForDepartment(department string) string {
	if key, ok := departmentTemplates[department]; ok {
		return key
	}
	return DefaultRubricKey
}
