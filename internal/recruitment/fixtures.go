package recruitment

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Fixtures is the seed data a store starts from on every process start.
type Fixtures struct {
	Jobs        []Job             `mapstructure:"jobs"`
	Candidates  []Candidate       `mapstructure:"candidates"`
	Rubrics     map[string]Rubric `mapstructure:"rubrics"`
	AuditEvents []AuditEvent      `mapstructure:"auditEvents"`
}

// LoadFixtures reads seed data from a YAML or JSON file. Rubrics missing from
// the file are filled from the built-in templates.
func LoadFixtures(path string) (Fixtures, error) {
	var fixtures Fixtures

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fixtures, fmt.Errorf("reading fixtures file %q: %w", path, err)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &fixtures,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fixtures, fmt.Errorf("create fixtures decoder: %w", err)
	}

	if err := decoder.Decode(v.AllSettings()); err != nil {
		return fixtures, fmt.Errorf("decode fixtures file %q: %w", path, err)
	}

	if fixtures.Rubrics == nil {
		fixtures.Rubrics = make(map[string]Rubric)
	}
	for key, template := range RubricTemplates() {
		if _, ok := fixtures.Rubrics[key]; !ok {
			fixtures.Rubrics[key] = template
		}
	}

	return fixtures, nil
}

// DefaultFixtures returns the built-in demo workspace.
func DefaultFixtures() Fixtures {
	posted := func(day int) time.Time { return time.Date(2024, time.January, day, 9, 0, 0, 0, time.UTC) }
	applied := func(day int) time.Time { return time.Date(2024, time.February, day, 14, 30, 0, 0, time.UTC) }

	return Fixtures{
		Jobs: []Job{
			{
				ID: "job-1", Title: "Senior Frontend Engineer", Department: "Frontend", Location: "Remote",
				Type: "Full-time", Status: JobActive, Applicants: 4, PostedAt: posted(8),
				Description: "Build and own the candidate-facing web experience with React and TypeScript.",
			},
			{
				ID: "job-2", Title: "Product Designer", Department: "Design", Location: "Berlin",
				Type: "Full-time", Status: JobActive, Applicants: 2, PostedAt: posted(12),
				Description: "Shape end-to-end hiring workflows from research to polished UI.",
			},
			{
				ID: "job-3", Title: "DevOps Engineer", Department: "DevOps", Location: "London",
				Type: "Full-time", Status: JobActive, Applicants: 1, PostedAt: posted(15),
				Description: "Run our Kubernetes platform and CI/CD pipelines.",
			},
			{
				ID: "job-4", Title: "Data Analyst", Department: "Data", Location: "Remote",
				Type: "Contract", Status: JobDraft, Applicants: 0, PostedAt: posted(20),
				Description: "Turn hiring funnel data into decisions for recruiting teams.",
			},
			{
				ID: "job-5", Title: "Account Executive", Department: "Sales", Location: "New York",
				Type: "Full-time", Status: JobClosed, Applicants: 1, PostedAt: posted(3),
				Description: "Close mid-market deals for the TalentSage platform.",
			},
		},
		Candidates: []Candidate{
			{
				ID: "cand-1", JobID: "job-1", Name: "Sarah Chen", Email: "sarah.chen@example.com",
				Phone: "+1 555 0101", Location: "San Francisco, CA", Score: 92, Stage: StageApplied,
				Skills:     []string{"React", "TypeScript", "GraphQL"},
				Experience: "7 years building design systems", Education: "BSc Computer Science, UC Berkeley",
				AppliedAt: applied(1),
				Evaluation: &Evaluation{
					TechnicalScore: 94, CommunicationScore: 88, CultureFitScore: 90,
					Summary: "Strong frontend architect with mentoring experience.",
					Scores:  map[string]int{"tech": 94, "problem": 90, "comm": 88, "culture": 90},
				},
				VideoScreening: &VideoScreening{
					Submitted: true, Duration: "4:12",
					Transcript:     "I led the migration of our component library to TypeScript...",
					Scores:         map[string]int{"communication": 90, "technical": 93, "confidence": 87},
					Recommendation: "Advance to technical interview.",
				},
			},
			{
				ID: "cand-2", JobID: "job-1", Name: "Marcus Johnson", Email: "marcus.j@example.com",
				Phone: "+1 555 0102", Location: "Austin, TX", Score: 78, Stage: StageApplied,
				Skills:     []string{"Vue", "JavaScript", "CSS"},
				Experience: "4 years in agency frontend work", Education: "Bootcamp graduate",
				AppliedAt: applied(3),
			},
			{
				ID: "cand-3", JobID: "job-1", Name: "Priya Patel", Email: "priya.patel@example.com",
				Phone: "+1 555 0103", Location: "Toronto, ON", Score: 88, Stage: StageInterview,
				Skills:     []string{"React", "Next.js", "Testing Library"},
				Experience: "6 years at product startups", Education: "MSc Software Engineering",
				AppliedAt: applied(4),
				VideoScreening: &VideoScreening{
					Submitted: true, Duration: "3:47",
					Transcript: "My favourite project was an accessibility overhaul...",
					Scores:     map[string]int{"communication": 92, "technical": 85, "confidence": 90},
					Decision:   DecisionPass, ReviewedBy: "Current Recruiter",
				},
			},
			{
				ID: "cand-4", JobID: "job-1", Name: "Tom Becker", Email: "tom.becker@example.com",
				Phone: "+49 555 0104", Location: "Munich", Score: 86, Stage: StageApplied,
				Skills:     []string{"React", "Redux", "Storybook"},
				Experience: "5 years in e-commerce", Education: "BSc Informatics, TU Munich",
				AppliedAt: applied(6),
			},
			{
				ID: "cand-5", JobID: "job-2", Name: "Elena Rossi", Email: "elena.rossi@example.com",
				Phone: "+39 555 0105", Location: "Milan", Score: 90, Stage: StageShortlisted,
				Skills:     []string{"Figma", "User Research", "Prototyping"},
				Experience: "8 years in product design", Education: "MA Interaction Design",
				AppliedAt: applied(2),
			},
			{
				ID: "cand-6", JobID: "job-2", Name: "James Okafor", Email: "james.okafor@example.com",
				Phone: "+44 555 0106", Location: "London", Score: 74, Stage: StageApplied,
				Skills:     []string{"Sketch", "Illustration"},
				Experience: "3 years in visual design", Education: "BA Graphic Design",
				AppliedAt: applied(7),
			},
			{
				ID: "cand-7", JobID: "job-3", Name: "Lina Haddad", Email: "lina.haddad@example.com",
				Phone: "+971 555 0107", Location: "Dubai", Score: 95, Stage: StageOffer,
				Skills:     []string{"Kubernetes", "Terraform", "Go"},
				Experience: "9 years in platform engineering", Education: "BEng Computer Engineering",
				AppliedAt: applied(5),
			},
			{
				ID: "cand-8", JobID: "job-5", Name: "Daniel Kim", Email: "daniel.kim@example.com",
				Phone: "+1 555 0108", Location: "New York, NY", Score: 65, Stage: StageRejected,
				Skills:     []string{"Salesforce", "Negotiation"},
				Experience: "2 years in SDR roles", Education: "BA Economics",
				AppliedAt: applied(9),
			},
		},
		Rubrics: RubricTemplates(),
		AuditEvents: []AuditEvent{
			{
				ID: "audit-1", CandidateID: "cand-3", Type: AuditStageChange,
				Timestamp:   applied(10),
				Description: "Moved from shortlisted to interview", User: "Current Recruiter",
				Metadata: map[string]any{"from": StageShortlisted, "to": StageInterview},
			},
		},
	}
}
