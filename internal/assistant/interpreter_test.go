package assistant

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/talentsage/internal/recruitment"
)

type fakeStore struct {
	jobs        []recruitment.Job
	shortlisted []string
	thresholds  []int
	generated   []string
	count       int
}

func (f *fakeStore) Jobs() []recruitment.Job { return f.jobs }

func (f *fakeStore) ShortlistTopCandidates(jobID string, threshold int) int {
	f.shortlisted = append(f.shortlisted, jobID)
	f.thresholds = append(f.thresholds, threshold)
	return f.count
}

func (f *fakeStore) GenerateRubricForJob(jobID string) {
	f.generated = append(f.generated, jobID)
}

func newTestConversation() *Conversation {
	seq := 0
	return NewConversation(
		WithClock(func() time.Time { return time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC) }),
		WithIDs(func() string {
			seq++
			return fmt.Sprintf("msg-%d", seq)
		}),
	)
}

func TestRulesOrder(t *testing.T) {
	i := NewInterpreter(&fakeStore{}, WithDelayer(NoDelay{}))

	assert.Equal(t, []string{
		IntentShortlist,
		IntentGenerateRubric,
		IntentScheduleInterview,
		IntentShow,
		IntentHelp,
	}, i.Rules())
}

func TestIntent(t *testing.T) {
	i := NewInterpreter(&fakeStore{}, WithDelayer(NoDelay{}))

	tests := []struct {
		input  string
		intent string
	}{
		{"shortlist the top candidates", IntentShortlist},
		{"please shortlist candidates now", IntentShortlist},
		{"SHORTLIST Candidate", IntentShortlist},
		{"generate a rubric and shortlist candidates", IntentShortlist},
		{"generate rubric", IntentGenerateRubric},
		{"Generate the evaluation RUBRIC", IntentGenerateRubric},
		{"schedule an interview and generate a rubric", IntentGenerateRubric},
		{"schedule interview with Sarah", IntentScheduleInterview},
		{"show candidates", IntentShow},
		{"view jobs", IntentShow},
		{"show me something", IntentShow},
		{"preview the interview", IntentShow},
		{"shortlist", IntentHelp},
		{"hello", IntentHelp},
		{"", IntentHelp},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.intent, i.Intent(tt.input))
		})
	}
}

func TestProcessShortlist(t *testing.T) {
	store := &fakeStore{jobs: []recruitment.Job{{ID: "job-7"}}, count: 2}
	i := NewInterpreter(store, WithDelayer(NoDelay{}))
	conv := newTestConversation()

	msg, err := i.Process(context.Background(), conv, "Shortlist the top candidates")
	require.NoError(t, err)

	assert.Equal(t, []string{"job-7"}, store.shortlisted)
	assert.Equal(t, []int{recruitment.DefaultShortlistThreshold}, store.thresholds)
	assert.Equal(t, RoleAssistant, msg.Role)
	assert.Equal(t, "I've successfully shortlisted 2 top candidates with scores above 85 for this position. You can review them in the Shortlisted tab.", msg.Content)
	assert.Equal(t, []SuggestedAction{{Label: "View Shortlisted Candidates", Action: "view_shortlisted"}}, msg.Actions)
	assert.Empty(t, store.generated)
}

func TestProcessTieBreakRunsOnlyFirstRule(t *testing.T) {
	store := &fakeStore{}
	i := NewInterpreter(store, WithDelayer(NoDelay{}))

	_, err := i.Process(context.Background(), newTestConversation(), "generate rubric then shortlist candidates")
	require.NoError(t, err)

	assert.Len(t, store.shortlisted, 1)
	assert.Empty(t, store.generated)
}

func TestProcessGenerateRubric(t *testing.T) {
	store := &fakeStore{jobs: []recruitment.Job{{ID: "job-2"}, {ID: "job-3"}}}
	i := NewInterpreter(store, WithDelayer(NoDelay{}))
	conv := newTestConversation()
	conv.SetCurrentJobID("job-3")

	msg, err := i.Process(context.Background(), conv, "generate rubric")
	require.NoError(t, err)

	assert.Equal(t, []string{"job-3"}, store.generated)
	assert.Len(t, msg.Actions, 2)
	assert.Equal(t, "view_rubric", msg.Actions[0].Action)
	assert.Equal(t, "edit_rubric", msg.Actions[1].Action)
}

func TestJobResolution(t *testing.T) {
	tests := []struct {
		name    string
		current string
		jobs    []recruitment.Job
		want    string
	}{
		{name: "current job wins", current: "job-9", jobs: []recruitment.Job{{ID: "job-2"}}, want: "job-9"},
		{name: "first store job", jobs: []recruitment.Job{{ID: "job-2"}, {ID: "job-1"}}, want: "job-2"},
		{name: "fallback", want: FallbackJobID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{jobs: tt.jobs}
			i := NewInterpreter(store, WithDelayer(NoDelay{}))
			conv := newTestConversation()
			conv.SetCurrentJobID(tt.current)

			_, err := i.Process(context.Background(), conv, "shortlist candidates")
			require.NoError(t, err)
			assert.Equal(t, []string{tt.want}, store.shortlisted)
		})
	}
}

func TestProcessRepliesWithoutMutation(t *testing.T) {
	tests := []struct {
		input   string
		content string
		actions []string
	}{
		{
			input:   "schedule an interview",
			content: "I can help you schedule an interview. Please select a candidate and provide your preferred date and time.",
			actions: []string{"schedule_interview"},
		},
		{
			input:   "show candidates",
			content: "Here are the current candidates. You can filter by stage or search by name.",
			actions: []string{"view_candidates"},
		},
		{
			input:   "view all jobs",
			content: "Here are all active job postings.",
			actions: []string{"view_jobs"},
		},
		{
			input:   "what can you do?",
			content: "I can help you with:\n• Shortlisting top candidates\n• Generating evaluation rubrics\n• Scheduling interviews\n• Viewing candidates and jobs\n\nWhat would you like to do?",
			actions: []string{"shortlist", "generate_rubric", "schedule"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			store := &fakeStore{}
			i := NewInterpreter(store, WithDelayer(NoDelay{}))

			msg, err := i.Process(context.Background(), newTestConversation(), tt.input)
			require.NoError(t, err)

			assert.Equal(t, tt.content, msg.Content)
			got := make([]string, len(msg.Actions))
			for idx, a := range msg.Actions {
				got[idx] = a.Action
			}
			assert.Equal(t, tt.actions, got)
			assert.Empty(t, store.shortlisted)
			assert.Empty(t, store.generated)
		})
	}
}

func TestShowWithoutTargetEmitsEmptyMessage(t *testing.T) {
	i := NewInterpreter(&fakeStore{}, WithDelayer(NoDelay{}))
	conv := newTestConversation()

	msg, err := i.Process(context.Background(), conv, "show me the pipeline")
	require.NoError(t, err)

	assert.Equal(t, RoleAssistant, msg.Role)
	assert.Empty(t, msg.Content)
	assert.Empty(t, msg.Actions)
	assert.Len(t, conv.Messages(), 2)
}

func TestProcessAppendsExactlyOneMessageAndResetsMode(t *testing.T) {
	i := NewInterpreter(&fakeStore{}, WithDelayer(NoDelay{}))
	conv := newTestConversation()

	_, err := i.Process(context.Background(), conv, "hello")
	require.NoError(t, err)

	messages := conv.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, Greeting, messages[0].Content)
	assert.Equal(t, RoleAssistant, messages[1].Role)
	assert.Equal(t, ModeIdle, conv.Mode())
}

type observingDelayer struct {
	conv *Conversation
	seen Mode
}

func (d *observingDelayer) Wait(context.Context) error {
	d.seen = d.conv.Mode()
	return nil
}

func TestProcessThinksDuringDelay(t *testing.T) {
	conv := newTestConversation()
	delayer := &observingDelayer{conv: conv}
	i := NewInterpreter(&fakeStore{}, WithDelayer(delayer))

	_, err := i.Process(context.Background(), conv, "hello")
	require.NoError(t, err)

	assert.Equal(t, ModeThinking, delayer.seen)
	assert.Equal(t, ModeIdle, conv.Mode())
}

func TestProcessCancelled(t *testing.T) {
	store := &fakeStore{}
	i := NewInterpreter(store, WithDelayer(SleepDelayer{Duration: time.Hour}))
	conv := newTestConversation()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := i.Process(ctx, conv, "shortlist candidates")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))

	assert.Len(t, conv.Messages(), 1)
	assert.Empty(t, store.shortlisted)
	assert.Equal(t, ModeIdle, conv.Mode())
}

func TestSubmit(t *testing.T) {
	i := NewInterpreter(&fakeStore{}, WithDelayer(NoDelay{}))
	conv := newTestConversation()

	_, err := i.Submit(context.Background(), conv, "   ")
	assert.ErrorIs(t, err, ErrEmptyCommand)
	assert.Len(t, conv.Messages(), 1)

	_, err = i.Submit(context.Background(), conv, "  view jobs ")
	require.NoError(t, err)

	messages := conv.Messages()
	require.Len(t, messages, 3)
	assert.Equal(t, RoleUser, messages[1].Role)
	assert.Equal(t, "view jobs", messages[1].Content)
	assert.Equal(t, RoleAssistant, messages[2].Role)
}

func TestWithThreshold(t *testing.T) {
	store := &fakeStore{count: 1}
	i := NewInterpreter(store, WithDelayer(NoDelay{}), WithThreshold(70))

	msg, err := i.Process(context.Background(), newTestConversation(), "shortlist candidates")
	require.NoError(t, err)

	assert.Equal(t, []int{70}, store.thresholds)
	assert.Contains(t, msg.Content, "scores above 70")
}

func TestMetricsCountIntents(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	i := NewInterpreter(&fakeStore{}, WithDelayer(NoDelay{}), WithMetrics(metrics))
	conv := newTestConversation()

	for _, input := range []string{"shortlist candidates", "hello", "help me"} {
		_, err := i.Process(context.Background(), conv, input)
		require.NoError(t, err)
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Commands.WithLabelValues(IntentShortlist)))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Commands.WithLabelValues(IntentHelp)))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.Commands.WithLabelValues(IntentShow)))
}

func TestProcessAgainstRealStore(t *testing.T) {
	store := recruitment.NewStore(recruitment.Fixtures{
		Jobs: []recruitment.Job{{ID: "job-1", Department: "Frontend"}},
		Candidates: []recruitment.Candidate{
			{ID: "c1", JobID: "job-1", Score: 90, Stage: recruitment.StageApplied},
			{ID: "c2", JobID: "job-1", Score: 75, Stage: recruitment.StageApplied},
			{ID: "c3", JobID: "job-1", Score: 88, Stage: recruitment.StageApplied},
		},
	}, nil)
	i := NewInterpreter(store, WithDelayer(NoDelay{}))

	msg, err := i.Process(context.Background(), newTestConversation(), "shortlist the top candidates")
	require.NoError(t, err)

	assert.Contains(t, msg.Content, "shortlisted 2 top candidates")
	assert.Len(t, store.CandidatesByStage("job-1", recruitment.StageShortlisted), 2)
	assert.Len(t, store.AuditEvents(), 2)
}
