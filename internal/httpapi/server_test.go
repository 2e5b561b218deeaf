package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/talentsage/internal/assistant"
	"github.com/spigell/talentsage/internal/recruitment"
)

type testServer struct {
	router *gin.Engine
	store  *recruitment.Store
	conv   *assistant.Conversation
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := recruitment.NewStore(recruitment.DefaultFixtures(), nil)
	reg := prometheus.NewRegistry()
	interpreter := assistant.NewInterpreter(store,
		assistant.WithDelayer(assistant.NoDelay{}),
		assistant.WithMetrics(assistant.NewMetrics(reg)),
	)
	conv := assistant.NewConversation()

	router := NewRouter(Deps{
		Store:        store,
		Interpreter:  interpreter,
		Conversation: conv,
		Gatherer:     reg,
		Now:          func() time.Time { return time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC) },
	})

	return &testServer{router: router, store: store, conv: conv}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListJobs(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/api/jobs", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[struct {
		Jobs []jobView `json:"jobs"`
	}](t, rec)
	require.Len(t, body.Jobs, 5)
	assert.Equal(t, "job-1", body.Jobs[0].ID)
	assert.Equal(t, 4, body.Jobs[0].Stats.Total)

	rec = s.do(t, http.MethodGet, "/api/jobs?q=engineer", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode[struct {
		Jobs []jobView `json:"jobs"`
	}](t, rec)
	require.Len(t, body.Jobs, 2)
	assert.Equal(t, "job-3", body.Jobs[1].ID)
}

func TestGetJobNotFound(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/api/jobs/job-404", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestJobCandidatesByStage(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/api/jobs/job-1/candidates?stage=Applied", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[struct {
		Candidates []recruitment.Candidate `json:"candidates"`
	}](t, rec)
	assert.Len(t, body.Candidates, 3)

	rec = s.do(t, http.MethodGet, "/api/jobs/job-1/candidates", nil)
	body = decode[struct {
		Candidates []recruitment.Candidate `json:"candidates"`
	}](t, rec)
	assert.Len(t, body.Candidates, 4)
}

func TestShortlistEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/jobs/job-1/shortlist", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[map[string]any](t, rec)
	assert.EqualValues(t, 2, body["shortlisted"])
	assert.EqualValues(t, 85, body["threshold"])

	rec = s.do(t, http.MethodPost, "/api/jobs/job-2/shortlist", map[string]int{"threshold": 70})
	body = decode[map[string]any](t, rec)
	assert.EqualValues(t, 1, body["shortlisted"])
}

func TestUpdateRubricValidatesAtEditBoundary(t *testing.T) {
	s := newTestServer(t)

	invalid := recruitment.Rubric{Criteria: []recruitment.Criterion{
		{ID: "1", Name: "Test", Weight: 40},
		{ID: "2", Name: "Test2", Weight: 40},
	}}
	rec := s.do(t, http.MethodPut, "/api/jobs/job-1/rubric", invalid)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "currently 80")
	assert.Equal(t, recruitment.RubricTemplates()["job-1"], s.store.Rubric("job-1"))

	valid := recruitment.Rubric{Criteria: []recruitment.Criterion{
		{ID: "tech", Name: "Technical Skills", Weight: 40},
		{ID: "comm", Name: "Communication", Weight: 30},
		{ID: "culture", Name: "Culture Fit", Weight: 30},
	}}
	rec = s.do(t, http.MethodPut, "/api/jobs/job-1/rubric", valid)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, valid, s.store.Rubric("job-1"))

	rec = s.do(t, http.MethodGet, "/api/jobs/job-1/rubric", nil)
	body := decode[map[string]any](t, rec)
	assert.EqualValues(t, 100, body["totalWeight"])
}

func TestGenerateRubricEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/jobs/job-3/rubric/generate", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, recruitment.RubricTemplates()[recruitment.DefaultRubricKey], s.store.Rubric("job-3"))

	rec = s.do(t, http.MethodPost, "/api/jobs/job-404/rubric/generate", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateStageEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPatch, "/api/candidates/cand-2/stage", map[string]string{"stage": "interview"})
	require.Equal(t, http.StatusOK, rec.Code)

	c, _ := s.store.Candidate("cand-2")
	assert.Equal(t, recruitment.StageInterview, c.Stage)

	events := s.store.CandidateAuditEvents("cand-2")
	require.Len(t, events, 1)
	assert.Equal(t, recruitment.ActorRecruiter, events[0].User)

	rec = s.do(t, http.MethodPatch, "/api/candidates/nope/stage", map[string]string{"stage": "offer"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPatch, "/api/candidates/cand-2/stage", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScreeningEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/screenings?filter=pending", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	pending := decode[struct {
		Candidates []recruitment.Candidate `json:"candidates"`
	}](t, rec)
	require.Len(t, pending.Candidates, 1)
	assert.Equal(t, "cand-1", pending.Candidates[0].ID)

	rec = s.do(t, http.MethodPost, "/api/candidates/cand-1/screening/decision", map[string]string{"decision": "Hold", "reviewer": "Jane"})
	require.Equal(t, http.StatusOK, rec.Code)

	c, _ := s.store.Candidate("cand-1")
	assert.Equal(t, recruitment.DecisionHold, c.VideoScreening.Decision)
	assert.Equal(t, "Jane", c.VideoScreening.ReviewedBy)
	require.NotNil(t, c.VideoScreening.ReviewedAt)
	assert.Equal(t, 5, c.VideoScreening.ReviewedAt.Day())
	assert.Empty(t, s.store.CandidateAuditEvents("cand-1"))

	rec = s.do(t, http.MethodPost, "/api/candidates/cand-2/screening/decision", map[string]string{"decision": "pass"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/candidates/cand-1/screening/decision", map[string]string{"decision": "maybe"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPatch, "/api/candidates/cand-2/screening", map[string]any{"submitted": true, "transcript": "hello"})
	require.Equal(t, http.StatusOK, rec.Code)
	c, _ = s.store.Candidate("cand-2")
	require.NotNil(t, c.VideoScreening)
	assert.True(t, c.VideoScreening.Submitted)

	rec = s.do(t, http.MethodGet, "/api/screenings?q=priya", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	found := decode[struct {
		Candidates []recruitment.Candidate `json:"candidates"`
	}](t, rec)
	require.Len(t, found.Candidates, 1)
	assert.Equal(t, "cand-3", found.Candidates[0].ID)

	rec = s.do(t, http.MethodGet, "/api/screenings?filter=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScheduleInterviewEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/candidates/cand-4/interviews", recruitment.Interview{
		Date: "2024-03-12", Time: "14:00", Interviewer: "Alex", Format: "video",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "Interview scheduled for 2024-03-12 at 14:00")

	rec = s.do(t, http.MethodGet, "/api/candidates/cand-4/audit", nil)
	body := decode[struct {
		Events []recruitment.AuditEvent `json:"events"`
	}](t, rec)
	require.Len(t, body.Events, 1)
	assert.Equal(t, recruitment.AuditInterviewScheduled, body.Events[0].Type)

	rec = s.do(t, http.MethodPost, "/api/candidates/cand-4/interviews", map[string]string{"date": "2024-03-12"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssistantMessages(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPut, "/api/assistant/job", map[string]string{"jobId": "job-2"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/assistant/messages", map[string]string{"content": "Generate a rubric"})
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decode[struct {
		Message assistant.ChatMessage `json:"message"`
	}](t, rec)
	assert.Equal(t, assistant.RoleAssistant, body.Message.Role)
	assert.True(t, strings.HasPrefix(body.Message.Content, "I've generated a customized evaluation rubric"))
	assert.Len(t, s.conv.Messages(), 3)

	events := s.store.AuditEvents()
	assert.Equal(t, recruitment.AuditRubricGenerated, events[0].Type)
	assert.Equal(t, "job-2", events[0].JobID)

	rec = s.do(t, http.MethodPost, "/api/assistant/messages", map[string]string{"content": "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/assistant/job", map[string]string{"jobId": "job-404"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/assistant", nil)
	state := decode[map[string]any](t, rec)
	assert.Equal(t, "idle", state["mode"])
	assert.Equal(t, "job-2", state["currentJobId"])
	assert.Equal(t, false, state["listening"])
	assert.Equal(t, false, state["speaking"])

	rec = s.do(t, http.MethodPost, "/api/assistant/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, s.conv.Messages(), 1)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)

	s.do(t, http.MethodPost, "/api/assistant/messages", map[string]string{"content": "show jobs"})

	rec := s.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `talentsage_assistant_commands_total{intent="show"} 1`)
}
