package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/spigell/talentsage/internal/assistant"
	"github.com/spigell/talentsage/internal/logger"
	"github.com/spigell/talentsage/internal/recruitment"
)

// Deps aggregates what the HTTP surface serves. Gatherer is optional; without
// it /metrics is not mounted.
type Deps struct {
	Store        *recruitment.Store
	Interpreter  *assistant.Interpreter
	Conversation *assistant.Conversation
	Logger       *zap.Logger
	Gatherer     prometheus.Gatherer
	Now          func() time.Time
}

type handler struct {
	store       *recruitment.Store
	interpreter *assistant.Interpreter
	conv        *assistant.Conversation
	logger      *zap.Logger
	now         func() time.Time
}

// NewRouter builds the gin engine exposing the store and the assistant.
func NewRouter(deps Deps) *gin.Engine {
	h := &handler{
		store:       deps.Store,
		interpreter: deps.Interpreter,
		conv:        deps.Conversation,
		logger:      logger.WithFields(deps.Logger),
		now:         deps.Now,
	}
	if h.now == nil {
		h.now = func() time.Time { return time.Now().UTC() }
	}

	router := gin.New()
	router.Use(requestLogger(h.logger), gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api")

	jobs := api.Group("/jobs")
	jobs.GET("", h.listJobs)
	jobs.GET("/:id", h.getJob)
	jobs.GET("/:id/candidates", h.jobCandidates)
	jobs.GET("/:id/rubric", h.getRubric)
	jobs.PUT("/:id/rubric", h.updateRubric)
	jobs.POST("/:id/rubric/generate", h.generateRubric)
	jobs.POST("/:id/shortlist", h.shortlist)

	candidates := api.Group("/candidates")
	candidates.GET("/:id", h.getCandidate)
	candidates.PATCH("/:id/stage", h.updateStage)
	candidates.PATCH("/:id/screening", h.updateScreening)
	candidates.POST("/:id/screening/decision", h.reviewScreening)
	candidates.GET("/:id/audit", h.candidateAudit)
	candidates.POST("/:id/interviews", h.scheduleInterview)

	api.GET("/screenings", h.listScreenings)
	api.GET("/audit", h.listAudit)

	chat := api.Group("/assistant")
	chat.GET("", h.assistantState)
	chat.GET("/messages", h.listMessages)
	chat.POST("/messages", h.sendMessage)
	chat.PUT("/job", h.setCurrentJob)
	chat.POST("/reset", h.resetConversation)

	return router
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
