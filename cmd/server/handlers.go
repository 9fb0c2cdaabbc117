package main

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rhyrak/pick-scheduler/internal/config"
	"github.com/rhyrak/pick-scheduler/internal/metrics"
	"github.com/rhyrak/pick-scheduler/internal/scheduler"
	appErrors "github.com/rhyrak/pick-scheduler/pkg/errors"
)

const (
	scheduleSuffix  = "-schedule.csv"
	requestIDHeader = "X-Request-ID"
)

type server struct {
	cfg      *config.Config
	log      *zap.Logger
	recorder *metrics.Recorder
	solver   scheduler.Solver
}

func newServer(cfg *config.Config, log *zap.Logger, recorder *metrics.Recorder, solver scheduler.Solver) *server {
	return &server{cfg: cfg, log: log, recorder: recorder, solver: solver}
}

func (s *server) generatedDir() string {
	return filepath.Join(s.cfg.Server.StorageDir, "generated")
}

func (s *server) schedulePath(id string) string {
	return filepath.Join(s.generatedDir(), id+scheduleSuffix)
}

func (s *server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger(), cors)

	r.GET("/schedule", s.handleGetSchedule)
	r.GET("/schedule/:id", s.handleGetScheduleWithId)
	r.POST("/schedule", s.handlePostSchedule)
	r.GET("/metrics", gin.WrapH(s.recorder.Handler()))
	return r
}

func cors(c *gin.Context) {
	c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
	c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
	c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
	c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}

	c.Next()
}

func (s *server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Writer.Header().Set(requestIDHeader, reqID)

		c.Next()
		s.log.Info("request",
			zap.String("request_id", reqID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func (s *server) handleGetSchedule(ctx *gin.Context) {
	files, err := os.ReadDir(s.generatedDir())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		s.log.Error("failed to list schedules", zap.Error(err))
		ctx.Status(http.StatusInternalServerError)
		return
	}

	allIDs := []string{}
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		if id, ok := strings.CutSuffix(file.Name(), scheduleSuffix); ok {
			allIDs = append(allIDs, id)
		}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"scheduleIds": allIDs,
	})
}

func (s *server) handleGetScheduleWithId(ctx *gin.Context) {
	id := ctx.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		ctx.Status(http.StatusNotFound)
		return
	}

	content, err := os.ReadFile(s.schedulePath(id))
	if err != nil {
		ctx.Status(http.StatusNotFound)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data": string(content),
	})
}

func (s *server) handlePostSchedule(ctx *gin.Context) {
	rosterFile, err := ctx.FormFile("roster")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, appErrors.Clone(appErrors.ErrMalformedInput, "missing roster file"))
		return
	}
	capacityFile, err := ctx.FormFile("capacities")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		ctx.JSON(http.StatusBadRequest, appErrors.Clone(appErrors.ErrMalformedInput, err.Error()))
		return
	}

	out, err := s.createAndExportSchedule(ctx.Request.Context(), rosterFile, capacityFile, ctx.PostForm("policy"))
	if err != nil && !errors.Is(err, appErrors.ErrIncomplete) {
		appErr := appErrors.FromError(err)
		s.log.Warn("schedule request failed", zap.String("code", appErr.Code), zap.Error(err))
		ctx.JSON(statusFor(appErr), appErr)
		return
	}

	body := gin.H{
		"id":        out.id,
		"status":    out.status.String(),
		"objective": out.objective,
	}
	if err != nil {
		body["warning"] = err.Error()
	}
	ctx.JSON(http.StatusOK, body)
}

func statusFor(err *appErrors.Error) int {
	switch err.Code {
	case appErrors.ErrMalformedInput.Code, appErrors.ErrIdentityCollision.Code, appErrors.ErrInvalidConfig.Code:
		return http.StatusBadRequest
	case appErrors.ErrInfeasible.Code, appErrors.ErrNoSolution.Code:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
