package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agenthands/graphconsole/internal/assist"
	"github.com/agenthands/graphconsole/internal/datasource"
	"github.com/agenthands/graphconsole/internal/driver"
	"github.com/agenthands/graphconsole/internal/query"
)

type Server struct {
	Manager  *datasource.Manager
	Drafter  *assist.Drafter
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// NewServer wires the HTTP console. drafter may be nil when no assistant is
// configured; gatherer may be nil to disable /metrics.
func NewServer(manager *datasource.Manager, drafter *assist.Drafter, gatherer prometheus.Gatherer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		Manager:  manager,
		Drafter:  drafter,
		Gatherer: gatherer,
		Logger:   logger,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	// keep integer query parameters as json.Number
	binding.EnableDecoderUseNumber = true

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/datasources", s.ListDataSources)
	r.POST("/datasources/:name/query", s.Query)
	r.GET("/datasources/:name/metadata", s.Metadata)
	r.POST("/assist", s.Assist)

	if s.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{})))
	}

	return r
}

func (s *Server) ListDataSources(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"datasources": s.Manager.Names()})
}

type QueryRequest struct {
	Query  string         `json:"query"`
	Params map[string]any `json:"params"`
}

func (s *Server) Query(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	name := c.Param("name")
	result, err := s.Manager.Execute(c.Request.Context(), name, req.Query, query.NormalizeParams(req.Params))
	if err != nil {
		s.writeError(c, name, err)
		return
	}

	c.JSON(http.StatusOK, result.View())
}

func (s *Server) Metadata(c *gin.Context) {
	name := c.Param("name")
	meta, err := s.Manager.RefreshMetadata(c.Request.Context(), name)
	if err != nil {
		s.writeError(c, name, err)
		return
	}
	c.JSON(http.StatusOK, meta)
}

type AssistRequest struct {
	Request string `json:"request"`
}

func (s *Server) Assist(c *gin.Context) {
	if s.Drafter == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "assistant is not configured"})
		return
	}

	var req AssistRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Request) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	draft, err := s.Drafter.Draft(c.Request.Context(), req.Request)
	if err != nil {
		s.Logger.Warn("failed to draft query", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, draft)
}

func (s *Server) writeError(c *gin.Context, name string, err error) {
	var (
		clientErr *driver.ClientError
		neoErr    *neo4j.Neo4jError
	)

	switch {
	case errors.Is(err, datasource.ErrEmptyQuery):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, datasource.ErrUnknownDataSource):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, driver.ErrNotImplemented):
		c.JSON(http.StatusNotImplemented, gin.H{"error": err.Error()})
	case errors.As(err, &clientErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": clientErr.Error()})
	case errors.As(err, &neoErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": neoErr.Msg, "code": neoErr.Code})
	default:
		s.Logger.Error("query failed", "datasource", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
