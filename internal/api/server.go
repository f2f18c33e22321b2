package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v5"
	"golang.org/x/time/rate"

	"github.com/seqlogic/nucleus/internal/logger"
)

type Server struct {
	service *SamplingService
	limiter *rate.Limiter
	log     logger.Logger
	clock   func() time.Time
}

// NewServer wires the sampling service into an HTTP surface. rps bounds the
// request rate across all endpoints; 0 disables limiting.
func NewServer(service *SamplingService, rps float64, log logger.Logger) *Server {
	var limiter *rate.Limiter
	if rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), int(rps)+1)
	}
	if log == nil {
		log = logger.Default()
	}
	return &Server{
		service: service,
		limiter: limiter,
		log:     log,
		clock:   time.Now,
	}
}

func (s *Server) Register(e *echo.Echo) {
	g := e.Group("", s.rateLimit)
	g.POST("/v1/sample", s.handleSample)
	g.POST("/v1/sequences", s.handleCreateSequence)
	g.DELETE("/v1/sequences/:id", s.handleDeleteSequence)
	e.GET("/healthz", s.handleHealth)
}

func (s *Server) rateLimit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c *echo.Context) error {
		if s.limiter != nil && !s.limiter.Allow() {
			return writeError(c, http.StatusTooManyRequests, "rate_limit_error", "request rate exceeded", "", "")
		}
		return next(c)
	}
}

func (s *Server) handleSample(c *echo.Context) error {
	req, err := decodeJSON[SampleRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}

	resp, err := s.service.SampleBatch(&req)
	if err != nil {
		if errors.Is(err, ErrInvalidRequest) {
			return writeBadRequest(c, err.Error())
		}
		s.log.Error("sampling step failed", "error", err)
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error(), "", "")
	}
	s.log.Debug("sampled batch", "id", resp.ID, "rows", len(resp.Results))
	return c.JSON(http.StatusOK, resp)
}

type createSequenceRequest struct {
	Seed int64 `json:"seed"`
}

func (s *Server) handleCreateSequence(c *echo.Context) error {
	req, err := decodeJSON[createSequenceRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	resp := s.service.Store().Create(req.Seed, s.clock())
	s.log.Debug("created sequence", "id", resp.ID, "seed", resp.Seed)
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleDeleteSequence(c *echo.Context) error {
	id := c.Param("id")
	if !s.service.Store().Delete(id) {
		return writeNotFound(c, "no such sequence: "+id)
	}
	return c.JSON(http.StatusOK, DeletedResponse{
		ID:      id,
		Object:  "sampling.sequence",
		Deleted: true,
	})
}

func (s *Server) handleHealth(c *echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg, "", "")
}

func writeNotFound(c *echo.Context, msg string) error {
	return writeError(c, http.StatusNotFound, "not_found_error", msg, "", "")
}

func writeError(c *echo.Context, status int, errType, msg, param, code string) error {
	return c.JSON(status, map[string]any{
		"error": ResponseError{
			Message: msg,
			Type:    errType,
			Code:    code,
			Param:   param,
		},
	})
}

func decodeJSON[T any](r io.Reader) (T, error) {
	var v T
	dec := json.NewDecoder(r)
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return v, nil
		}
		return v, err
	}
	return v, nil
}
