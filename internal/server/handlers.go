package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abhisek/aquacheck/internal/chatbot"
	"github.com/abhisek/aquacheck/internal/history"
	"github.com/abhisek/aquacheck/internal/measurement"
	"github.com/abhisek/aquacheck/internal/potability"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 500
)

type rangeResponse struct {
	Field string  `json:"field"`
	Key   string  `json:"key"`
	Unit  string  `json:"unit,omitempty"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

type assessRequest struct {
	// Values maps field names to raw values. Names are matched like CSV
	// headers; values may be JSON strings or numbers.
	Values map[string]any `json:"values" binding:"required"`
}

type assessResponse struct {
	ID string `json:"id"`
	potability.Outcome
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	ID string `json:"id"`
	chatbot.Turn
}

// health handles GET /health
func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": s.cfg.Version,
	})
}

// ranges handles GET /api/v1/ranges
func (s *Server) ranges(c *gin.Context) {
	out := make([]rangeResponse, 0, measurement.NumFields)
	for _, f := range measurement.Fields() {
		r := measurement.RangeOf(f)
		out = append(out, rangeResponse{
			Field: f.String(),
			Key:   f.Key(),
			Unit:  f.Unit(),
			Min:   r.Min,
			Max:   r.Max,
		})
	}
	c.JSON(http.StatusOK, gin.H{"ranges": out})
}

// assess handles POST /api/v1/assess
func (s *Server) assess(c *gin.Context) {
	var req assessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	inputs, err := toInputs(req.Values)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out := s.pipeline.Assess(inputs)
	id := s.recorder.Assessment(c.Request.Context(), history.OriginAPI, inputs, out)

	status := http.StatusOK
	if out.Kind == potability.KindInputError {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, assessResponse{ID: id, Outcome: out})
}

// toInputs maps request keys onto fields. Two keys naming the same field
// are rejected since map order would decide which one wins.
func toInputs(values map[string]any) (measurement.Inputs, error) {
	var in measurement.Inputs
	var seen [measurement.NumFields]bool
	for name, v := range values {
		f, ok := measurement.FieldByName(name)
		if !ok {
			return in, fmt.Errorf("unknown field %q", name)
		}
		if seen[f] {
			return in, fmt.Errorf("duplicate field %q", f.String())
		}
		seen[f] = true
		switch val := v.(type) {
		case string:
			in[f] = val
		case float64:
			in[f] = strconv.FormatFloat(val, 'f', -1, 64)
		case nil:
			in[f] = ""
		default:
			return in, fmt.Errorf("field %q must be a string or number", name)
		}
	}
	return in, nil
}

// chat handles POST /api/v1/chat
func (s *Server) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	turn, err := s.bot.Reply(c.Request.Context(), req.Message)
	if errors.Is(err, chatbot.ErrEmptyMessage) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is empty"})
		return
	}
	if err != nil {
		s.logger.Error("Failed to answer chat message", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to answer message"})
		return
	}

	id := s.recorder.Chat(c.Request.Context(), history.OriginAPI, turn)
	c.JSON(http.StatusOK, chatResponse{ID: id, Turn: turn})
}

// listHistory handles GET /api/v1/history
func (s *Server) listHistory(c *gin.Context) {
	repo := s.recorder.Repo()
	if repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "History is disabled"})
		return
	}

	limit := defaultHistoryLimit
	if l := c.Query("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 1 || n > maxHistoryLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = n
	}

	entries, err := history.Recent(c.Request.Context(), repo, limit)
	if err != nil {
		s.logger.Error("Failed to read history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
