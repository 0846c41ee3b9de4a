package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/huangsam/marketscope/core"
	"github.com/huangsam/marketscope/schema"
)

// AnalyzeRequest is the body of the analyze and queries endpoints.
// Weights, when present, replace the configured weights for this request.
type AnalyzeRequest struct {
	schema.Subject
	Weights map[string]float64 `json:"weights,omitempty"`
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": h.version})
}

func (h *handler) analyzeMarket(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	subject, err := schema.NewSubject(req.Subject)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg := h.baseCfg.Clone()
	cfg.Subject = subject
	if req.Weights != nil {
		scoring, err := schema.NewScoringConfig(req.Weights)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		cfg.Scoring = scoring
	}

	result, err := h.analyze(core.WithSuppressHeader(c.Request.Context()), cfg, h.mgr)
	if errors.Is(err, core.ErrSubjectResolution) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Analysis failed: %v", err)})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *handler) planQueries(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	subject, err := schema.NewSubject(req.Subject)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, core.GetQueryPlan(subject))
}

func (h *handler) suggestHSCodes(c *gin.Context) {
	text := strings.TrimSpace(c.Query("q"))
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"text":    text,
		"codes":   core.SuggestHSCodes(text),
		"matches": core.MatchHSCategories(text),
	})
}

func (h *handler) weights(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"weights":    h.baseCfg.Scoring.Weights(),
		"normalized": h.baseCfg.Scoring.NormalizedWeights(),
		"sum":        h.baseCfg.Scoring.Sum(),
	})
}
