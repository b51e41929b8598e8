// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/cxr-trainer/internal/assess"
	"github.com/pdiddy/cxr-trainer/internal/pattern"
	"github.com/pdiddy/cxr-trainer/pkg/types"
)

func (s *Server) getChecklist(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"sequence":   types.ReviewSequence,
		"categories": s.lib.Categories,
	})
}

func (s *Server) getTechnicalFactors(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"factors": s.lib.Factors})
}

func (s *Server) getPatterns(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"families":    s.lib.Families,
		"definitions": s.lib.Definitions,
	})
}

func (s *Server) getDifferentials(c *gin.Context) {
	name := c.Query("pattern")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pattern parameter is required"})
		return
	}
	dist := types.Distribution(c.Query("distribution"))

	resp := gin.H{
		"pattern":       name,
		"differentials": s.lib.Differentials(name, dist),
	}
	if note, ok := s.lib.Hint(dist); ok {
		resp["hint"] = note
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) assessTechnical(c *gin.Context) {
	var sel map[types.TechnicalFactor]types.FactorSelections
	if err := c.ShouldBindJSON(&sel); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, assess.Technical(s.lib, sel))
}

func (s *Server) classifyPattern(c *gin.Context) {
	var sel types.PatternSelections
	if err := c.ShouldBindJSON(&sel); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{}

	if sel.Kind != "" {
		analysis, err := pattern.Classify(s.lib, sel)
		if err != nil {
			// Classification errors always trace back to the selections.
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		resp["analysis"] = analysis
	}

	if len(sel.Features) > 0 {
		var dist types.Distribution
		if len(sel.Distributions) > 0 {
			dist = sel.Distributions[0]
		}
		resp["matches"] = pattern.MatchFeatures(s.lib.Definitions, sel.Features, dist)
	}

	if len(resp) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to classify: provide a pattern kind or observed features"})
		return
	}

	c.JSON(http.StatusOK, resp)
}
