// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/pdiddy/cxr-trainer/internal/library"
	"github.com/pdiddy/cxr-trainer/pkg/types"
)

// caseSummary is the listing view of a case. It never includes the
// diagnosis so a listing cannot spoil an unattempted case.
type caseSummary struct {
	ID         string               `json:"id"`
	Title      string               `json:"title"`
	Difficulty types.CaseDifficulty `json:"difficulty"`
	Category   types.CaseCategory   `json:"category"`
	BuiltIn    bool                 `json:"built_in"`
}

func (s *Server) listCases(c *gin.Context) {
	filter := types.CaseFilter{
		Difficulty: types.CaseDifficulty(c.Query("difficulty")),
		Category:   types.CaseCategory(c.Query("category")),
	}

	summaries := []caseSummary{}
	seen := make(map[string]bool)
	for _, tc := range s.lib.FilterCases(filter) {
		summaries = append(summaries, caseSummary{
			ID: tc.ID, Title: tc.Title,
			Difficulty: tc.Difficulty, Category: tc.Category,
			BuiltIn: true,
		})
		seen[tc.ID] = true
	}

	imported, err := s.store.ListCases(c.Request.Context(), filter)
	if err != nil {
		log.WithError(err).Error("list imported cases failed")
		mapDomainError(c, err)
		return
	}
	for _, tc := range imported {
		if seen[tc.ID] {
			continue
		}
		summaries = append(summaries, caseSummary{
			ID: tc.ID, Title: tc.Title,
			Difficulty: tc.Difficulty, Category: tc.Category,
		})
	}

	c.JSON(http.StatusOK, gin.H{"cases": summaries, "total": len(summaries)})
}

// findCase resolves a case ID against the built-in library first, then
// the imported store.
func (s *Server) findCase(c *gin.Context, id string) (types.Case, error) {
	if tc, ok := s.lib.Case(id); ok {
		return tc, nil
	}
	return s.store.GetCase(c.Request.Context(), id)
}

func (s *Server) getCase(c *gin.Context) {
	tc, err := s.findCase(c, c.Param("id"))
	if err != nil {
		mapDomainError(c, err)
		return
	}

	// The answer fields stay hidden until the learner asks for the
	// reveal, preserving the attempt-first workflow.
	if c.Query("reveal") != "true" {
		tc.Findings = nil
		tc.KeyFindings = nil
		tc.Diagnosis = ""
		tc.TeachingPoints = nil
		tc.DifferentialsConsidered = nil
	}

	c.JSON(http.StatusOK, tc)
}

func (s *Server) createCase(c *gin.Context) {
	var tc types.Case
	if err := c.ShouldBindJSON(&tc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := library.ValidateCase(tc); err != nil {
		mapDomainError(c, err)
		return
	}
	if _, ok := s.lib.Case(tc.ID); ok {
		mapDomainError(c, types.ErrCaseExists)
		return
	}

	overwrite := c.Query("overwrite") == "true"
	if err := s.store.PutCase(c.Request.Context(), tc, "custom", overwrite); err != nil {
		if !errors.Is(err, types.ErrCaseExists) {
			log.WithError(err).Error("store case failed")
		}
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": tc.ID})
}

type attemptRequest struct {
	SessionID          string `json:"session_id"`
	SubmittedDiagnosis string `json:"submitted_diagnosis"`
	Correct            bool   `json:"correct"`
}

func (s *Server) recordAttempt(c *gin.Context) {
	caseID := c.Param("id")
	tc, err := s.findCase(c, caseID)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	var req attemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.SessionID == "" || req.SubmittedDiagnosis == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id and submitted_diagnosis are required"})
		return
	}

	session, err := s.store.GetSession(c.Request.Context(), req.SessionID)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	attempt := types.CaseAttempt{
		SessionID:          session.ID,
		CaseID:             tc.ID,
		CreatedAt:          time.Now().UTC(),
		SubmittedDiagnosis: req.SubmittedDiagnosis,
		Correct:            req.Correct,
		RegionsCompleted:   session.CompletedRegions(),
	}
	if err := s.store.RecordAttempt(c.Request.Context(), attempt, tc.Category); err != nil {
		log.WithError(err).Error("record attempt failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"case_id":           tc.ID,
		"diagnosis":         tc.Diagnosis,
		"key_findings":      tc.KeyFindings,
		"teaching_points":   tc.TeachingPoints,
		"regions_completed": attempt.RegionsCompleted,
	})
}
