// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/pdiddy/cxr-trainer/internal/assess"
	"github.com/pdiddy/cxr-trainer/internal/report"
	"github.com/pdiddy/cxr-trainer/internal/store"
	"github.com/pdiddy/cxr-trainer/pkg/types"
)

type createSessionRequest struct {
	Kind   types.SessionKind `json:"kind"`
	CaseID string            `json:"case_id"`
}

func (s *Server) createSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	kind := req.Kind
	if kind == "" {
		kind = types.SessionReview
	}
	if kind != types.SessionReview && kind != types.SessionCase {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be review or case"})
		return
	}
	if kind == types.SessionCase {
		if _, err := s.findCase(c, req.CaseID); err != nil {
			mapDomainError(c, err)
			return
		}
	}

	now := time.Now().UTC()
	session := &types.ReviewSession{
		ID:        uuid.New().String(),
		Kind:      kind,
		CaseID:    req.CaseID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.SaveSession(c.Request.Context(), session); err != nil {
		log.WithError(err).Error("create session failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

func (s *Server) listSessions(c *gin.Context) {
	sessions, err := s.store.ListSessions(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("list sessions failed")
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions, "total": len(sessions)})
}

func (s *Server) getSession(c *gin.Context) {
	session, err := s.store.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

type updateSessionRequest struct {
	Technical map[types.TechnicalFactor]types.FactorSelections `json:"technical"`
	Regions   map[types.Region]types.RegionEntry               `json:"regions"`
	Pattern   *types.PatternSelections                         `json:"pattern"`
}

// updateSession merges the request into the stored session. Absent
// sections are left untouched so the UI can save one tab at a time.
func (s *Server) updateSession(c *gin.Context) {
	session, err := s.store.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		mapDomainError(c, err)
		return
	}

	var req updateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	for region := range req.Regions {
		if !region.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": types.ErrInvalidRegion.Error() + ": " + string(region)})
			return
		}
	}

	if req.Technical != nil {
		if session.Technical == nil {
			session.Technical = make(map[types.TechnicalFactor]types.FactorSelections)
		}
		for factor, sel := range req.Technical {
			session.Technical[factor] = sel
		}
	}
	if req.Regions != nil {
		if session.Regions == nil {
			session.Regions = make(map[types.Region]types.RegionEntry)
		}
		for region, entry := range req.Regions {
			session.Regions[region] = entry
		}
	}
	if req.Pattern != nil {
		session.Pattern = *req.Pattern
	}
	session.UpdatedAt = time.Now().UTC()

	if err := s.store.SaveSession(c.Request.Context(), session); err != nil {
		log.WithError(err).Error("update session failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (s *Server) deleteSession(c *gin.Context) {
	if err := s.store.DeleteSession(c.Request.Context(), c.Param("id")); err != nil {
		mapDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) sessionReport(c *gin.Context) {
	session, err := s.store.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		mapDomainError(c, err)
		return
	}

	format, err := report.ParseFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rep, err := report.Generate(s.lib, session)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch format {
	case report.FormatJSON:
		c.JSON(http.StatusOK, rep)
	default:
		out, err := rep.Render(format)
		if err != nil {
			log.WithError(err).Error("render report failed")
			mapDomainError(c, err)
			return
		}
		c.String(http.StatusOK, out)
	}
}

func (s *Server) sessionReview(c *gin.Context) {
	session, err := s.store.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id": session.ID,
		"regions":    assess.Review(s.lib, session),
	})
}

func (s *Server) getProgress(c *gin.Context) {
	progress, err := s.store.Progress(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("progress query failed")
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

func (s *Server) search(c *gin.Context) {
	opts := store.QueryOptions{
		Query:  c.Query("q"),
		Type:   store.SearchItemType(c.Query("type")),
		Region: types.Region(c.Query("region")),
	}
	results, err := s.store.Search(c.Request.Context(), opts)
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results, "total": len(results)})
}
