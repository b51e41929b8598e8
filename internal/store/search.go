// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/pdiddy/cxr-trainer/internal/library"
	"github.com/pdiddy/cxr-trainer/pkg/types"
)

// SearchItemType categorizes an entry in the search index.
type SearchItemType string

const (
	ItemChecklist    SearchItemType = "checklist"
	ItemDifferential SearchItemType = "differential"
	ItemCase         SearchItemType = "case"
)

const librarySource = "library"

// searchItem is one row of the search index.
type searchItem struct {
	ID      string
	Type    SearchItemType
	Title   string
	Content string
	Region  types.Region
	Ref     string
}

// IndexLibrary (re)builds the search index from the reference library.
// An unchanged library is skipped: the corpus fingerprint is compared
// against the stored revision, so repeated startups are cheap.
func (s *Store) IndexLibrary(ctx context.Context, lib *library.Library) error {
	items := collectItems(lib)
	revision := fingerprint(items)

	var stored string
	err := s.db.QueryRowContext(ctx,
		`SELECT revision FROM indexing_status WHERE source = ?`, librarySource,
	).Scan(&stored)
	if err == nil && stored == revision {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM search_items WHERE ref = ?`, librarySource,
	); err != nil {
		return fmt.Errorf("clearing library index: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO search_items (id, type, title, content, region, ref)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, item := range items {
		if _, err := stmt.ExecContext(ctx,
			item.ID, string(item.Type), item.Title, item.Content, string(item.Region), item.Ref,
		); err != nil {
			return fmt.Errorf("indexing item %s: %w", item.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO indexing_status (source, revision) VALUES (?, ?)
		 ON CONFLICT(source) DO UPDATE SET revision=excluded.revision`,
		librarySource, revision,
	); err != nil {
		return fmt.Errorf("updating indexing status: %w", err)
	}

	return tx.Commit()
}

// indexCase adds one stored case to the search index.
func (s *Store) indexCase(ctx context.Context, c types.Case) error {
	item := caseItem(c, "stored")
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO search_items (id, type, title, content, region, ref)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		item.ID, string(item.Type), item.Title, item.Content, string(item.Region), item.Ref,
	)
	if err != nil {
		return fmt.Errorf("indexing case %s: %w", c.ID, err)
	}
	return nil
}

func collectItems(lib *library.Library) []searchItem {
	var items []searchItem

	for _, cat := range lib.Categories {
		for _, ci := range cat.Items {
			content := ci.Prompt
			if ci.Detail != "" {
				content += ". " + ci.Detail
			}
			items = append(items, searchItem{
				ID:      "check-" + ci.ID,
				Type:    ItemChecklist,
				Title:   cat.Title,
				Content: content,
				Region:  cat.Region,
				Ref:     librarySource,
			})
		}
	}

	for _, fam := range lib.Families {
		for _, v := range fam.Variants {
			var parts []string
			if v.Description != "" {
				parts = append(parts, v.Description)
			}
			for _, d := range v.Differentials {
				parts = append(parts, d.Diagnosis)
			}
			items = append(items, searchItem{
				ID:      "pattern-" + string(fam.Kind) + "-" + v.ID,
				Type:    ItemDifferential,
				Title:   v.Label,
				Content: strings.Join(parts, "; "),
				Ref:     librarySource,
			})
		}
	}

	for _, c := range lib.Cases {
		item := caseItem(c, librarySource)
		items = append(items, item)
	}

	return items
}

func caseItem(c types.Case, ref string) searchItem {
	var parts []string
	parts = append(parts, c.History, c.ImageDescription, c.Diagnosis)
	parts = append(parts, c.KeyFindings...)
	return searchItem{
		ID:      "case-" + c.ID,
		Type:    ItemCase,
		Title:   c.Title,
		Content: strings.Join(parts, " "),
		Ref:     ref,
	}
}

func fingerprint(items []searchItem) string {
	h := sha256.New()
	for _, item := range items {
		fmt.Fprintf(h, "%s\x00%s\x00%s\x00%s\x00", item.ID, item.Type, item.Title, item.Content)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// QueryOptions holds parameters for search queries.
type QueryOptions struct {
	// Query is the FTS5 full-text search string.
	Query string

	// Type filters by index entry type.
	Type SearchItemType

	// Region filters checklist entries by review region.
	Region types.Region

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Type == "" && q.Region == ""
}

// SearchResult is one search hit.
type SearchResult struct {
	ID      string         `json:"id" yaml:"id"`
	Type    SearchItemType `json:"type" yaml:"type"`
	Title   string         `json:"title" yaml:"title"`
	Content string         `json:"content" yaml:"content"`
	Region  types.Region   `json:"region,omitempty" yaml:"region,omitempty"`
}

// Search queries the index with optional full-text search and filters.
// Full-text queries rank by relevance; filter-only queries sort by type
// and title.
func (s *Store) Search(ctx context.Context, opts QueryOptions) ([]SearchResult, error) {
	if opts.IsEmpty() {
		return nil, types.ErrEmptyQuery
	}

	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT i.id, i.type, i.title, i.content, i.region
			FROM search_fts
			JOIN search_items i ON i.rowid = search_fts.rowid
			WHERE search_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT i.id, i.type, i.title, i.content, i.region
			FROM search_items i
			WHERE 1=1`)
	}

	if opts.Type != "" {
		qb.WriteString(` AND i.type = ?`)
		args = append(args, string(opts.Type))
	}
	if opts.Region != "" {
		qb.WriteString(` AND i.region = ?`)
		args = append(args, string(opts.Region))
	}

	if useFTS {
		qb.WriteString(` ORDER BY search_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY i.type, i.title`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying search index: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var (
			sr       SearchResult
			itemType string
			region   sql.NullString
		)
		if err := rows.Scan(&sr.ID, &itemType, &sr.Title, &sr.Content, &region); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		sr.Type = SearchItemType(itemType)
		if region.Valid {
			sr.Region = types.Region(region.String)
		}
		results = append(results, sr)
	}
	return results, rows.Err()
}
