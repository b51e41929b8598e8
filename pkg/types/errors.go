// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

// Sentinel errors shared across the store, server, and CLI. Handlers map
// these onto HTTP statuses in one place.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrCaseNotFound    = errors.New("case not found")
	ErrCaseExists      = errors.New("case with this ID already exists")
	ErrInvalidCase     = errors.New("case is missing required fields")
	ErrInvalidRegion   = errors.New("unknown review region")
	ErrInvalidILOCode  = errors.New("unknown ILO opacity code")
	ErrEmptyQuery      = errors.New("query or filter required")
)
