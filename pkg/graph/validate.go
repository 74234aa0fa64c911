package graph

import (
	"fmt"

	"github.com/chazu/polycube/pkg/block"
	"github.com/chazu/polycube/pkg/grid"
)

// ValidationSeverity indicates whether a finding keeps a shape out of a
// session or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // shape is rejected
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	BlockID  block.ID
	Name     string
	Message  string
	Severity ValidationSeverity
}

func (e ValidationError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("[%s] block %d (%s): %s", e.Severity, e.BlockID, e.Name, e.Message)
	}
	return fmt.Sprintf("[%s] block %d: %s", e.Severity, e.BlockID, e.Message)
}

// ValidationWarning describes a non-blocking advisory finding.
type ValidationWarning struct {
	BlockID block.ID
	Message string
}

// ValidationResult bundles errors (blocking) and warnings (advisory).
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// OK reports whether the result has no blocking errors.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// ValidateAll checks every block of a catalog with ValidateShape and
// additionally requires unique ids. It never mutates the blocks.
func ValidateAll(blocks []*block.Block) ValidationResult {
	var result ValidationResult
	seen := make(map[block.ID]string)

	for _, b := range blocks {
		if prev, dup := seen[b.ID]; dup {
			result.Errors = append(result.Errors, ValidationError{
				BlockID:  b.ID,
				Name:     b.Name,
				Message:  fmt.Sprintf("duplicate id, already used by %q", prev),
				Severity: SeverityError,
			})
		} else {
			seen[b.ID] = b.Name
		}

		r := ValidateShape(b)
		result.Errors = append(result.Errors, r.Errors...)
		result.Warnings = append(result.Warnings, r.Warnings...)
	}

	return result
}

// ValidateShape checks a single block: at least one cell, no repeated
// cells, a face-connected shape and a grid position resting on or above
// the floor.
func ValidateShape(b *block.Block) ValidationResult {
	var result ValidationResult

	// Zero cells would make the geometric center divide by zero.
	if len(b.Cells) == 0 {
		result.Errors = append(result.Errors, ValidationError{
			BlockID:  b.ID,
			Name:     b.Name,
			Message:  "shape has no cells",
			Severity: SeverityError,
		})
		return result
	}

	if n := countDistinct(b.Cells); n != len(b.Cells) {
		result.Errors = append(result.Errors, ValidationError{
			BlockID:  b.ID,
			Name:     b.Name,
			Message:  fmt.Sprintf("shape repeats %d cell(s)", len(b.Cells)-n),
			Severity: SeverityError,
		})
	}

	if !shapeConnected(b.Cells) {
		result.Warnings = append(result.Warnings, ValidationWarning{
			BlockID: b.ID,
			Message: "cells are not face-connected; the piece will move as one rigid body anyway",
		})
	}

	if low := b.Position[1] + float64(grid.MinY(b.Cells)); low < 0 {
		result.Errors = append(result.Errors, ValidationError{
			BlockID:  b.ID,
			Name:     b.Name,
			Message:  fmt.Sprintf("lowest cell at y=%.0f is below the floor", low),
			Severity: SeverityError,
		})
	}

	if p := grid.SnapVec(b.Position); p != b.Position {
		result.Errors = append(result.Errors, ValidationError{
			BlockID:  b.ID,
			Name:     b.Name,
			Message:  fmt.Sprintf("position %v is not on the grid", b.Position),
			Severity: SeverityError,
		})
	}

	return result
}
