package graph

import (
	"strings"
	"testing"

	"github.com/chazu/polycube/pkg/block"
	"github.com/chazu/polycube/pkg/grid"
	"github.com/go-gl/mathgl/mgl64"
)

// resultHasError returns true if result.Errors contains at least one entry
// whose Message contains substr.
func resultHasError(r ValidationResult, substr string) bool {
	for _, e := range r.Errors {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// resultHasWarning returns true if result.Warnings contains at least one entry
// whose Message contains substr.
func resultHasWarning(r ValidationResult, substr string) bool {
	for _, w := range r.Warnings {
		if strings.Contains(w.Message, substr) {
			return true
		}
	}
	return false
}

func TestValidateAll_Valid(t *testing.T) {
	blocks := []*block.Block{
		block.New(0, "L", []grid.Cell{{0, 0, 0}, {-1, 0, 0}, {0, 0, 1}}, "", mgl64.Vec3{1, 0, 0}),
		block.New(1, "mono", mono, "", mgl64.Vec3{4, 0, 0}),
	}
	result := ValidateAll(blocks)
	if !result.OK() {
		for _, e := range result.Errors {
			t.Logf("  error: %s", e.Error())
		}
		t.Fatal("expected a valid catalog")
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
}

func TestValidateAll_EmptyShape(t *testing.T) {
	result := ValidateAll([]*block.Block{block.New(0, "void", nil, "", mgl64.Vec3{})})
	if !resultHasError(result, "no cells") {
		t.Error("expected error about an empty shape, got none")
	}
}

func TestValidateAll_DuplicateID(t *testing.T) {
	result := ValidateAll([]*block.Block{
		block.New(3, "first", mono, "", mgl64.Vec3{}),
		block.New(3, "second", mono, "", mgl64.Vec3{2, 0, 0}),
	})
	if !resultHasError(result, `already used by "first"`) {
		t.Error("expected duplicate id error")
		for _, e := range result.Errors {
			t.Logf("  error: %s", e.Message)
		}
	}
}

func TestValidateAll_RepeatedCell(t *testing.T) {
	cells := []grid.Cell{{0, 0, 0}, {1, 0, 0}, {0, 0, 0}}
	result := ValidateAll([]*block.Block{block.New(0, "rep", cells, "", mgl64.Vec3{})})
	if !resultHasError(result, "repeats 1 cell") {
		t.Error("expected repeated cell error")
	}
}

func TestValidateAll_DisconnectedShapeWarns(t *testing.T) {
	cells := []grid.Cell{{0, 0, 0}, {2, 0, 0}}
	result := ValidateAll([]*block.Block{block.New(0, "split", cells, "", mgl64.Vec3{})})
	if !result.OK() {
		t.Fatalf("disconnected shape should only warn, got errors %v", result.Errors)
	}
	if !resultHasWarning(result, "not face-connected") {
		t.Error("expected connectivity warning")
	}
}

func TestValidateAll_BelowFloor(t *testing.T) {
	cells := []grid.Cell{{0, 0, 0}, {0, -1, 0}}
	result := ValidateAll([]*block.Block{block.New(0, "low", cells, "", mgl64.Vec3{0, 0, 0})})
	if !resultHasError(result, "below the floor") {
		t.Error("expected floor error")
	}
}

func TestValidateAll_OffGrid(t *testing.T) {
	result := ValidateAll([]*block.Block{block.New(0, "f", mono, "", mgl64.Vec3{0.5, 0, 0})})
	if !resultHasError(result, "not on the grid") {
		t.Error("expected off-grid error")
	}
}

func TestValidateShape(t *testing.T) {
	ok := ValidateShape(block.New(7, "L", []grid.Cell{{0, 0, 0}, {1, 0, 0}, {0, 0, 1}}, "", mgl64.Vec3{2, 0, 0}))
	if !ok.OK() || len(ok.Warnings) != 0 {
		t.Fatalf("expected a clean shape, got %v / %v", ok.Errors, ok.Warnings)
	}

	bad := ValidateShape(block.New(7, "low", []grid.Cell{{0, -2, 0}, {0, 0, 0}}, "", mgl64.Vec3{0, 1, 0}))
	if !resultHasError(bad, "below the floor") {
		t.Error("expected floor error")
	}
	if !resultHasWarning(bad, "not face-connected") {
		t.Error("expected connectivity warning")
	}
	for _, e := range bad.Errors {
		if e.BlockID != 7 || e.Name != "low" {
			t.Errorf("error not attributed to the block: %+v", e)
		}
	}
}

func TestValidateAll_CollectsShapeFindings(t *testing.T) {
	blocks := []*block.Block{
		block.New(0, "void", nil, "", mgl64.Vec3{}),
		block.New(1, "off", mono, "", mgl64.Vec3{0, 0, 0.25}),
	}
	result := ValidateAll(blocks)
	if len(result.Errors) != 2 {
		t.Fatalf("expected one error per block, got %v", result.Errors)
	}
	if result.Errors[0].BlockID != 0 || result.Errors[1].BlockID != 1 {
		t.Errorf("errors out of catalog order: %v", result.Errors)
	}
}
