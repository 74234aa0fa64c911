// Package collision reports blocks whose occupied grid cells overlap.
// Overlap is only detected and reported, never resolved.
package collision

import (
	"slices"

	"github.com/chazu/polycube/pkg/block"
	"github.com/chazu/polycube/pkg/grid"
)

// Detect returns the sorted ids of every block that shares at least one
// occupied cell with another block.
func Detect(blocks []*block.Block) []block.ID {
	occupants := make(map[grid.Cell][]block.ID)
	for _, b := range blocks {
		for _, c := range b.WorldCells() {
			ids := occupants[c]
			// A block listing the same cell twice does not collide with itself.
			if len(ids) > 0 && ids[len(ids)-1] == b.ID {
				continue
			}
			occupants[c] = append(ids, b.ID)
		}
	}

	hit := make(map[block.ID]struct{})
	for _, ids := range occupants {
		if len(ids) < 2 {
			continue
		}
		for _, id := range ids {
			hit[id] = struct{}{}
		}
	}

	out := make([]block.ID, 0, len(hit))
	for id := range hit {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Detector re-scans once per tick and reports only changes.
type Detector struct {
	// OnChange receives the new sorted id list whenever it differs from
	// the previous emission.
	OnChange func(ids []block.ID)

	last []block.ID
}

// Update re-scans blocks unless animating is true. Scanning is skipped
// mid-animation because pieces sweep through cells they will not end up
// occupying. It reports whether a change was emitted.
func (d *Detector) Update(blocks []*block.Block, animating bool) bool {
	if animating {
		return false
	}
	ids := Detect(blocks)
	if slices.Equal(ids, d.last) {
		return false
	}
	d.last = ids
	if d.OnChange != nil {
		d.OnChange(slices.Clone(ids))
	}
	return true
}

// Current returns the most recently emitted collision set.
func (d *Detector) Current() []block.ID {
	return slices.Clone(d.last)
}
