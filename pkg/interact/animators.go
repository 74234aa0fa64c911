package interact

import (
	"time"

	"github.com/chazu/polycube/pkg/anim"
	"github.com/chazu/polycube/pkg/block"
)

// animators holds one animator per block, keyed by id.
type animators map[block.ID]*anim.Animator

func newAnimators(blocks []*block.Block, d time.Duration) animators {
	as := make(animators, len(blocks))
	for _, b := range blocks {
		a := anim.New(b)
		a.Duration = d
		as[b.ID] = a
	}
	return as
}

// busy reports whether any of bs is mid-animation.
func (as animators) busy(bs ...*block.Block) bool {
	for _, b := range bs {
		if a := as[b.ID]; a != nil && a.Animating() {
			return true
		}
	}
	return false
}

func (as animators) any() bool {
	for _, a := range as {
		if a.Animating() {
			return true
		}
	}
	return false
}
