// Package phase builds the traversal graph of ambience phases.
//
// Nodes live in an arena indexed by id. Successor and predecessor are answered
// from explicit adjacency maps rather than pointers between nodes, so cyclic
// orders need no special ownership handling.
package phase

import (
	"fmt"
	"time"
)

// Variant is one expanded (audio, image) asset pair of a phase.
type Variant struct {
	Audio string
	Image string
}

// Spec describes a phase after asset expansion.
type Spec struct {
	ID         string
	Name       string
	Variants   []Variant
	TriggerKey string
	NextID     string
	Duration   time.Duration

	// Detached specs (endings) are left out of the traversal order and are
	// only reachable through their trigger key or an explicit NextID.
	Detached bool
}

// Node is an immutable concrete phase: one variant of one Spec.
type Node struct {
	ID         string
	PhaseID    string
	Name       string
	Audio      string
	Image      string
	TriggerKey string
	NextID     string
	Duration   time.Duration
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s (%s)", n.ID, n.Name)
}

// Autoplay reports whether the node advances on its own.
func (n *Node) Autoplay() bool {
	return n != nil && n.Duration > 0
}

func (s Spec) nodes() []*Node {
	out := make([]*Node, 0, len(s.Variants))
	for i, v := range s.Variants {
		id := s.ID
		if len(s.Variants) > 1 {
			id = fmt.Sprintf("%s#%d", s.ID, i+1)
		}
		out = append(out, &Node{
			ID:         id,
			PhaseID:    s.ID,
			Name:       s.Name,
			Audio:      v.Audio,
			Image:      v.Image,
			TriggerKey: s.TriggerKey,
			NextID:     s.NextID,
			Duration:   s.Duration,
		})
	}
	return out
}
