package phase

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	ErrEmpty                = errors.New("phase: no phases")
	ErrMissingID            = errors.New("phase: phase has no id")
	ErrDuplicateID          = errors.New("phase: duplicate id")
	ErrNoVariants           = errors.New("phase: phase has no assets")
	ErrMissingNext          = errors.New("phase: next phase not found")
	ErrMissingStart         = errors.New("phase: start phase not found")
	ErrDuplicateKey         = errors.New("phase: trigger key bound twice")
	ErrAmbiguousPredecessor = errors.New("phase: predecessor is ambiguous")
	ErrNoPredecessor        = errors.New("phase: node has no predecessor")
)

// Graph is the traversal structure over all phase nodes. It is immutable once
// built.
type Graph struct {
	nodes  []*Node
	byID   map[string]*Node
	blocks map[string][]*Node
	keys   map[string]*Node

	next      map[string]string
	prev      map[string]string
	ambiguous map[string]bool

	order    []*Node
	position map[string]int
	start    *Node
	circular bool
}

// Build validates specs and links their nodes.
//
// Without any NextID the non-detached specs are interleaved round robin and
// the order is circular. With at least one NextID the specs are chained from
// the start spec; a spec without NextID continues with the next non-detached
// spec in insertion order. The chain stops at the first spec that was already
// placed and the last node links back to that spec's first node.
func Build(specs []Spec, startID string) (*Graph, error) {
	if len(specs) == 0 {
		return nil, ErrEmpty
	}

	g := &Graph{
		byID:      make(map[string]*Node),
		blocks:    make(map[string][]*Node, len(specs)),
		keys:      make(map[string]*Node),
		next:      make(map[string]string),
		prev:      make(map[string]string),
		ambiguous: make(map[string]bool),
		position:  make(map[string]int),
	}

	specIndex := make(map[string]int, len(specs))
	chained := false
	for i, s := range specs {
		if s.ID == "" {
			return nil, errors.Wrapf(ErrMissingID, "phase %d (%q)", i, s.Name)
		}
		if _, dup := specIndex[s.ID]; dup {
			return nil, errors.Wrapf(ErrDuplicateID, "%q", s.ID)
		}
		if len(s.Variants) == 0 {
			return nil, errors.Wrapf(ErrNoVariants, "%q", s.ID)
		}
		specIndex[s.ID] = i
		if s.NextID != "" {
			chained = true
		}

		block := s.nodes()
		for _, n := range block {
			if _, dup := g.byID[n.ID]; dup {
				return nil, errors.Wrapf(ErrDuplicateID, "node %q", n.ID)
			}
			g.byID[n.ID] = n
			g.nodes = append(g.nodes, n)
		}
		g.blocks[s.ID] = block

		if s.TriggerKey != "" {
			if other, ok := g.keys[s.TriggerKey]; ok {
				return nil, errors.Wrapf(ErrDuplicateKey, "%q bound to %q and %q", s.TriggerKey, other.PhaseID, s.ID)
			}
			g.keys[s.TriggerKey] = block[0]
		}
	}

	for _, s := range specs {
		if s.NextID == "" {
			continue
		}
		if _, ok := specIndex[s.NextID]; !ok {
			return nil, errors.Wrapf(ErrMissingNext, "%q -> %q", s.ID, s.NextID)
		}
	}

	startIdx := -1
	if startID != "" {
		idx, ok := specIndex[startID]
		if !ok {
			return nil, errors.Wrapf(ErrMissingStart, "%q", startID)
		}
		if specs[idx].Detached && !chained {
			return nil, errors.Wrapf(ErrMissingStart, "%q is only reachable by key", startID)
		}
		startIdx = idx
	} else {
		for i, s := range specs {
			if !s.Detached {
				startIdx = i
				break
			}
		}
		if startIdx < 0 {
			return nil, errors.Wrap(ErrEmpty, "every phase is an ending")
		}
	}

	if chained {
		g.chain(specs, specIndex, startIdx)
	} else {
		g.ring(specs, specs[startIdx].ID)
	}

	for i, n := range g.order {
		g.position[n.ID] = i
	}
	return g, nil
}

func (g *Graph) ring(specs []Spec, startID string) {
	lists := make([][]*Node, 0, len(specs))
	for _, s := range specs {
		if !s.Detached {
			lists = append(lists, g.blocks[s.ID])
		}
	}

	g.order = Interleave(lists)
	for i, n := range g.order {
		g.link(n, g.order[(i+1)%len(g.order)])
	}
	g.start = g.blocks[startID][0]
	g.circular = true
}

func (g *Graph) chain(specs []Spec, specIndex map[string]int, startIdx int) {
	placed := make(map[int]bool, len(specs))
	cur := startIdx
	var last *Node
	for !placed[cur] {
		placed[cur] = true
		for _, n := range g.blocks[specs[cur].ID] {
			if last != nil {
				g.link(last, n)
			}
			g.order = append(g.order, n)
			last = n
		}
		cur = following(specs, specIndex, cur, startIdx)
	}

	g.link(last, g.blocks[specs[cur].ID][0])
	g.start = g.order[0]
	g.circular = cur == startIdx
}

func following(specs []Spec, specIndex map[string]int, cur, fallback int) int {
	if id := specs[cur].NextID; id != "" {
		return specIndex[id]
	}
	for step := 1; step <= len(specs); step++ {
		idx := (cur + step) % len(specs)
		if !specs[idx].Detached {
			return idx
		}
	}
	return fallback
}

func (g *Graph) link(from, to *Node) {
	g.next[from.ID] = to.ID
	if _, ok := g.prev[to.ID]; ok {
		g.ambiguous[to.ID] = true
		return
	}
	g.prev[to.ID] = from.ID
}

func (g *Graph) mustContain(n *Node) {
	if g == nil || len(g.nodes) == 0 {
		panic("phase: traversal of an empty graph")
	}
	if n == nil {
		panic("phase: traversal from a nil node")
	}
	if g.byID[n.ID] != n {
		panic(fmt.Sprintf("phase: node %s does not belong to this graph", n.ID))
	}
}

// Start returns the designated entry node.
func (g *Graph) Start() *Node {
	return g.start
}

// Successor returns the node after n. Nodes outside the traversal order
// continue with the start node.
func (g *Graph) Successor(n *Node) *Node {
	g.mustContain(n)
	if id, ok := g.next[n.ID]; ok {
		return g.byID[id]
	}
	return g.start
}

// Predecessor returns the node before n in traversal order. It fails for a
// node that two order edges lead into and for the head of a chain that does
// not close on itself.
func (g *Graph) Predecessor(n *Node) (*Node, error) {
	g.mustContain(n)
	if g.ambiguous[n.ID] {
		return nil, errors.Wrapf(ErrAmbiguousPredecessor, "%q", n.ID)
	}
	if id, ok := g.prev[n.ID]; ok {
		return g.byID[id], nil
	}
	if _, ok := g.position[n.ID]; !ok {
		return g.start, nil
	}
	return nil, errors.Wrapf(ErrNoPredecessor, "%q", n.ID)
}

// ByTriggerKey returns the first node of the phase bound to key.
func (g *Graph) ByTriggerKey(key string) (*Node, bool) {
	n, ok := g.keys[key]
	return n, ok
}

// Node looks a node up by id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.byID[id]
	return n, ok
}

// Variants returns every node built from the phase with the given id.
func (g *Graph) Variants(phaseID string) []*Node {
	return append([]*Node(nil), g.blocks[phaseID]...)
}

// Nodes returns all nodes in construction order.
func (g *Graph) Nodes() []*Node {
	return append([]*Node(nil), g.nodes...)
}

// Order returns the traversal order, beginning with the start node's position
// for chains and with the first interleaved node for rings.
func (g *Graph) Order() []*Node {
	return append([]*Node(nil), g.order...)
}

// Len reports the number of nodes, including nodes outside the order.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Circular reports whether every node of the order has exactly one
// predecessor, which makes Predecessor total over the order.
func (g *Graph) Circular() bool {
	return g.circular
}
