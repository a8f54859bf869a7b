package mutation

import (
	"fmt"
	"sort"
)

// Lineage is the ancestry tree of a directed-evolution experiment. Each
// variant node stores only the mutations it introduced itself; cumulative
// mutation sets are derived by walking the ancestry, never cached in
// shared maps.
type Lineage struct {
	nodes map[string]*lineageNode
}

type lineageNode struct {
	id         string
	parentID   string
	generation int
	own        []Mutation
}

// NewLineage returns an empty tree.
func NewLineage() *Lineage {
	return &Lineage{nodes: make(map[string]*lineageNode)}
}

// Add registers a variant with the mutations it newly introduced relative
// to its parent. parentID is empty for generation-0 roots. Parents must be
// added before their children, which also rules out cycles.
func (l *Lineage) Add(id, parentID string, generation int, own []Mutation) error {
	if id == "" {
		return fmt.Errorf("variant id is empty")
	}
	if _, dup := l.nodes[id]; dup {
		return fmt.Errorf("variant %q already in lineage", id)
	}
	if parentID != "" {
		if _, ok := l.nodes[parentID]; !ok {
			return fmt.Errorf("variant %q references unknown parent %q", id, parentID)
		}
	}
	node := &lineageNode{id: id, parentID: parentID, generation: generation}
	node.own = append(node.own, own...)
	l.nodes[id] = node
	return nil
}

// Len returns the number of variants in the tree.
func (l *Lineage) Len() int { return len(l.nodes) }

// Own returns the mutations the variant itself introduced.
func (l *Lineage) Own(id string) ([]Mutation, error) {
	node, ok := l.nodes[id]
	if !ok {
		return nil, fmt.Errorf("variant %q not in lineage", id)
	}
	out := make([]Mutation, len(node.own))
	copy(out, node.own)
	return out, nil
}

// Cumulative walks from the root ancestor down to the variant and merges
// each generation's own mutations. A later mutation at an already-mutated
// position supersedes the earlier record, and a mutation whose mutant
// equals the original wild-type residue reverts the position entirely.
// The result is ordered by ascending position.
func (l *Lineage) Cumulative(id string) ([]Mutation, error) {
	node, ok := l.nodes[id]
	if !ok {
		return nil, fmt.Errorf("variant %q not in lineage", id)
	}

	var chain []*lineageNode
	for n := node; n != nil; {
		chain = append(chain, n)
		if n.parentID == "" {
			break
		}
		n = l.nodes[n.parentID]
	}

	byPos := make(map[int]Mutation)
	for i := len(chain) - 1; i >= 0; i-- {
		for _, m := range chain[i].own {
			prev, seen := byPos[m.Position]
			if seen && prev.WildType != Gap && m.Mutant == prev.WildType {
				delete(byPos, m.Position) // reverted to wild type
				continue
			}
			if seen {
				// Preserve the original wild-type residue across steps.
				m.WildType = prev.WildType
				if prev.WTCodon != "" {
					m.WTCodon = prev.WTCodon
				}
			}
			byPos[m.Position] = m
		}
	}

	out := make([]Mutation, 0, len(byPos))
	for _, m := range byPos {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

// Generation returns the generation number recorded for a variant.
func (l *Lineage) Generation(id string) (int, error) {
	node, ok := l.nodes[id]
	if !ok {
		return 0, fmt.Errorf("variant %q not in lineage", id)
	}
	return node.generation, nil
}
