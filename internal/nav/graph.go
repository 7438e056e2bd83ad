// Package nav implements pathfinding over a designer-authored waypoint graph.
// The graph is built once at level load and read-only during gameplay, so it
// is shared by all agents without locking.
package nav

import (
	"fmt"

	"github.com/noctua-games/duskfall/internal/geom"
)

// MinCostMultiplier is the floor applied to node traversal multipliers.
const MinCostMultiplier = 0.01

// NodeID indexes a node within its graph.
type NodeID int

// Node is a single waypoint of the navigation graph.
type Node struct {
	ID             NodeID
	Position       geom.Vec3
	Neighbors      []NodeID
	CostMultiplier float64
}

// Graph is a static waypoint graph. Adjacency is directed as authored;
// designers conventionally author symmetric edges but nothing here relies
// on that.
type Graph struct {
	nodes []Node
}

// NewGraph validates the node set and builds a graph. Node IDs must equal
// their index; neighbor references must resolve. Cost multipliers below
// MinCostMultiplier are clamped.
func NewGraph(nodes []Node) (*Graph, error) {
	owned := make([]Node, len(nodes))
	copy(owned, nodes)

	for i := range owned {
		if owned[i].ID != NodeID(i) {
			return nil, fmt.Errorf("node at index %d has id %d, ids must be dense", i, owned[i].ID)
		}
		if owned[i].CostMultiplier < MinCostMultiplier {
			owned[i].CostMultiplier = MinCostMultiplier
		}
		for _, n := range owned[i].Neighbors {
			if n < 0 || int(n) >= len(owned) {
				return nil, fmt.Errorf("node %d references unknown neighbor %d", i, n)
			}
		}
	}
	return &Graph{nodes: owned}, nil
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Node returns the node with the given id.
func (g *Graph) Node(id NodeID) Node {
	return g.nodes[id]
}

// NearestNode returns the node closest to p by Euclidean distance.
// Ties keep the first node encountered. ok is false on an empty graph.
func (g *Graph) NearestNode(p geom.Vec3) (NodeID, bool) {
	if len(g.nodes) == 0 {
		return 0, false
	}
	best := NodeID(0)
	bestSq := g.nodes[0].Position.DistanceSqTo(p)
	for i := 1; i < len(g.nodes); i++ {
		if d := g.nodes[i].Position.DistanceSqTo(p); d < bestSq {
			bestSq = d
			best = NodeID(i)
		}
	}
	return best, true
}
