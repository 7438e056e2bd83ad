package nav

import (
	"math"
	"testing"

	"github.com/noctua-games/duskfall/internal/geom"
)

func lineGraph(t *testing.T) *Graph {
	t.Helper()
	g, err := NewGraph([]Node{
		{ID: 0, Position: geom.Vec3{X: 0}, Neighbors: []NodeID{1}, CostMultiplier: 1},
		{ID: 1, Position: geom.Vec3{X: 5}, Neighbors: []NodeID{0, 2}, CostMultiplier: 1},
		{ID: 2, Position: geom.Vec3{X: 10}, Neighbors: []NodeID{1}, CostMultiplier: 1},
	})
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}
	return g
}

func pathLength(path []geom.Vec3, from geom.Vec3) float64 {
	total := 0.0
	prev := from
	for _, p := range path {
		total += prev.DistanceTo(p)
		prev = p
	}
	return total
}

func TestFindPathCollinear(t *testing.T) {
	g := lineGraph(t)

	start := geom.Vec3{X: 0}
	goal := geom.Vec3{X: 10}
	path, ok := g.FindPath(start, goal)
	if !ok {
		t.Fatal("expected a path")
	}

	// Start node is dropped; the path runs through B and ends at the
	// literal goal.
	if len(path) != 2 {
		t.Fatalf("expected 2 waypoints, got %d: %+v", len(path), path)
	}
	if path[0] != (geom.Vec3{X: 5}) {
		t.Errorf("first waypoint should be the middle node, got %+v", path[0])
	}
	if path[len(path)-1] != goal {
		t.Errorf("path must end at the literal goal, got %+v", path[len(path)-1])
	}

	if total := pathLength(path, start); math.Abs(total-10) > 1e-9 {
		t.Errorf("expected total path length 10, got %v", total)
	}
}

func TestFindPathLiteralGoalPrecision(t *testing.T) {
	g := lineGraph(t)

	// Goal near node C but not exactly on it.
	goal := geom.Vec3{X: 9.3, Z: 0.4}
	path, ok := g.FindPath(geom.Vec3{X: 0}, goal)
	if !ok {
		t.Fatal("expected a path")
	}
	if path[len(path)-1] != goal {
		t.Errorf("last waypoint must be the literal goal, got %+v", path[len(path)-1])
	}
}

func TestFindPathSameSnappedNode(t *testing.T) {
	g := lineGraph(t)

	goal := geom.Vec3{X: 1.5, Z: 1}
	path, ok := g.FindPath(geom.Vec3{X: 0.5}, goal)
	if !ok {
		t.Fatal("expected a path")
	}
	if len(path) != 1 || path[0] != goal {
		t.Errorf("same-node path must be the single literal goal, got %+v", path)
	}
}

func TestFindPathDisconnected(t *testing.T) {
	g, err := NewGraph([]Node{
		{ID: 0, Position: geom.Vec3{X: 0}, Neighbors: nil, CostMultiplier: 1},
		{ID: 1, Position: geom.Vec3{X: 100}, Neighbors: nil, CostMultiplier: 1},
	})
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}

	if _, ok := g.FindPath(geom.Vec3{X: 0}, geom.Vec3{X: 100}); ok {
		t.Error("disconnected nodes must yield no path")
	}
}

func TestFindPathEmptyGraph(t *testing.T) {
	g, err := NewGraph(nil)
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}
	if _, ok := g.FindPath(geom.Vec3{}, geom.Vec3{X: 5}); ok {
		t.Error("empty graph must yield no path")
	}
}

func TestFindPathPrefersCheapMultipliers(t *testing.T) {
	// Two routes from node 0 to node 3: a short corridor through node 1
	// with a punishing multiplier, and a longer detour through node 2.
	//
	//   0 --- 1 --- 3      direct, 1 is swamp (x10)
	//    \--- 2 ---/       detour, cheap
	g, err := NewGraph([]Node{
		{ID: 0, Position: geom.Vec3{X: 0}, Neighbors: []NodeID{1, 2}, CostMultiplier: 1},
		{ID: 1, Position: geom.Vec3{X: 5}, Neighbors: []NodeID{0, 3}, CostMultiplier: 10},
		{ID: 2, Position: geom.Vec3{X: 5, Z: 6}, Neighbors: []NodeID{0, 3}, CostMultiplier: 1},
		{ID: 3, Position: geom.Vec3{X: 10}, Neighbors: []NodeID{1, 2}, CostMultiplier: 1},
	})
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}

	path, ok := g.FindPath(geom.Vec3{X: 0}, geom.Vec3{X: 10})
	if !ok {
		t.Fatal("expected a path")
	}
	if len(path) < 2 || path[0] != (geom.Vec3{X: 5, Z: 6}) {
		t.Errorf("expected detour through the cheap node, got %+v", path)
	}
}

func TestCostMultiplierClamped(t *testing.T) {
	g, err := NewGraph([]Node{
		{ID: 0, Position: geom.Vec3{}, Neighbors: nil, CostMultiplier: 0},
	})
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}
	if got := g.Node(0).CostMultiplier; got != MinCostMultiplier {
		t.Errorf("expected clamp to %v, got %v", MinCostMultiplier, got)
	}
}

func TestNewGraphValidation(t *testing.T) {
	if _, err := NewGraph([]Node{{ID: 5}}); err == nil {
		t.Error("non-dense ids must be rejected")
	}
	if _, err := NewGraph([]Node{{ID: 0, Neighbors: []NodeID{3}}}); err == nil {
		t.Error("dangling neighbor references must be rejected")
	}
}

func TestParseGraph(t *testing.T) {
	data := []byte(`
nodes:
  - id: 0
    position: {x: 0, y: 0, z: 0}
    neighbors: [1]
  - id: 1
    position: {x: 5, y: 0, z: 0}
    neighbors: [0]
    cost_multiplier: 2.5
`)
	g, err := ParseGraph(data)
	if err != nil {
		t.Fatalf("ParseGraph: %v", err)
	}
	if g.Len() != 2 {
		t.Fatalf("expected 2 nodes, got %d", g.Len())
	}
	if got := g.Node(0).CostMultiplier; got != 1 {
		t.Errorf("missing multiplier should default to 1, got %v", got)
	}
	if got := g.Node(1).CostMultiplier; got != 2.5 {
		t.Errorf("expected multiplier 2.5, got %v", got)
	}
}
