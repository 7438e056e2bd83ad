package nav

import (
	"container/heap"

	"github.com/noctua-games/duskfall/internal/geom"
)

// FindPath computes a waypoint path from start to goal. Both endpoints are
// snapped to their nearest graph nodes; the returned path ends with the
// literal goal point so the final approach leg keeps exact target precision.
// ok is false when the graph is empty or the snapped nodes are disconnected;
// callers fall back to direct-line movement.
func (g *Graph) FindPath(start, goal geom.Vec3) ([]geom.Vec3, bool) {
	startID, ok := g.NearestNode(start)
	if !ok {
		return nil, false
	}
	goalID, _ := g.NearestNode(goal)

	if startID == goalID {
		return []geom.Vec3{goal}, true
	}

	last := g.astar(startID, goalID)
	if last == nil {
		return nil, false
	}

	// Walk back-pointers, dropping the start node (the agent already
	// stands there).
	rev := make([]NodeID, 0, 16)
	for n := last; n != nil && n.id != startID; n = n.parent {
		rev = append(rev, n.id)
	}

	path := make([]geom.Vec3, 0, len(rev)+1)
	for i := len(rev) - 1; i >= 0; i-- {
		path = append(path, g.nodes[rev[i]].Position)
	}
	if len(path) == 0 || path[len(path)-1] != goal {
		path = append(path, goal)
	}
	return path, true
}

// pathNode is an A* search node; one exists per graph node per search.
type pathNode struct {
	id     NodeID
	parent *pathNode
	gCost  float64
	fCost  float64
	index  int // heap index, -1 once popped
}

// astar runs A* between two graph nodes. Priority is f = g + h with
// g accumulated as edge length scaled by the mean of the two endpoint cost
// multipliers and h the straight-line distance to the goal node. Returns
// the goal search node or nil when unreachable.
func (g *Graph) astar(startID, goalID NodeID) *pathNode {
	goalPos := g.nodes[goalID].Position

	start := &pathNode{id: startID}
	start.fCost = g.nodes[startID].Position.DistanceTo(goalPos)

	open := &nodeHeap{}
	heap.Init(open)
	heap.Push(open, start)

	byID := make(map[NodeID]*pathNode, len(g.nodes))
	byID[startID] = start
	closed := make(map[NodeID]struct{}, len(g.nodes))

	for open.Len() > 0 {
		current := heap.Pop(open).(*pathNode)
		if current.id == goalID {
			return current
		}
		closed[current.id] = struct{}{}

		curNode := g.nodes[current.id]
		for _, nID := range curNode.Neighbors {
			if _, done := closed[nID]; done {
				continue
			}
			neighbor := g.nodes[nID]

			stepCost := curNode.Position.DistanceTo(neighbor.Position) *
				(curNode.CostMultiplier + neighbor.CostMultiplier) / 2
			tentative := current.gCost + stepCost

			existing, seen := byID[nID]
			if seen && tentative >= existing.gCost {
				continue
			}

			h := neighbor.Position.DistanceTo(goalPos)
			if seen {
				// Cheaper route to an already-open node: update cost
				// and back-pointer in place.
				existing.parent = current
				existing.gCost = tentative
				existing.fCost = tentative + h
				if existing.index >= 0 {
					heap.Fix(open, existing.index)
				} else {
					heap.Push(open, existing)
				}
				continue
			}

			node := &pathNode{
				id:     nID,
				parent: current,
				gCost:  tentative,
				fCost:  tentative + h,
			}
			byID[nID] = node
			heap.Push(open, node)
		}
	}
	return nil
}

// nodeHeap implements container/heap for the A* open list (min-heap by fCost).
type nodeHeap []*pathNode

func (h nodeHeap) Len() int           { return len(h) }
func (h nodeHeap) Less(i, j int) bool { return h[i].fCost < h[j].fCost }
func (h nodeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }

func (h *nodeHeap) Push(x any) {
	n := x.(*pathNode)
	n.index = len(*h)
	*h = append(*h, n)
}

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil // GC
	node.index = -1
	*h = old[:n-1]
	return node
}
