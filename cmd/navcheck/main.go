// navcheck validates a waypoint graph file: connectivity, asymmetric
// edges and suspicious cost multipliers. Meant for level authors, not the
// runtime.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/noctua-games/duskfall/internal/nav"
)

func main() {
	path := flag.String("graph", "data/navgraph.yaml", "waypoint graph YAML file")
	flag.Parse()

	g, err := nav.LoadGraph(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "navcheck: %v\n", err)
		os.Exit(1)
	}

	problems := 0
	problems += reportComponents(g)
	problems += reportAsymmetry(g)
	problems += reportCosts(g)

	if problems > 0 {
		fmt.Printf("%s: %d node(s), %d problem(s)\n", *path, g.Len(), problems)
		os.Exit(1)
	}
	fmt.Printf("%s: %d node(s), ok\n", *path, g.Len())
}

// reportComponents flood-fills along authored edges and reports every
// island beyond the first.
func reportComponents(g *nav.Graph) int {
	if g.Len() == 0 {
		fmt.Println("graph is empty")
		return 1
	}

	seen := make([]bool, g.Len())
	components := 0
	for start := 0; start < g.Len(); start++ {
		if seen[start] {
			continue
		}
		components++
		size := 0
		queue := []nav.NodeID{nav.NodeID(start)}
		seen[start] = true
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			size++
			for _, nb := range g.Node(id).Neighbors {
				if !seen[nb] {
					seen[nb] = true
					queue = append(queue, nb)
				}
			}
		}
		if components > 1 {
			fmt.Printf("disconnected component %d: %d node(s) starting at node %d\n", components, size, start)
		}
	}
	return components - 1
}

// reportAsymmetry flags one-way edges. The solver handles them, but
// levels are conventionally authored symmetric and a missing back edge is
// almost always a typo.
func reportAsymmetry(g *nav.Graph) int {
	count := 0
	for id := 0; id < g.Len(); id++ {
		for _, nb := range g.Node(nav.NodeID(id)).Neighbors {
			back := false
			for _, ret := range g.Node(nb).Neighbors {
				if int(ret) == id {
					back = true
					break
				}
			}
			if !back {
				fmt.Printf("one-way edge: %d -> %d has no return edge\n", id, nb)
				count++
			}
		}
	}
	return count
}

// reportCosts flags multipliers that hit the clamp floor, which usually
// means an authoring accident rather than a deliberate near-free zone.
func reportCosts(g *nav.Graph) int {
	count := 0
	for id := 0; id < g.Len(); id++ {
		n := g.Node(nav.NodeID(id))
		if n.CostMultiplier <= nav.MinCostMultiplier {
			fmt.Printf("node %d: cost multiplier clamped to %v\n", id, n.CostMultiplier)
			count++
		}
	}
	return count
}
