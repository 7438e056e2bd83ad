package nav

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/noctua-games/duskfall/internal/geom"
)

// nodeFile mirrors the YAML authoring format for waypoint graphs.
type nodeFile struct {
	Nodes []struct {
		ID        int       `yaml:"id"`
		Position  positionF `yaml:"position"`
		Neighbors []int     `yaml:"neighbors"`
		Cost      float64   `yaml:"cost_multiplier"`
	} `yaml:"nodes"`
}

type positionF struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// LoadGraph reads a waypoint graph from a YAML file. A missing
// cost_multiplier defaults to 1.
func LoadGraph(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading nav graph %s: %w", path, err)
	}
	return ParseGraph(data)
}

// ParseGraph builds a graph from YAML bytes.
func ParseGraph(data []byte) (*Graph, error) {
	var f nodeFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing nav graph: %w", err)
	}

	nodes := make([]Node, 0, len(f.Nodes))
	for _, n := range f.Nodes {
		cost := n.Cost
		if cost == 0 {
			cost = 1
		}
		neighbors := make([]NodeID, 0, len(n.Neighbors))
		for _, nb := range n.Neighbors {
			neighbors = append(neighbors, NodeID(nb))
		}
		nodes = append(nodes, Node{
			ID:             NodeID(n.ID),
			Position:       geom.Vec3{X: n.Position.X, Y: n.Position.Y, Z: n.Position.Z},
			Neighbors:      neighbors,
			CostMultiplier: cost,
		})
	}
	return NewGraph(nodes)
}
