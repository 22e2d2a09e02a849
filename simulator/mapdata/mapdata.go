// Package mapdata loads declarative map documents into a graph.Graph and
// carries a small set of builtin fixture maps. General-purpose
// multi-format map file parsing is out of scope; this is a single
// deliberately minimal YAML shape.
package mapdata

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/agent"
	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/graph"
)

// NodeDoc is one node entry in a map document.
type NodeDoc struct {
	ID string  `yaml:"id"`
	X  float64 `yaml:"x"`
	Y  float64 `yaml:"y"`
}

// EdgeDoc is one edge entry in a map document. Non-one-way edges
// materialise both directions at load time.
type EdgeDoc struct {
	From         string   `yaml:"from"`
	To           string   `yaml:"to"`
	Distance     float64  `yaml:"distance"`
	AllowedModes []string `yaml:"allowed_modes"`
	OneWay       bool     `yaml:"one_way"`
}

// Document is the top-level shape of a map file.
type Document struct {
	ID    string    `yaml:"id"`
	Nodes []NodeDoc `yaml:"nodes"`
	Edges []EdgeDoc `yaml:"edges"`
}

func parseModes(names []string) (agent.ModeSet, error) {
	if len(names) == 0 {
		return agent.NewModeSet(agent.ModeCar, agent.ModeBicycle, agent.ModePedestrian), nil
	}
	var modes []agent.Mode
	for _, name := range names {
		switch name {
		case "car":
			modes = append(modes, agent.ModeCar)
		case "bicycle":
			modes = append(modes, agent.ModeBicycle)
		case "pedestrian":
			modes = append(modes, agent.ModePedestrian)
		default:
			return 0, fmt.Errorf("mapdata: unknown mode %q", name)
		}
	}
	return agent.NewModeSet(modes...), nil
}

// Build constructs a graph.Graph from a parsed Document.
func Build(doc Document) (*graph.Graph, error) {
	g := graph.New()
	for _, n := range doc.Nodes {
		if err := g.AddNode(graph.Node{ID: n.ID, X: n.X, Y: n.Y}); err != nil {
			return nil, fmt.Errorf("mapdata: node %q: %w", n.ID, err)
		}
	}
	for _, e := range doc.Edges {
		modes, err := parseModes(e.AllowedModes)
		if err != nil {
			return nil, err
		}
		if err := g.AddEdge(graph.Edge{From: e.From, To: e.To, Distance: e.Distance, Modes: modes, OneWay: e.OneWay}); err != nil {
			return nil, fmt.Errorf("mapdata: edge %s->%s: %w", e.From, e.To, err)
		}
		if !e.OneWay {
			if err := g.AddEdge(graph.Edge{From: e.To, To: e.From, Distance: e.Distance, Modes: modes, OneWay: e.OneWay}); err != nil {
				return nil, fmt.Errorf("mapdata: reverse edge %s->%s: %w", e.To, e.From, err)
			}
		}
	}
	return g, nil
}

// Load reads and parses a map document from a YAML file, then builds its
// graph.
func Load(path string) (Document, *graph.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, nil, fmt.Errorf("mapdata: read %s: %w", path, err)
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, nil, fmt.Errorf("mapdata: parse %s: %w", path, err)
	}
	g, err := Build(doc)
	if err != nil {
		return Document{}, nil, err
	}
	return doc, g, nil
}

// EdgeLengths returns every edge key and its geometric distance, used to
// seed congestion.Analyser's capacity table at load time.
func EdgeLengths(g *graph.Graph) map[agent.EdgeKey]float64 {
	out := make(map[agent.EdgeKey]float64)
	for _, e := range g.Edges() {
		out[e.Key()] = e.Distance
	}
	return out
}

// Hotspots returns the node ids with the highest out-degree, the top
// ~20% of nodes in the map. Ties at the cutoff are broken by node id for
// determinism.
func Hotspots(g *graph.Graph) []string {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return nil
	}
	type scored struct {
		id     string
		degree int
	}
	scoredNodes := make([]scored, len(nodes))
	for i, id := range nodes {
		scoredNodes[i] = scored{id: id, degree: g.OutDegree(id)}
	}
	sort.Slice(scoredNodes, func(i, j int) bool {
		if scoredNodes[i].degree != scoredNodes[j].degree {
			return scoredNodes[i].degree > scoredNodes[j].degree
		}
		return scoredNodes[i].id < scoredNodes[j].id
	})

	count := len(scoredNodes) / 5
	if count == 0 {
		count = 1
	}
	out := make([]string, count)
	for i := 0; i < count; i++ {
		out[i] = scoredNodes[i].id
	}
	sort.Strings(out)
	return out
}

// HotspotEdges returns every edge incident to a hotspot node (either
// endpoint).
func HotspotEdges(g *graph.Graph, hotspots []string) []agent.EdgeKey {
	set := make(map[string]bool, len(hotspots))
	for _, id := range hotspots {
		set[id] = true
	}
	var out []agent.EdgeKey
	for _, e := range g.Edges() {
		if set[e.From] || set[e.To] {
			out = append(out, e.Key())
		}
	}
	return out
}

// Square builds a 4-node bidirectional square fixture: nodes A, B, C, D
// at the corners of a square of side edgeLength, all edges open to every
// mode, edge length configurable
// so callers can size the map to the scenario they need.
func Square(id string, edgeLength float64) Document {
	return Document{
		ID: id,
		Nodes: []NodeDoc{
			{ID: "A", X: 0, Y: 0},
			{ID: "B", X: edgeLength, Y: 0},
			{ID: "C", X: edgeLength, Y: edgeLength},
			{ID: "D", X: 0, Y: edgeLength},
		},
		Edges: []EdgeDoc{
			{From: "A", To: "B", Distance: edgeLength, AllowedModes: []string{"car", "bicycle", "pedestrian"}},
			{From: "B", To: "C", Distance: edgeLength, AllowedModes: []string{"car", "bicycle", "pedestrian"}},
			{From: "C", To: "D", Distance: edgeLength, AllowedModes: []string{"car", "bicycle", "pedestrian"}},
			{From: "D", To: "A", Distance: edgeLength, AllowedModes: []string{"car", "bicycle", "pedestrian"}},
		},
	}
}

// SquareWithCarOnlyShortcut is Square with its bidirectional A-B edge
// replaced by a one-way car-only edge A->B, useful for exercising
// mode-filtered planning: a car reaches B directly, while other modes must
// go A->D->C->B. There is no B->A edge in this map.
func SquareWithCarOnlyShortcut(id string, edgeLength float64) Document {
	doc := Square(id, edgeLength)
	doc.ID = id
	doc.Edges[0] = EdgeDoc{
		From: "A", To: "B", Distance: edgeLength, AllowedModes: []string{"car"}, OneWay: true,
	}
	return doc
}

// BuiltinMaps lists the map ids this package can construct without
// reading a file.
func BuiltinMaps() []string {
	return []string{"square", "square_shortcut"}
}

// LoadBuiltin builds one of BuiltinMaps()'s maps directly.
func LoadBuiltin(id string) (Document, *graph.Graph, error) {
	var doc Document
	switch id {
	case "square":
		doc = Square(id, 60)
	case "square_shortcut":
		doc = SquareWithCarOnlyShortcut(id, 60)
	default:
		return Document{}, nil, fmt.Errorf("mapdata: unknown builtin map %q", id)
	}
	g, err := Build(doc)
	if err != nil {
		return Document{}, nil, err
	}
	return doc, g, nil
}
