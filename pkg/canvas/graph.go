package canvas

// Package canvas maintains the node/edge graph that represents the evolving
// product design. It is the single writer for graph mutations: directives
// extracted from model text and explicit replacements from the client both
// land here.

const (
	// RootNodeId is the anchor every project starts with
	RootNodeId = "root"

	// Default anchor position for the root node
	rootX = 400.0
	rootY = 300.0

	// Offset of a child relative to its parent anchor
	childOffsetX = 250.0
	childOffsetY = 100.0

	// Vertical spacing between siblings so layout stays deterministic
	// without stacking nodes on top of each other
	siblingSpacingY = 120.0

	// EdgeTypeSmoothstep is the visual style hint the client renders
	EdgeTypeSmoothstep = "smoothstep"
)

// Position is a 2-D canvas coordinate
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a single canvas element
type Node struct {
	Id       string                 `json:"id"`
	Type     string                 `json:"type"`
	Position Position               `json:"position"`
	Data     map[string]interface{} `json:"data"`
}

// Edge connects a parent node to a child node
type Edge struct {
	Id       string `json:"id"`
	Source   string `json:"source"`
	Target   string `json:"target"`
	Type     string `json:"type,omitempty"`
	Animated bool   `json:"animated"`
}

// Graph is the full canvas state persisted with the project
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// NewGraph creates a graph seeded with the root node labelled after the project.
func NewGraph(projectName string) *Graph {
	return &Graph{
		Nodes: []Node{
			{
				Id:       RootNodeId,
				Type:     NodeTypeRoot,
				Position: Position{X: rootX, Y: rootY},
				Data:     map[string]interface{}{"label": projectName},
			},
		},
		Edges: []Edge{},
	}
}

// FindNode returns the node with the given id, or nil.
func (g *Graph) FindNode(id string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].Id == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// HasEdge reports whether an edge from source to target already exists.
func (g *Graph) HasEdge(source, target string) bool {
	for _, e := range g.Edges {
		if e.Source == source && e.Target == target {
			return true
		}
	}
	return false
}

// childCount counts existing edges leaving the given parent.
func (g *Graph) childCount(parentId string) int {
	n := 0
	for _, e := range g.Edges {
		if e.Source == parentId {
			n++
		}
	}
	return n
}

// ApplyAddNode appends a node and, when a parent is named, one edge from the
// parent. Applying the same node id twice is a no-op, so retried delivery of
// a directive is safe. The node type is normalized against the fixed
// vocabulary before insert. Returns true when the graph changed.
func (g *Graph) ApplyAddNode(node Node, parentId string) bool {
	if g.FindNode(node.Id) != nil {
		return false
	}

	node.Type = NormalizeType(node.Type, node.Data)
	if node.Data == nil {
		node.Data = map[string]interface{}{}
	}

	if node.Position == (Position{}) {
		node.Position = g.positionFor(parentId)
	}
	g.Nodes = append(g.Nodes, node)

	// The parent edge is appended even when the parent node has not arrived
	// yet, so out-of-order directive delivery still converges on the same
	// graph once both nodes are in.
	if parentId != "" && !g.HasEdge(parentId, node.Id) {
		g.Edges = append(g.Edges, Edge{
			Id:       parentId + "-" + node.Id,
			Source:   parentId,
			Target:   node.Id,
			Type:     EdgeTypeSmoothstep,
			Animated: false,
		})
	}
	return true
}

// positionFor computes a deterministic position anchored on the parent node
// (falling back to the root, then to the default root coordinates). Siblings
// fan out vertically in insertion order.
func (g *Graph) positionFor(parentId string) Position {
	anchor := g.FindNode(parentId)
	if anchor == nil {
		anchor = g.FindNode(RootNodeId)
	}
	if anchor == nil {
		return Position{X: rootX, Y: rootY}
	}
	siblings := g.childCount(anchor.Id)
	return Position{
		X: anchor.Position.X + childOffsetX,
		Y: anchor.Position.Y + childOffsetY + siblingSpacingY*float64(siblings),
	}
}

// Replace swaps the whole graph, used when the user edits the canvas
// directly in the client.
func (g *Graph) Replace(nodes []Node, edges []Edge) {
	if nodes == nil {
		nodes = []Node{}
	}
	if edges == nil {
		edges = []Edge{}
	}
	g.Nodes = nodes
	g.Edges = edges
}
