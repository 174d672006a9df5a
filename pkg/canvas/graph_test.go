package canvas

import "testing"

func TestNewGraphSeedsRoot(t *testing.T) {
	g := NewGraph("MealPlan")

	root := g.FindNode(RootNodeId)
	if root == nil {
		t.Fatal("root node missing")
	}
	if root.Type != NodeTypeRoot {
		t.Errorf("root type = %q", root.Type)
	}
	if root.Data["label"] != "MealPlan" {
		t.Errorf("root label = %v", root.Data["label"])
	}
	if root.Position.X != 400 || root.Position.Y != 300 {
		t.Errorf("root position = %+v", root.Position)
	}
}

func TestApplyAddNodeIsIdempotent(t *testing.T) {
	g := NewGraph("p")
	node := Node{Id: "feature-1", Type: "feature", Data: map[string]interface{}{"label": "Planner"}}

	if !g.ApplyAddNode(node, RootNodeId) {
		t.Fatal("first apply should change the graph")
	}
	if g.ApplyAddNode(node, RootNodeId) {
		t.Error("second apply must be a no-op")
	}

	count := 0
	for _, n := range g.Nodes {
		if n.Id == "feature-1" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("node count for feature-1 = %d, want 1", count)
	}

	edges := 0
	for _, e := range g.Edges {
		if e.Source == RootNodeId && e.Target == "feature-1" {
			edges++
		}
	}
	if edges != 1 {
		t.Errorf("edge count root->feature-1 = %d, want 1", edges)
	}
}

func TestApplyAddNodeChildBeforeParent(t *testing.T) {
	g := NewGraph("p")
	child := Node{Id: "userflow-1", Type: "userFlow", Data: map[string]interface{}{"label": "Plan a week"}}
	parent := Node{Id: "feature-1", Type: "feature", Data: map[string]interface{}{"label": "Planner"}}

	if !g.ApplyAddNode(child, "feature-1") {
		t.Fatal("child apply should change the graph")
	}
	if !g.HasEdge("feature-1", "userflow-1") {
		t.Fatal("edge feature-1->userflow-1 must exist before the parent arrives")
	}

	if !g.ApplyAddNode(parent, RootNodeId) {
		t.Fatal("parent apply should change the graph")
	}
	if g.ApplyAddNode(child, "feature-1") {
		t.Error("redelivered child apply must be a no-op")
	}

	edges := 0
	for _, e := range g.Edges {
		if e.Source == "feature-1" && e.Target == "userflow-1" {
			edges++
		}
	}
	if edges != 1 {
		t.Errorf("edge count feature-1->userflow-1 = %d, want 1", edges)
	}
}

func TestApplyAddNodeAnchorsPositionOnParent(t *testing.T) {
	g := NewGraph("p")
	g.ApplyAddNode(Node{Id: "feature-1", Type: "feature", Data: map[string]interface{}{}}, RootNodeId)

	child := g.FindNode("feature-1")
	if child.Position.X != 400+250 || child.Position.Y != 300+100 {
		t.Errorf("child position = %+v", child.Position)
	}

	// Second child fans out below the first, deterministically.
	g.ApplyAddNode(Node{Id: "feature-2", Type: "feature", Data: map[string]interface{}{}}, RootNodeId)
	second := g.FindNode("feature-2")
	if second.Position.Y <= child.Position.Y {
		t.Errorf("siblings overlap: %+v vs %+v", child.Position, second.Position)
	}
}

func TestApplyAddNodeKeepsGivenPosition(t *testing.T) {
	g := NewGraph("p")
	g.ApplyAddNode(Node{
		Id:       "tech-1",
		Type:     "tech",
		Position: Position{X: 10, Y: 20},
		Data:     map[string]interface{}{},
	}, RootNodeId)

	n := g.FindNode("tech-1")
	if n.Position.X != 10 || n.Position.Y != 20 {
		t.Errorf("position overwritten: %+v", n.Position)
	}
}

func TestApplyAddNodeEdgeId(t *testing.T) {
	g := NewGraph("p")
	g.ApplyAddNode(Node{Id: "feature-1", Type: "feature", Data: map[string]interface{}{}}, RootNodeId)
	g.ApplyAddNode(Node{Id: "userflow-1", Type: "user-flow", Data: map[string]interface{}{}}, "feature-1")

	want := "feature-1-userflow-1"
	found := false
	for _, e := range g.Edges {
		if e.Id == want {
			found = true
			if e.Type != EdgeTypeSmoothstep {
				t.Errorf("edge type = %q", e.Type)
			}
		}
	}
	if !found {
		t.Errorf("edge %q missing, edges: %+v", want, g.Edges)
	}
}

func TestReplace(t *testing.T) {
	g := NewGraph("p")
	g.Replace([]Node{{Id: "only", Type: NodeTypeDefault, Data: map[string]interface{}{}}}, nil)

	if len(g.Nodes) != 1 || g.Nodes[0].Id != "only" {
		t.Errorf("nodes = %+v", g.Nodes)
	}
	if g.Edges == nil || len(g.Edges) != 0 {
		t.Errorf("edges = %+v", g.Edges)
	}
}

func TestNormalizeType(t *testing.T) {
	tests := []struct {
		raw  string
		data map[string]interface{}
		want string
	}{
		{"feature", nil, NodeTypeFeature},
		{"Feature", nil, NodeTypeFeature},
		{"user flow", nil, NodeTypeUserFlow},
		{"user_flow", nil, NodeTypeUserFlow},
		{"UserFlow", nil, NodeTypeUserFlow},
		{"System Map", nil, NodeTypeSystemMap},
		{"ui design", nil, NodeTypeUIDesign},
		{"complementary features", nil, NodeTypeComplementaryFeatures},
		{"something-else", nil, NodeTypeFeature},
		{"", nil, NodeTypeFeature},
		// Shape signatures force user-flow regardless of the stated type.
		{"feature", map[string]interface{}{"steps": []interface{}{"a", "b"}}, NodeTypeUserFlow},
		{"tech", map[string]interface{}{"parentFeature": "feature-1"}, NodeTypeUserFlow},
		// Empty steps list is not a flow signature.
		{"tech", map[string]interface{}{"steps": []interface{}{}}, NodeTypeTech},
	}

	for _, tt := range tests {
		got := NormalizeType(tt.raw, tt.data)
		if got != tt.want {
			t.Errorf("NormalizeType(%q, %v) = %q, want %q", tt.raw, tt.data, got, tt.want)
		}
	}
}

func TestRecoverFromText(t *testing.T) {
	reply := `Great ideas! Adding these features to your canvas now.

## Meal Planner
- Weekly calendar view
- Drag and drop meals
- Planning flow from pantry to plate

## Shopping List
- Auto-generated from plan
`

	nodes := RecoverFromText(reply)

	var features, flows int
	for _, r := range nodes {
		switch r.Node.Type {
		case NodeTypeFeature:
			features++
			if r.ParentId != RootNodeId {
				t.Errorf("feature parent = %q", r.ParentId)
			}
		case NodeTypeUserFlow:
			flows++
			if r.ParentId != "feature-meal-planner" {
				t.Errorf("flow parent = %q", r.ParentId)
			}
		}
	}
	if features != 2 || flows != 1 {
		t.Errorf("recovered %d features and %d flows, want 2 and 1", features, flows)
	}

	// Sub-features exclude the flow bullet.
	first := nodes[0]
	subs := first.Node.Data["subFeatures"].([]string)
	if len(subs) != 2 {
		t.Errorf("subFeatures = %v", subs)
	}
}

func TestRecoverFromTextDeterministicIds(t *testing.T) {
	reply := "Adding to canvas:\n## My Feature!\n- one"
	a := RecoverFromText(reply)
	b := RecoverFromText(reply)
	if len(a) != 1 || len(b) != 1 || a[0].Node.Id != b[0].Node.Id {
		t.Errorf("ids not deterministic: %+v vs %+v", a, b)
	}
	if a[0].Node.Id != "feature-my-feature" {
		t.Errorf("id = %q", a[0].Node.Id)
	}
}

func TestLooksLikeFeatureAnnouncement(t *testing.T) {
	if !LooksLikeFeatureAnnouncement("I'm adding these to your canvas") {
		t.Error("announcement not detected")
	}
	if LooksLikeFeatureAnnouncement("Let's talk about features") {
		t.Error("false positive")
	}
}
