package canvas

import (
	"regexp"
	"strings"
)

// RecoveredNode is a node reconstructed from reply prose instead of a tag.
type RecoveredNode struct {
	Node     Node
	ParentId string
}

var (
	headingPattern  = regexp.MustCompile(`^\s{0,3}#{1,4}\s+(.+?)\s*$`)
	boldLinePattern = regexp.MustCompile(`^\s*(?:\d+\.\s*)?\*\*(.+?)\*\*:?\s*$`)
	bulletPattern   = regexp.MustCompile(`^\s*(?:[-*•]|\d+\.)\s+(.+?)\s*$`)
)

// LooksLikeFeatureAnnouncement reports whether a cleaned reply reads as if it
// announced canvas additions. Used to gate RecoverFromText: the heuristic is
// a best-effort secondary producer that must never run when tags were present.
func LooksLikeFeatureAnnouncement(cleaned string) bool {
	lower := strings.ToLower(cleaned)
	return strings.Contains(lower, "adding") && strings.Contains(lower, "canvas")
}

// minedFeature is an intermediate parse result before node emission
type minedFeature struct {
	title string
	subs  []string
	flows []string
}

// RecoverFromText mines a reply's heading/bullet structure for feature,
// sub-feature and user-flow nodes. The model is not contractually guaranteed
// to emit UPDATE_CANVAS tags even when instructed to; this recovers the
// announced features so the canvas does not silently drift from the
// conversation. Node ids are slugs of the titles, so re-running over the
// same reply produces the same (idempotently applied) nodes.
func RecoverFromText(text string) []RecoveredNode {
	var features []minedFeature

	for _, line := range strings.Split(text, "\n") {
		if title := matchHeading(line); title != "" {
			features = append(features, minedFeature{title: title})
			continue
		}
		if len(features) == 0 {
			continue
		}
		m := bulletPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		item := stripInlineMarkup(m[1])
		if item == "" {
			continue
		}
		current := &features[len(features)-1]
		if strings.Contains(strings.ToLower(item), "flow") {
			current.flows = append(current.flows, item)
		} else {
			current.subs = append(current.subs, item)
		}
	}

	var recovered []RecoveredNode
	for _, f := range features {
		featureId := "feature-" + slugify(f.title)
		subs := f.subs
		if subs == nil {
			subs = []string{}
		}
		recovered = append(recovered, RecoveredNode{
			Node: Node{
				Id:   featureId,
				Type: NodeTypeFeature,
				Data: map[string]interface{}{
					"label":       f.title,
					"subFeatures": subs,
				},
			},
			ParentId: RootNodeId,
		})
		for _, flow := range f.flows {
			recovered = append(recovered, RecoveredNode{
				Node: Node{
					Id:   "userflow-" + slugify(flow),
					Type: NodeTypeUserFlow,
					Data: map[string]interface{}{
						"label":         flow,
						"parentFeature": featureId,
					},
				},
				ParentId: featureId,
			})
		}
	}
	return recovered
}

func matchHeading(line string) string {
	if m := headingPattern.FindStringSubmatch(line); m != nil {
		return stripInlineMarkup(m[1])
	}
	if m := boldLinePattern.FindStringSubmatch(line); m != nil {
		return stripInlineMarkup(m[1])
	}
	return ""
}

func stripInlineMarkup(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	return strings.TrimSpace(strings.Trim(s, ":"))
}

var slugCleanPattern = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(title string) string {
	s := strings.ToLower(title)
	s = slugCleanPattern.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
