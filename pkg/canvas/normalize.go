package canvas

import "strings"

// Fixed node type vocabulary. Anything outside this list gets normalized in.
const (
	NodeTypeRoot                  = "root"
	NodeTypeFeature               = "feature"
	NodeTypeTech                  = "tech"
	NodeTypeDatabase              = "database"
	NodeTypeDefault               = "default"
	NodeTypeIdeation              = "ideation"
	NodeTypeFeatureGroup          = "feature-group"
	NodeTypeComplementaryFeatures = "complementary-features"
	NodeTypeUIDesign              = "ui-design"
	NodeTypeSystemMap             = "system-map"
	NodeTypeUserFlow              = "user-flow"
)

var knownTypes = map[string]bool{
	NodeTypeRoot:                  true,
	NodeTypeFeature:               true,
	NodeTypeTech:                  true,
	NodeTypeDatabase:              true,
	NodeTypeDefault:               true,
	NodeTypeIdeation:              true,
	NodeTypeFeatureGroup:          true,
	NodeTypeComplementaryFeatures: true,
	NodeTypeUIDesign:              true,
	NodeTypeSystemMap:             true,
	NodeTypeUserFlow:              true,
}

// NormalizeType maps a loosely-spelled type string to the fixed vocabulary.
// The upstream text generator is not contractually guaranteed to spell type
// tags consistently, so this is the last line of defense for graph integrity.
//
// Priority rules:
//  1. Payload shape wins: a steps list or a parent-feature reference marks a
//     user flow no matter what the stated type says.
//  2. Case/punctuation variants of known types are canonicalized.
//  3. Anything unrecognized falls back to the generic feature type.
func NormalizeType(rawType string, data map[string]interface{}) string {
	if isUserFlowShape(data) {
		return NodeTypeUserFlow
	}

	canonical := canonicalize(rawType)
	if knownTypes[canonical] {
		return canonical
	}
	return NodeTypeFeature
}

// isUserFlowShape detects the payload signature of a user flow.
func isUserFlowShape(data map[string]interface{}) bool {
	if data == nil {
		return false
	}
	if steps, ok := data["steps"]; ok {
		if list, ok := steps.([]interface{}); ok && len(list) > 0 {
			return true
		}
	}
	if _, ok := data["parentFeature"]; ok {
		return true
	}
	return false
}

// canonicalize lowercases and converts spaces/underscores to hyphens, so
// "User Flow", "user_flow" and "USERFLOW" all land on "user-flow".
func canonicalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "_", "-")

	if knownTypes[s] {
		return s
	}

	// Squashed variants without separators ("userflow", "systemmap")
	squashed := strings.ReplaceAll(s, "-", "")
	for known := range knownTypes {
		if strings.ReplaceAll(known, "-", "") == squashed {
			return known
		}
	}
	return s
}
