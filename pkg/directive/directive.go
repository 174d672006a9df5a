package directive

// Sentinel tokens embedded by the model inside free-form replies.
// ORDER of detection is positional (left-to-right in the reply), not by kind.
const (
	TagUpdateCanvasOpen  = "[UPDATE_CANVAS]"
	TagUpdateCanvasClose = "[/UPDATE_CANVAS]"
	TagPhaseComplete     = "[PHASE_COMPLETE]"
	TagIdeationOpen      = "[IDEATION_COMPLETE]"
	TagIdeationClose     = "[/IDEATION_COMPLETE]"
	TagFeaturesOpen      = "[FEATURES_COMPLETE]"
	TagFeaturesClose     = "[/FEATURES_COMPLETE]"
	TagActionDownloadMD  = "[ACTION:DOWNLOAD_MD]"
	TagActionDownloadPDF = "[ACTION:DOWNLOAD_PDF]"
)

// Kind identifies the directive variant
type Kind string

const (
	KindAddNode          Kind = "add_node"
	KindPhaseComplete    Kind = "phase_complete"
	KindIdeationComplete Kind = "ideation_complete"
	KindFeaturesComplete Kind = "features_complete"
	KindDownload         Kind = "download"
)

// Position is a 2-D canvas coordinate
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodePayload is the node description carried by an UPDATE_CANVAS block
type NodePayload struct {
	Id       string                 `json:"id"`
	Type     string                 `json:"type"`
	Data     map[string]interface{} `json:"data"`
	Position *Position              `json:"position,omitempty"`
	ParentId string                 `json:"parentId,omitempty"`
}

// CanvasUpdate is the JSON payload of an UPDATE_CANVAS block
type CanvasUpdate struct {
	Action string      `json:"action"`
	Node   NodePayload `json:"node"`
}

// IdeationSummary is the structured payload of an IDEATION_COMPLETE block.
// It becomes the phase-1 summary.
type IdeationSummary struct {
	CoreProblem      string `json:"core_problem"`
	PainPoint        string `json:"pain_point"`
	TargetAudience   string `json:"target_audience"`
	CurrentSolutions string `json:"current_solutions"`
}

// FeatureItem is a single mapped feature with its sub-features
type FeatureItem struct {
	Title       string   `json:"title"`
	SubFeatures []string `json:"subFeatures"`
}

// FeaturesSummary is the structured payload of a FEATURES_COMPLETE block.
// It becomes the phase-2 summary.
type FeaturesSummary struct {
	Features []FeatureItem `json:"features"`
}

// Directive is one typed instruction recovered from model text.
// Exactly one of the payload pointers is set, matching Kind.
type Directive struct {
	Kind     Kind
	Canvas   *CanvasUpdate
	Ideation *IdeationSummary
	Features *FeaturesSummary
	Format   string // "md" or "pdf" for KindDownload
}
