package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"

	DocumentTypePRD = "prd"

	// Phase 4 is fully automated: the conversational surface only
	// acknowledges and points at the document pipeline.
	DocumentPhaseAcknowledgement = `Your PRD is being generated from everything we've defined so far. ` +
		`This runs automatically, so there's nothing more to discuss here. ` +
		`Once the document is assembled you'll move to the Export phase where you can download it as Markdown or PDF.`
)
