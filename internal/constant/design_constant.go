package constant

import "ai-productforge-be/internal/entity"

// Static design-flow defaults. Each generator in the design flow is backed by
// one of these sets so a failed or short model response never blocks the user.

var FallbackComplementaryFeatures = []string{
	"User onboarding flow with guided product tour",
	"In-app notifications for important events and updates",
	"Analytics dashboard showing key usage metrics",
	"Role-based access control for team accounts",
	"Data export to CSV and JSON",
}

var FallbackPalettes = []entity.PaletteOption{
	{
		Name:   "Slate & Indigo",
		Colors: []string{"#1E293B", "#6366F1", "#E2E8F0", "#F8FAFC"},
	},
	{
		Name:   "Forest",
		Colors: []string{"#14532D", "#22C55E", "#DCFCE7", "#FFFFFF"},
	},
	{
		Name:   "Sunset",
		Colors: []string{"#7C2D12", "#F97316", "#FED7AA", "#FFFBEB"},
	},
}

var FallbackDesignStyles = []entity.StyleOption{
	{
		Name:        "Minimal",
		Description: "Clean layouts with generous whitespace and restrained color.",
	},
	{
		Name:        "Playful",
		Description: "Rounded shapes, bold accents and friendly illustration.",
	},
	{
		Name:        "Professional",
		Description: "Dense, structured layouts tuned for productivity tools.",
	},
}

var FallbackDesignGuidelines = []string{
	"Use a consistent 8px spacing grid across all screens",
	"Keep primary actions visually dominant; one primary button per view",
	"Meet WCAG AA contrast for all text and interactive elements",
	"Provide visible focus states for keyboard navigation",
	"Prefer progressive disclosure over dense settings pages",
}

var FallbackTechStack = map[string][]string{
	"frontend": {"React", "Tailwind CSS"},
	"backend":  {"Go", "Fiber"},
	"database": {"PostgreSQL"},
	"infra":    {"Docker", "NATS"},
}
