package constant

const (
	DesignComplementaryGenPrompt = `Based on the product context below, propose exactly 5 complementary supporting features (one short sentence each).

%s

Output MUST be valid JSON: {"features": ["...", "...", "...", "...", "..."]}`

	DesignPaletteGenPrompt = `Propose exactly 3 color palettes for a %s-themed product interface. Each palette has a short name and exactly 4 hex colors (primary, accent, surface, background).

Inspiration from current design references:
%s

Output MUST be valid JSON: {"palettes": [{"name": "...", "colors": ["#RRGGBB", "#RRGGBB", "#RRGGBB", "#RRGGBB"]}]}`

	DesignStyleGenPrompt = `Propose exactly 3 distinct visual design styles for the product described below. Each style has a name and a single short sentence describing it.

%s

Output MUST be valid JSON: {"styles": [{"name": "...", "description": "..."}]}`

	DesignGuidelinesGenPrompt = `Write 5 concrete UI design guidelines for a product with theme "%s", palette "%s" and style "%s". One sentence each.

Output MUST be valid JSON: {"guidelines": ["...", "...", "...", "...", "..."]}`

	DesignTechStackGenPrompt = `Recommend a technology stack for the product described below. Group by layer.

%s

Output MUST be valid JSON: {"stack": {"frontend": ["..."], "backend": ["..."], "database": ["..."], "infra": ["..."]}}`

	DesignStepComplementaryPrompt = `Let's round out your feature set. Pick 1-5 of these complementary features (reply with the numbers), or describe your own:`

	DesignStepThemePrompt = `Should the interface default to a light or dark theme?
1. Light
2. Dark`

	DesignStepPalettePrompt = `Pick a color palette (reply with the number), or paste your own comma-separated hex colors:`

	DesignStepStylePrompt = `Last choice: pick a visual style (reply with the number):`

	DesignStepDonePrompt = `Design phase complete. Your design system and UI direction have been added to the canvas. Use the phase-advance action when you're ready to generate the PRD.`

	DesignPhaseRedirect = `Phase 3 is a guided design flow rather than open conversation. I'll walk you through a short series of choices: complementary features, theme, palette and style.`
)
