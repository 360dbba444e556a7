package chatbot

import "github.com/abhisek/aquacheck/internal/llm"

// ExplanationSchema defines the JSON schema for /ask answers.
var ExplanationSchema = &llm.Schema{
	Name:        "water-explanation",
	Description: "A short plain-language answer about drinking water quality",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"answer": map[string]any{
				"type":        "string",
				"description": "Plain-language answer in 1-3 sentences",
			},
			"parameters": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Measurement names the answer relates to, e.g. pH, Sulfate",
			},
		},
		"required":             []any{"answer", "parameters"},
		"additionalProperties": false,
	},
}
