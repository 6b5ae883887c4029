package extraction

var stringList = map[string]any{"type": "array", "items": map[string]any{"type": "string"}}

// extractedSchema mirrors document.Extracted.
var extractedSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"folios": stringList,
		"book_entries": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"book":    map[string]any{"type": "string"},
					"section": map[string]any{"type": "string"},
					"entry":   map[string]any{"type": "string"},
				},
			},
		},
		"units": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"identifier":    map[string]any{"type": "string"},
					"folio":         map[string]any{"type": "string"},
					"surveyed_area": map[string]any{"type": "string"},
				},
			},
		},
		"expected_units": map[string]any{"type": "integer"},
		"title_holders":  stringList,
		"people": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":           map[string]any{"type": "string"},
					"tax_id":         map[string]any{"type": "string"},
					"national_id":    map[string]any{"type": "string"},
					"marital_status": map[string]any{"type": "string"},
					"role":           map[string]any{"type": "string"},
				},
			},
		},
		"address":        map[string]any{"type": "string"},
		"surveyed_area":  map[string]any{"type": "string"},
		"cadastral_refs": stringList,
		"liens": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"institution": map[string]any{"type": "string"},
					"amount":      map[string]any{"type": "number"},
				},
			},
		},
		"text": map[string]any{"type": "string"},
	},
}
