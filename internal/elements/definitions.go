package elements

import "github.com/google/uuid"

// IDGenerator supplies ids for elements and sub-items. Tests inject
// sequenced generators; production uses uuid.New.
type IDGenerator func() uuid.UUID

// Definition is the capability record for one element type: how to build
// default content for a fresh element, which content schema (if any) commits
// are validated against, and the minimum sizes of its sub-item collections.
// The panel registry is built from this table so defaults dispatch and panel
// dispatch cannot drift apart.
type Definition struct {
	Type     Type
	Defaults func(gen IDGenerator) Content
	Schema   map[string]any
	Floors   map[string]int
}

// DefinitionFor returns the capability record for t.
func DefinitionFor(t Type) (Definition, bool) {
	def, ok := definitions[t]
	return def, ok
}

// Floor returns the minimum cardinality for the collection stored under key
// on elements of type t. Zero means unconstrained.
func Floor(t Type, key string) int {
	def, ok := definitions[t]
	if !ok {
		return 0
	}
	return def.Floors[key]
}

// DefaultContent builds the default content for a brand-new element of the
// given type. Every call constructs fresh sub-item ids and fresh nested
// structures; two calls never share mutable state. Unrecognized types yield
// an empty content so unknown tags degrade gracefully instead of failing.
func DefaultContent(t Type) Content {
	return DefaultContentWithIDs(t, func() uuid.UUID { return uuid.New() })
}

// DefaultContentWithIDs is DefaultContent with an injectable id source.
func DefaultContentWithIDs(t Type, gen IDGenerator) Content {
	def, ok := definitions[t]
	if !ok || def.Defaults == nil {
		return Content{}
	}
	content := def.Defaults(gen)
	if content == nil {
		content = Content{}
	}
	return content
}

var definitionOrder = []Type{
	TypeText,
	TypeMultipleChoice,
	TypeMultipleChoiceImage,
	TypeButton,
	TypeImage,
	TypeCarousel,
	TypeHeight,
	TypeWeight,
	TypeComparison,
	TypeArguments,
	TypeGraphics,
	TypeTestimonials,
	TypeLevel,
	TypeCapture,
	TypeLoading,
	TypeCartesian,
	TypeSpacer,
	TypeRating,
	TypeVideo,
	TypePricing,
}

var definitions = map[Type]Definition{
	TypeText: {
		Type: TypeText,
		Defaults: func(IDGenerator) Content {
			return Content{
				"text": "<p>Escreva seu texto aqui</p>",
				"style": map[string]any{
					"textAlign": "left",
					"fontSize":  16,
				},
			}
		},
	},
	TypeMultipleChoice: {
		Type:   TypeMultipleChoice,
		Floors: map[string]int{"options": 1},
		Schema: choiceSchema,
		Defaults: func(gen IDGenerator) Content {
			return Content{
				"title":          "Qual a sua escolha?",
				"allowMultiple":  false,
				"autoAdvance":    true,
				"options":        defaultOptions(gen, "Opção 1", "Opção 2"),
				"style":          map[string]any{"optionColor": "#ffffff", "textAlign": "center"},
				"navigation":     map[string]any{"type": NavigationNext},
				"requiredAnswer": true,
			}
		},
	},
	TypeMultipleChoiceImage: {
		Type:   TypeMultipleChoiceImage,
		Floors: map[string]int{"options": 1},
		Schema: choiceSchema,
		Defaults: func(gen IDGenerator) Content {
			options := defaultOptions(gen, "Opção 1", "Opção 2")
			for _, option := range options {
				option["imageUrl"] = ""
				option["imageManaged"] = false
			}
			return Content{
				"title":         "Escolha uma imagem",
				"allowMultiple": false,
				"autoAdvance":   true,
				"columns":       2,
				"options":       options,
				"style":         map[string]any{"optionColor": "#ffffff"},
				"navigation":    map[string]any{"type": NavigationNext},
			}
		},
	},
	TypeButton: {
		Type: TypeButton,
		Defaults: func(IDGenerator) Content {
			return Content{
				"label": "Continuar",
				"style": map[string]any{
					"backgroundColor": "#2563eb",
					"textColor":       "#ffffff",
					"borderRadius":    8,
				},
				"navigation": map[string]any{"type": NavigationNext},
			}
		},
	},
	TypeImage: {
		Type: TypeImage,
		Defaults: func(IDGenerator) Content {
			return Content{
				"imageUrl":     "",
				"imageManaged": false,
				"alt":          "",
				"style":        map[string]any{"width": 100, "alignment": "center"},
			}
		},
	},
	TypeCarousel: {
		Type:   TypeCarousel,
		Floors: map[string]int{"slides": 1},
		Defaults: func(gen IDGenerator) Content {
			return Content{
				"slides": []map[string]any{
					{"id": gen().String(), "imageUrl": "", "imageManaged": false, "caption": ""},
				},
				"autoplay": false,
				"interval": 5,
				"style":    map[string]any{"arrows": true, "dots": true},
			}
		},
	},
	TypeHeight: {
		Type: TypeHeight,
		Defaults: func(IDGenerator) Content {
			return Content{
				"unit":  "cm",
				"min":   100,
				"max":   220,
				"value": 170,
				"style": map[string]any{"accentColor": "#2563eb"},
			}
		},
	},
	TypeWeight: {
		Type: TypeWeight,
		Defaults: func(IDGenerator) Content {
			return Content{
				"unit":  "kg",
				"min":   30,
				"max":   200,
				"value": 70,
				"style": map[string]any{"accentColor": "#2563eb"},
			}
		},
	},
	TypeComparison: {
		Type:   TypeComparison,
		Floors: map[string]int{"comparisonData": 2},
		Defaults: func(gen IDGenerator) Content {
			return Content{
				"title": "Antes e depois",
				"comparisonData": []map[string]any{
					{"id": gen().String(), "label": "Antes", "highlight": false},
					{"id": gen().String(), "label": "Depois", "highlight": true},
				},
				"style": map[string]any{"highlightColor": "#16a34a"},
			}
		},
	},
	TypeArguments: {
		Type:   TypeArguments,
		Floors: map[string]int{"argumentItems": 1},
		Defaults: func(gen IDGenerator) Content {
			return Content{
				"title": "Por que escolher a gente?",
				"argumentItems": []map[string]any{
					{"id": gen().String(), "icon": "check", "text": "Argumento 1"},
				},
				"style": map[string]any{"iconColor": "#16a34a"},
			}
		},
	},
	TypeGraphics: {
		Type: TypeGraphics,
		Defaults: func(gen IDGenerator) Content {
			return Content{
				"chartType": "line",
				"chartData": []map[string]any{
					{"id": gen().String(), "x": 0, "y": 20, "label": ""},
					{"id": gen().String(), "x": 1, "y": 45, "label": ""},
					{"id": gen().String(), "x": 2, "y": 80, "label": ""},
				},
				"style": map[string]any{"lineColor": "#2563eb", "fill": true},
			}
		},
	},
	TypeTestimonials: {
		Type:   TypeTestimonials,
		Floors: map[string]int{"testimonials": 1},
		Defaults: func(gen IDGenerator) Content {
			return Content{
				"title": "O que dizem nossos clientes",
				"testimonials": []map[string]any{
					{
						"id":           gen().String(),
						"name":         "Cliente satisfeito",
						"text":         "Recomendo muito!",
						"rating":       5,
						"avatarUrl":    "",
						"avatarManaged": false,
					},
				},
				"style": map[string]any{"cardColor": "#ffffff"},
			}
		},
	},
	TypeLevel: {
		Type: TypeLevel,
		Defaults: func(IDGenerator) Content {
			return Content{
				"label":   "Nível",
				"percent": 50,
				"style":   map[string]any{"barColor": "#2563eb"},
			}
		},
	},
	TypeCapture: {
		Type:   TypeCapture,
		Floors: map[string]int{"captureFields": 1},
		Schema: captureSchema,
		Defaults: func(gen IDGenerator) Content {
			return Content{
				"title": "Deixe seus dados",
				"captureFields": []map[string]any{
					{"id": gen().String(), "type": "email", "placeholder": "Seu email", "required": true},
				},
				"buttonLabel": "Enviar",
				"style":       map[string]any{"buttonColor": "#2563eb"},
				"navigation":  map[string]any{"type": NavigationNext},
			}
		},
	},
	TypeLoading: {
		Type: TypeLoading,
		Defaults: func(IDGenerator) Content {
			return Content{
				"text":     "Calculando seu resultado...",
				"duration": 4,
				"style":    map[string]any{"spinnerColor": "#2563eb"},
				"navigation": map[string]any{
					"type": NavigationNext,
				},
			}
		},
	},
	TypeCartesian: {
		Type: TypeCartesian,
		Defaults: func(gen IDGenerator) Content {
			return Content{
				"xLabel": "Tempo",
				"yLabel": "Progresso",
				"chartPoints": []map[string]any{
					{"id": gen().String(), "x": 0, "y": 10},
					{"id": gen().String(), "x": 1, "y": 60},
				},
				"style": map[string]any{"axisColor": "#111827"},
			}
		},
	},
	TypeSpacer: {
		Type: TypeSpacer,
		Defaults: func(IDGenerator) Content {
			return Content{
				"height": 24,
			}
		},
	},
	TypeRating: {
		Type: TypeRating,
		Defaults: func(IDGenerator) Content {
			return Content{
				"title": "Como você avalia?",
				"max":   5,
				"icon":  "star",
				"style": map[string]any{"iconColor": "#f59e0b"},
			}
		},
	},
	TypeVideo: {
		Type: TypeVideo,
		Defaults: func(IDGenerator) Content {
			return Content{
				"videoUrl": "",
				"autoplay": false,
				"controls": true,
				"style":    map[string]any{"width": 100},
			}
		},
	},
	TypePricing: {
		Type:   TypePricing,
		Floors: map[string]int{"plans": 1},
		Defaults: func(gen IDGenerator) Content {
			return Content{
				"title": "Escolha seu plano",
				"plans": []map[string]any{
					{
						"id":        gen().String(),
						"name":      "Plano mensal",
						"price":     "R$ 29,90",
						"period":    "mês",
						"features":  []any{"Acesso completo"},
						"highlight": false,
					},
				},
				"style":      map[string]any{"highlightColor": "#2563eb"},
				"navigation": map[string]any{"type": NavigationNext},
			}
		},
	},
}

func defaultOptions(gen IDGenerator, texts ...string) []map[string]any {
	options := make([]map[string]any, 0, len(texts))
	for _, text := range texts {
		options = append(options, map[string]any{
			"id":         gen().String(),
			"text":       text,
			"emoji":      "",
			"navigation": map[string]any{"type": NavigationNext},
		})
	}
	return options
}

// Content schemas are intentionally permissive (additionalProperties true)
// so unknown fields written by newer hosts round-trip through older cores.
var choiceSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": true,
	"properties": map[string]any{
		"title": map[string]any{"type": "string"},
		"options": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":                 "object",
				"required":             []string{"id"},
				"additionalProperties": true,
				"properties": map[string]any{
					"id":   map[string]any{"type": "string"},
					"text": map[string]any{"type": "string"},
				},
			},
		},
	},
}

var captureSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": true,
	"properties": map[string]any{
		"captureFields": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":                 "object",
				"required":             []string{"id", "type"},
				"additionalProperties": true,
				"properties": map[string]any{
					"id":          map[string]any{"type": "string"},
					"type":        map[string]any{"type": "string"},
					"placeholder": map[string]any{"type": "string"},
				},
			},
		},
	},
}
