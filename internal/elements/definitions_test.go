package elements_test

import (
	"testing"

	"github.com/goliatone/go-funnel/internal/elements"
)

func TestDefaultContentCoversEveryType(t *testing.T) {
	for _, elementType := range elements.Types() {
		content := elements.DefaultContent(elementType)
		if content == nil {
			t.Fatalf("type %s: expected default content", elementType)
		}
	}
}

func TestDefaultContentUnknownTypeIsEmpty(t *testing.T) {
	content := elements.DefaultContent(elements.Type("hologram"))
	if len(content) != 0 {
		t.Fatalf("expected empty content for unknown type, got %v", content)
	}
}

func TestDefaultContentNeverSharesSubItemIDs(t *testing.T) {
	for _, elementType := range elements.Types() {
		first := elements.DefaultContent(elementType)
		second := elements.DefaultContent(elementType)

		firstIDs := collectSubItemIDs(first)
		secondIDs := collectSubItemIDs(second)
		for id := range firstIDs {
			if _, shared := secondIDs[id]; shared {
				t.Fatalf("type %s: sub-item id %s shared across calls", elementType, id)
			}
		}
	}
}

func TestDefaultContentNeverAliasesSubStructures(t *testing.T) {
	first := elements.DefaultContent(elements.TypeMultipleChoice)
	second := elements.DefaultContent(elements.TypeMultipleChoice)

	first.Map("style")["optionColor"] = "#000000"
	if second.Map("style")["optionColor"] == "#000000" {
		t.Fatal("expected independent style maps across calls")
	}

	firstOptions := elements.SubItems(first, "options")
	firstOptions[0]["text"] = "mutated"
	secondOptions := elements.SubItems(second, "options")
	if secondOptions[0]["text"] == "mutated" {
		t.Fatal("expected independent option arrays across calls")
	}
}

func TestDefaultContentSeedsMinimumCardinality(t *testing.T) {
	cases := map[elements.Type]struct {
		key  string
		min  int
	}{
		elements.TypeMultipleChoice: {key: "options", min: 1},
		elements.TypeComparison:     {key: "comparisonData", min: 2},
		elements.TypeTestimonials:   {key: "testimonials", min: 1},
		elements.TypeCapture:        {key: "captureFields", min: 1},
		elements.TypePricing:        {key: "plans", min: 1},
	}

	for elementType, want := range cases {
		content := elements.DefaultContent(elementType)
		items := elements.SubItems(content, want.key)
		if len(items) < want.min {
			t.Fatalf("type %s: expected at least %d %s, got %d", elementType, want.min, want.key, len(items))
		}
		if floor := elements.Floor(elementType, want.key); floor != want.min {
			t.Fatalf("type %s: expected floor %d, got %d", elementType, want.min, floor)
		}
	}
}

func collectSubItemIDs(c elements.Content) map[string]struct{} {
	out := map[string]struct{}{}
	for key := range c {
		for _, item := range elements.SubItems(c, key) {
			if id, ok := item["id"].(string); ok {
				out[id] = struct{}{}
			}
		}
	}
	return out
}
