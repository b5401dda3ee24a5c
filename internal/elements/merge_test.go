package elements_test

import (
	"testing"

	"github.com/goliatone/go-funnel/internal/elements"
)

func TestMergeContentRetainsSiblingKeys(t *testing.T) {
	current := elements.Content{
		"title": "Qual a sua escolha?",
		"style": map[string]any{
			"textAlign":   "center",
			"optionColor": "#ffffff",
		},
		"options": []map[string]any{{"id": "a", "text": "X"}},
	}

	merged := elements.MergeContent(current, elements.Content{"title": "Nova pergunta"})

	if merged["title"] != "Nova pergunta" {
		t.Fatalf("expected title replaced, got %v", merged["title"])
	}
	if merged.Map("style")["optionColor"] != "#ffffff" {
		t.Fatalf("expected untouched style to survive, got %v", merged["style"])
	}
	if len(elements.SubItems(merged, "options")) != 1 {
		t.Fatalf("expected options to survive merge")
	}
}

func TestMergeContentStyleMergesOneLevelDeep(t *testing.T) {
	current := elements.Content{
		"style": map[string]any{
			"textAlign":   "center",
			"optionColor": "#ffffff",
		},
	}

	merged := elements.MergeContent(current, elements.StylePartial(map[string]any{
		"textAlign": "left",
	}))

	style := merged.Map("style")
	if style["textAlign"] != "left" {
		t.Fatalf("expected textAlign updated, got %v", style["textAlign"])
	}
	if style["optionColor"] != "#ffffff" {
		t.Fatalf("expected sibling style leaf retained, got %v", style)
	}
}

func TestMergeContentNavigationMergesOneLevelDeep(t *testing.T) {
	current := elements.Content{
		"navigation": map[string]any{
			"type":   "url",
			"url":    "https://example.com",
			"openInNewTab": true,
		},
	}

	merged := elements.MergeContent(current, elements.NavigationPartial(map[string]any{
		"url": "https://example.org",
	}))

	navigation := merged.Map("navigation")
	if navigation["url"] != "https://example.org" {
		t.Fatalf("expected url updated, got %v", navigation["url"])
	}
	if navigation["type"] != "url" || navigation["openInNewTab"] != true {
		t.Fatalf("expected navigation siblings retained, got %v", navigation)
	}
}

func TestMergeContentDoesNotMutateInputs(t *testing.T) {
	current := elements.Content{
		"style": map[string]any{"textAlign": "center"},
	}
	partial := elements.StylePartial(map[string]any{"textAlign": "left"})

	merged := elements.MergeContent(current, partial)

	if current.Map("style")["textAlign"] != "center" {
		t.Fatalf("expected current untouched, got %v", current)
	}
	merged.Map("style")["textAlign"] = "right"
	if current.Map("style")["textAlign"] != "center" {
		t.Fatal("expected merged result to be detached from current")
	}
}

func TestMergeContentEmptyPartialClones(t *testing.T) {
	current := elements.Content{"title": "x", "style": map[string]any{"a": 1}}

	merged := elements.MergeContent(current, nil)

	merged["title"] = "y"
	merged.Map("style")["a"] = 2
	if current["title"] != "x" || current.Map("style")["a"] != 1 {
		t.Fatalf("expected clone on empty partial, got %v", current)
	}
}
