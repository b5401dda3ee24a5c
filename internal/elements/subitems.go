package elements

import "fmt"

// Sub-item helpers. Arrays inside content (options, features, plans, ...)
// are treated as copy-on-write: every mutation reconstructs the whole array
// with the matching entry replaced, preserving order. Each helper returns a
// partial Content holding only the rebuilt array so the result flows through
// MergeContent like any other panel update.

// SubItems normalizes the array stored under key into a slice of mappings.
// JSON decoding yields []any; defaults construction yields []map[string]any.
// Entries that are not mappings are skipped.
func SubItems(c Content, key string) []map[string]any {
	switch arr := c[key].(type) {
	case []map[string]any:
		return arr
	case []any:
		out := make([]map[string]any, 0, len(arr))
		for _, item := range arr {
			if m := asMap(item); m != nil {
				out = append(out, m)
			}
		}
		return out
	default:
		return nil
	}
}

// SubItemByID returns the entry whose "id" field matches id.
func SubItemByID(c Content, key, id string) (map[string]any, bool) {
	for _, item := range SubItems(c, key) {
		if itemID(item) == id {
			return item, true
		}
	}
	return nil, false
}

// ReplaceSubItem rebuilds the array under key with the entry matching id
// passed through apply. Order and sibling entries are untouched. Returns
// ErrSubItemNotFound (wrapped with the offending id) when no entry matches.
func ReplaceSubItem(c Content, key, id string, apply func(map[string]any) map[string]any) (Content, error) {
	items := SubItems(c, key)
	found := false
	rebuilt := make([]map[string]any, len(items))
	for i, item := range items {
		if itemID(item) != id {
			rebuilt[i] = cloneMap(item)
			continue
		}
		found = true
		next := apply(cloneMap(item))
		if next == nil {
			next = map[string]any{}
		}
		// Identity is assigned at creation and survives every edit.
		next["id"] = id
		rebuilt[i] = next
	}
	if !found {
		return nil, &NotFoundError{Resource: "sub-item", Key: id}
	}
	return Content{key: rebuilt}, nil
}

// MapSubItems rebuilds the array under key with every entry passed through
// apply as a clone, preserving order and identity. Used for edits that
// touch every entry at once, such as exclusive flags. Entries apply returns
// nil for are kept as plain clones.
func MapSubItems(c Content, key string, apply func(map[string]any) map[string]any) Content {
	items := SubItems(c, key)
	rebuilt := make([]map[string]any, len(items))
	for i, item := range items {
		id := itemID(item)
		next := apply(cloneMap(item))
		if next == nil {
			next = cloneMap(item)
		}
		next["id"] = id
		rebuilt[i] = next
	}
	return Content{key: rebuilt}
}

// InsertSubItem rebuilds the array under key with item inserted at index.
// The index is clamped to [0, len]; negative indexes append.
func InsertSubItem(c Content, key string, index int, item map[string]any) Content {
	items := SubItems(c, key)
	if index < 0 || index > len(items) {
		index = len(items)
	}
	rebuilt := make([]map[string]any, 0, len(items)+1)
	for _, existing := range items[:index] {
		rebuilt = append(rebuilt, cloneMap(existing))
	}
	rebuilt = append(rebuilt, cloneMap(item))
	for _, existing := range items[index:] {
		rebuilt = append(rebuilt, cloneMap(existing))
	}
	return Content{key: rebuilt}
}

// RemoveSubItem rebuilds the array under key without the entry matching id.
// Removal that would shrink the array below floor is rejected with
// ErrMinimumCardinality and the content is left unchanged.
func RemoveSubItem(c Content, key, id string, floor int) (Content, error) {
	items := SubItems(c, key)
	index := -1
	for i, item := range items {
		if itemID(item) == id {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, &NotFoundError{Resource: "sub-item", Key: id}
	}
	if len(items)-1 < floor {
		return nil, fmt.Errorf("%w: %s requires at least %d", ErrMinimumCardinality, key, floor)
	}
	rebuilt := make([]map[string]any, 0, len(items)-1)
	for i, item := range items {
		if i == index {
			continue
		}
		rebuilt = append(rebuilt, cloneMap(item))
	}
	return Content{key: rebuilt}, nil
}

// RenumberField rewrites field on every entry to its position index,
// starting at zero. Used for position-derived values such as chart point
// x-coordinates, which must stay sequential after insert or remove.
func RenumberField(partial Content, key, field string) Content {
	items := SubItems(partial, key)
	rebuilt := make([]map[string]any, len(items))
	for i, item := range items {
		next := cloneMap(item)
		next[field] = i
		rebuilt[i] = next
	}
	out := partial.Clone()
	if out == nil {
		out = Content{}
	}
	out[key] = rebuilt
	return out
}

func itemID(item map[string]any) string {
	id, _ := item["id"].(string)
	return id
}
