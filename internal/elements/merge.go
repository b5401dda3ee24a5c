package elements

// Keys merged one level deep instead of replaced wholesale. Everything else
// at the top level is replaced by the partial's value.
var deepMergeKeys = map[string]struct{}{
	"style":      {},
	"navigation": {},
}

// MergeContent applies a partial update onto current content and returns the
// merged tree. The merge is shallow at the top level; style and navigation
// are merged one level deeper so a partial touching a single leaf never
// drops sibling keys. Neither input is mutated.
func MergeContent(current, partial Content) Content {
	if len(partial) == 0 {
		return current.Clone()
	}

	merged := make(Content, len(current)+len(partial))
	for k, v := range current {
		merged[k] = cloneValue(v)
	}
	for k, v := range partial {
		if _, deep := deepMergeKeys[k]; deep {
			merged[k] = mergeNested(asMap(current[k]), asMap(v))
			continue
		}
		merged[k] = cloneValue(v)
	}
	return merged
}

func mergeNested(current, partial map[string]any) map[string]any {
	if partial == nil {
		return cloneMap(current)
	}
	out := make(map[string]any, len(current)+len(partial))
	for k, v := range current {
		out[k] = cloneValue(v)
	}
	for k, v := range partial {
		out[k] = cloneValue(v)
	}
	return out
}

func asMap(v any) map[string]any {
	switch tv := v.(type) {
	case map[string]any:
		return tv
	case Content:
		return map[string]any(tv)
	default:
		return nil
	}
}

// StylePartial wraps style leaves into a partial ready for MergeContent.
func StylePartial(leaves map[string]any) Content {
	return Content{"style": leaves}
}

// NavigationPartial wraps navigation leaves into a partial ready for
// MergeContent.
func NavigationPartial(leaves map[string]any) Content {
	return Content{"navigation": leaves}
}
