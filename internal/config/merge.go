package config

import "fmt"

// Merge layers a persisted configuration tree over defaults and returns a new tree.
// Neither argument is modified.
//
// For generate_policy_pages, output_targets and integrations the persisted sub-keys
// are merged over the default sub-keys, so default keys missing from the persisted
// map are kept and unknown persisted keys are preserved. A null map or sub-key
// leaves the default in place. Every other persisted top-level key replaces the
// default value wholesale; unknown top-level keys are adopted as-is.
//
// A non-null, non-object value for a nested key replaces the default here and is
// rejected by ValidateTree, which Load runs first.
func Merge(defaults, persisted map[string]any) map[string]any {
	out := deepCopyMap(defaults)
	for key, value := range persisted {
		if nestedKeys[key] {
			if value == nil {
				continue
			}
			base, baseIsMap := out[key].(map[string]any)
			overlay, overlayIsMap := value.(map[string]any)
			if baseIsMap && overlayIsMap {
				for subKey, subValue := range overlay {
					if subValue == nil {
						continue
					}
					base[subKey] = deepCopyValue(subValue)
				}
				continue
			}
		}
		out[key] = deepCopyValue(value)
	}
	return out
}

// ValidateTree checks the shape of a persisted tree: the nested keys must hold a
// JSON object or null.
func ValidateTree(persisted map[string]any) error {
	for key := range nestedKeys {
		value, ok := persisted[key]
		if !ok || value == nil {
			continue
		}
		if _, isMap := value.(map[string]any); !isMap {
			return fmt.Errorf("%s: expected an object, got %T", key, value)
		}
	}
	return nil
}

func deepCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return make(map[string]any)
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return deepCopyMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		return val
	}
}
