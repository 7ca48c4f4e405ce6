package sidebar

import "encoding/json"

// TailKey identifies the singleton Tail entry.
const TailKey = "tail"

// KeyOf returns the entry's identity key. Keys depend on content, not position:
//
//   - Group: ["<name>"]
//   - Path:  ["", "<path>"] (independent of the owning group)
//   - Empty: ["<group>", ""]
//   - Tail:  "tail"
//
// The JSON array shapes keep the kinds from colliding with each other.
func KeyOf(e Entry) string {
	switch e.Kind {
	case KindGroup:
		return encodeKey(e.Name)
	case KindPath:
		return encodeKey("", e.Path)
	case KindEmpty:
		return encodeKey(e.Name, "")
	default:
		return TailKey
	}
}

// Keys maps entries to their identity keys, preserving order.
func Keys(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = KeyOf(e)
	}
	return out
}

func encodeKey(parts ...string) string {
	b, err := json.Marshal(parts)
	if err != nil {
		// []string always marshals.
		panic(err)
	}
	return string(b)
}
