package path

import "github.com/tsukiyo-oss/journaldoc/internal/domain/model/value"

// Get navigates directives against root without mutating anything,
// returning the addressed value and whether it exists. Unlike Modify it
// never creates missing parents; any missing key, out-of-range index, or
// directive that doesn't match the container kind at that point in the
// tree is simply a miss.
func Get(root value.V, directives []Directive) (value.V, bool) {
	node := root
	for _, d := range directives {
		if d.Kind.IsMapKeyed() {
			if node.Kind != value.KindMap {
				return value.V{}, false
			}
			child, ok := node.M[d.Key]
			if !ok {
				return value.V{}, false
			}
			node = child
			continue
		}
		if node.Kind != value.KindList {
			return value.V{}, false
		}
		idx, ok := resolveReadIndex(node, d)
		if !ok {
			return value.V{}, false
		}
		node = node.L[idx]
	}
	return node, true
}

func resolveReadIndex(node value.V, d Directive) (int, bool) {
	n := len(node.L)
	switch d.Kind {
	case ListIndex, ListIndexAdd:
		if d.Index < 0 || d.Index >= n {
			return 0, false
		}
		return d.Index, true
	case ListLastIndex, ListLastIndexAdd:
		if n == 0 {
			return 0, false
		}
		return n - 1, true
	default:
		return 0, false
	}
}
