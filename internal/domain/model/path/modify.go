package path

import (
	"fmt"

	"github.com/tsukiyo-oss/journaldoc/internal/domain/apperr"
	"github.com/tsukiyo-oss/journaldoc/internal/domain/model/value"
)

// deleteKind is a wire-level sentinel, distinct from value.KindNull: it
// means "remove the addressed entry" rather than "store a JSON null".
const deleteKind = value.Kind(0xff)

// Delete is passed as Modify's val argument to remove the directive's
// target instead of setting it.
var Delete = value.V{Kind: deleteKind}

func isDelete(v value.V) bool { return v.Kind == deleteKind }

// Modify returns the document that results from applying directives
// against root, either setting/adding val at the addressed location or,
// if val is Delete, removing it. Modify never mutates its arguments in
// place: every map or list node on the path from root to the addressed
// location is shallow-copied before anything is written into it, since
// V's M and L fields are Go maps and slices and would otherwise alias
// the caller's live storage. This makes Apply a genuine pure function —
// callers can discard its result on error, or on a later failure in the
// same mutation protocol, without the source document having changed.
func Modify(root value.V, directives []Directive, val value.V) (value.V, error) {
	if len(directives) == 0 {
		if isDelete(val) {
			return value.EmptyMap(), nil
		}
		if !val.IsMap() {
			return value.V{}, fmt.Errorf("%w: replacing the document root requires a map value", apperr.ErrInvalidPath)
		}
		return val, nil
	}
	if !root.IsMap() {
		return value.V{}, fmt.Errorf("%w: document root is not a map", apperr.ErrInvalidPath)
	}
	return applyAt(root, directives, val)
}

// cloneMap returns a shallow copy of m: a fresh backing map with the same
// key/value pairs, so writing into the copy never touches m's caller.
func cloneMap(m map[string]value.V) map[string]value.V {
	out := make(map[string]value.V, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

// cloneList returns a shallow copy of l: a fresh backing array with the
// same elements, so appending to or indexing into the copy never touches
// l's caller (append on the original could otherwise grow in place when
// capacity allows, aliasing the same backing array as the source).
func cloneList(l []value.V) []value.V {
	out := make([]value.V, len(l))
	copy(out, l)
	return out
}

// applyAt applies the directive chain rooted at node, returning node's
// replacement value.
func applyAt(node value.V, directives []Directive, val value.V) (value.V, error) {
	d := directives[0]
	rest := directives[1:]
	if len(rest) == 0 {
		return applyFinal(node, d, val)
	}

	childKind := rest[0].Kind.ContainerKind()
	if d.Kind.IsMapKeyed() {
		return descendMap(node, d, rest, childKind, val)
	}
	return descendList(node, d, rest, childKind, val)
}

func descendMap(node value.V, d Directive, rest []Directive, childKind value.Kind, val value.V) (value.V, error) {
	if node.Kind != value.KindMap {
		return value.V{}, fmt.Errorf("%w: cannot navigate a non-map value with a map directive", apperr.ErrInvalidPath)
	}
	child, ok := node.M[d.Key]
	if !ok {
		child = emptyOf(childKind)
	}
	newChild, err := applyAt(child, rest, val)
	if err != nil {
		return value.V{}, err
	}
	newMap := cloneMap(node.M)
	newMap[d.Key] = newChild
	node.M = newMap
	return node, nil
}

func descendList(node value.V, d Directive, rest []Directive, childKind value.Kind, val value.V) (value.V, error) {
	if node.Kind != value.KindList {
		return value.V{}, fmt.Errorf("%w: cannot navigate a non-list value with a list directive", apperr.ErrInvalidPath)
	}
	idx, appendNew, err := resolveListSlot(node, d)
	if err != nil {
		return value.V{}, err
	}
	var child value.V
	if appendNew {
		child = emptyOf(childKind)
	} else {
		child = node.L[idx]
	}
	newChild, err := applyAt(child, rest, val)
	if err != nil {
		return value.V{}, err
	}
	newList := cloneList(node.L)
	if appendNew {
		newList = append(newList, newChild)
	} else {
		newList[idx] = newChild
	}
	node.L = newList
	return node, nil
}

// resolveListSlot decides which index a navigating (non-final) list
// directive addresses, and whether that slot must be freshly appended.
func resolveListSlot(node value.V, d Directive) (idx int, appendNew bool, err error) {
	n := len(node.L)
	switch d.Kind {
	case ListIndex, ListIndexAdd:
		switch {
		case d.Index == n:
			return 0, true, nil
		case d.Index > n:
			return 0, false, fmt.Errorf("%w: list index %d is beyond the current length %d", apperr.ErrInvalidPath, d.Index, n)
		default:
			return d.Index, false, nil
		}
	case ListLastIndex, ListLastIndexAdd:
		if n == 0 {
			return 0, true, nil
		}
		return n - 1, false, nil
	case ListInsert:
		return 0, true, nil
	default:
		return 0, false, fmt.Errorf("%w: unsupported list directive", apperr.ErrInvalidPath)
	}
}

func emptyOf(kind value.Kind) value.V {
	if kind == value.KindMap {
		return value.EmptyMap()
	}
	return value.EmptyList()
}

func applyFinal(node value.V, d Directive, val value.V) (value.V, error) {
	if d.Kind.IsMapKeyed() {
		return applyFinalMap(node, d, val)
	}
	return applyFinalList(node, d, val)
}

func applyFinalMap(node value.V, d Directive, val value.V) (value.V, error) {
	if node.Kind != value.KindMap {
		return value.V{}, fmt.Errorf("%w: cannot apply a map directive to a non-map value", apperr.ErrInvalidPath)
	}
	if isDelete(val) {
		newMap := cloneMap(node.M)
		delete(newMap, d.Key)
		node.M = newMap
		return node, nil
	}
	if d.Kind == MapKeyAdd {
		existing, ok := node.M[d.Key]
		if !ok {
			newMap := cloneMap(node.M)
			newMap[d.Key] = val
			node.M = newMap
			return node, nil
		}
		sum, err := value.Add(existing, val)
		if err != nil {
			return value.V{}, fmt.Errorf("%w: %s", apperr.ErrInvalidPath, err)
		}
		newMap := cloneMap(node.M)
		newMap[d.Key] = sum
		node.M = newMap
		return node, nil
	}
	newMap := cloneMap(node.M)
	newMap[d.Key] = val
	node.M = newMap
	return node, nil
}

func applyFinalList(node value.V, d Directive, val value.V) (value.V, error) {
	if node.Kind != value.KindList {
		return value.V{}, fmt.Errorf("%w: cannot apply a list directive to a non-list value", apperr.ErrInvalidPath)
	}
	switch d.Kind {
	case ListInsert:
		if isDelete(val) {
			return node, nil
		}
		newList := cloneList(node.L)
		node.L = append(newList, val)
		return node, nil
	case ListIndex, ListIndexAdd:
		n := len(node.L)
		if d.Index > n {
			return value.V{}, fmt.Errorf("%w: list index %d is beyond the current length %d", apperr.ErrInvalidPath, d.Index, n)
		}
		return setListSlot(node, d.Index, d.Index == n, d.Kind == ListIndexAdd, val)
	case ListLastIndex, ListLastIndexAdd:
		n := len(node.L)
		if n == 0 {
			return setListSlot(node, 0, true, d.Kind == ListLastIndexAdd, val)
		}
		return setListSlot(node, n-1, false, d.Kind == ListLastIndexAdd, val)
	default:
		return value.V{}, fmt.Errorf("%w: unsupported list directive", apperr.ErrInvalidPath)
	}
}

func setListSlot(node value.V, idx int, appendNew, add bool, val value.V) (value.V, error) {
	if isDelete(val) {
		if appendNew {
			return node, nil // deleting a slot that doesn't exist yet is a no-op
		}
		newList := make([]value.V, 0, len(node.L)-1)
		newList = append(newList, node.L[:idx]...)
		newList = append(newList, node.L[idx+1:]...)
		node.L = newList
		return node, nil
	}
	if appendNew {
		newList := cloneList(node.L)
		node.L = append(newList, val)
		return node, nil
	}
	if add {
		sum, err := value.Add(node.L[idx], val)
		if err != nil {
			return value.V{}, fmt.Errorf("%w: %s", apperr.ErrInvalidPath, err)
		}
		newList := cloneList(node.L)
		newList[idx] = sum
		node.L = newList
		return node, nil
	}
	newList := cloneList(node.L)
	newList[idx] = val
	node.L = newList
	return node, nil
}
