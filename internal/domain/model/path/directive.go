// Package path implements the document path grammar: parsing a dotted,
// backslash-escaped path string into an ordered sequence of Directives,
// and applying those directives against a value.V document tree to
// perform the insert/delete/append/increment mutation the path names.
package path

import "github.com/tsukiyo-oss/journaldoc/internal/domain/model/value"

// Kind enumerates the seven directive variants the grammar can produce.
// Only the last directive in a parsed path may carry an Add or ListInsert
// kind; every earlier directive exists purely to navigate or create a
// parent container.
type Kind uint8

const (
	MapKey Kind = iota
	MapKeyAdd
	ListIndex
	ListIndexAdd
	ListLastIndex
	ListLastIndexAdd
	ListInsert
)

// IsMapKeyed reports whether a directive of this kind addresses a map by
// name, as opposed to a list by position.
func (k Kind) IsMapKeyed() bool {
	return k == MapKey || k == MapKeyAdd
}

// ContainerKind returns the container type a directive of this kind must
// operate within: a map for the *Key variants, a list for everything else.
func (k Kind) ContainerKind() value.Kind {
	if k.IsMapKeyed() {
		return value.KindMap
	}
	return value.KindList
}

// IsAdd reports whether this directive's set operation is numeric-add
// rather than overwrite. ListInsert is never an add variant: it always
// appends.
func (k Kind) IsAdd() bool {
	switch k {
	case MapKeyAdd, ListIndexAdd, ListLastIndexAdd:
		return true
	default:
		return false
	}
}

// Directive is one step of path navigation. Key is populated for the
// MapKey/MapKeyAdd kinds, Index for ListIndex/ListIndexAdd.
type Directive struct {
	Kind  Kind
	Key   string
	Index int
}
