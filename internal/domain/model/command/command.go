// Package command implements the journal's unit of mutation: a path
// string paired with a value and an operation (set, numeric-add, delete,
// or list-insert), plus the binary frame format used to persist it.
package command

import (
	"fmt"

	"github.com/tsukiyo-oss/journaldoc/internal/domain/apperr"
	"github.com/tsukiyo-oss/journaldoc/internal/domain/model/path"
	"github.com/tsukiyo-oss/journaldoc/internal/domain/model/value"
)

// Op distinguishes the wire-level operation a Command performs. The path
// grammar's own Add/Insert directive kinds (see path.Kind) already carry
// most of this distinction; Op exists so the journal can tell a delete
// apart from "store a value", since value.V's own Null variant is a
// legitimate stored value rather than a deletion marker.
type Op uint8

const (
	OpSet Op = iota
	OpDelete
)

// Command is a single addressed mutation: set (or numeric-add, per the
// path's own trailing '+') the value at Path, or delete it if Op is
// OpDelete, in which case Value is ignored.
type Command struct {
	Path  string
	Op    Op
	Value value.V
}

// Apply parses c.Path and returns the document that results from applying
// c against root. It never mutates root's own fields in place (see
// path.Modify); the returned value.V is what the caller must store back.
func (c Command) Apply(root value.V) (value.V, error) {
	directives, err := path.Parse(c.Path)
	if err != nil {
		return value.V{}, err
	}
	val := c.Value
	if c.Op == OpDelete {
		val = path.Delete
	}
	out, err := path.Modify(root, directives, val)
	if err != nil {
		return value.V{}, fmt.Errorf("command: apply %q: %w", c.Path, err)
	}
	return out, nil
}

func (c Command) String() string {
	if c.Op == OpDelete {
		return fmt.Sprintf("delete %q", c.Path)
	}
	return fmt.Sprintf("set %q", c.Path)
}

// validate rejects a command whose value cannot survive the wire codec,
// before it ever reaches the stream.
func (c Command) validate() error {
	if c.Op != OpSet && c.Op != OpDelete {
		return fmt.Errorf("%w: unknown command op %d", apperr.ErrInvalidPath, c.Op)
	}
	if c.Op == OpSet {
		if err := value.ValidateIntLimits(c.Value); err != nil {
			return err
		}
	}
	return nil
}
