package path

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsukiyo-oss/journaldoc/internal/domain/apperr"
	"github.com/tsukiyo-oss/journaldoc/internal/domain/model/value"
)

func modify(t *testing.T, root value.V, path string, val value.V) value.V {
	t.Helper()
	d, err := Parse(path)
	require.NoError(t, err)
	out, err := Modify(root, d, val)
	require.NoError(t, err)
	return out
}

func TestModify_SetTopLevelKey(t *testing.T) {
	root := value.EmptyMap()
	root = modify(t, root, "name", value.String("alice"))
	assert.True(t, value.Equal(value.String("alice"), root.M["name"]))
}

func TestModify_CreatesMissingParents(t *testing.T) {
	root := value.EmptyMap()
	root = modify(t, root, "a.b.c", value.Int(7))
	assert.True(t, value.Equal(value.Int(7), root.M["a"].M["b"].M["c"]))
}

func TestModify_OverwritesExistingScalar(t *testing.T) {
	root := value.EmptyMap()
	root = modify(t, root, "x", value.Int(1))
	root = modify(t, root, "x", value.Int(2))
	assert.True(t, value.Equal(value.Int(2), root.M["x"]))
}

func TestModify_ListAppendOnFreshList(t *testing.T) {
	root := value.EmptyMap()
	root = modify(t, root, "items.", value.Int(1))
	root = modify(t, root, "items.", value.Int(2))
	require.Len(t, root.M["items"].L, 2)
	assert.True(t, value.Equal(value.Int(1), root.M["items"].L[0]))
	assert.True(t, value.Equal(value.Int(2), root.M["items"].L[1]))
}

func TestModify_ListIndexAppendAtLength(t *testing.T) {
	root := value.EmptyMap()
	root = modify(t, root, "items.0", value.Int(10))
	root = modify(t, root, "items.1", value.Int(20))
	require.Len(t, root.M["items"].L, 2)
	assert.True(t, value.Equal(value.Int(20), root.M["items"].L[1]))
}

func TestModify_ListIndexBeyondLengthErrors(t *testing.T) {
	root := value.EmptyMap()
	root = modify(t, root, "items.0", value.Int(10))
	d, err := Parse("items.5")
	require.NoError(t, err)
	_, err = Modify(root, d, value.Int(1))
	assert.ErrorIs(t, err, apperr.ErrInvalidPath)
}

func TestModify_ListIndexOverwrite(t *testing.T) {
	root := value.EmptyMap()
	root = modify(t, root, "items.0", value.Int(1))
	root = modify(t, root, "items.0", value.Int(99))
	assert.True(t, value.Equal(value.Int(99), root.M["items"].L[0]))
}

func TestModify_ListLastIndexOnEmptyListInsertsFirst(t *testing.T) {
	root := value.EmptyMap()
	root.M["items"] = value.EmptyList()
	root = modify(t, root, "items.-1", value.Int(42))
	require.Len(t, root.M["items"].L, 1)
	assert.True(t, value.Equal(value.Int(42), root.M["items"].L[0]))
}

func TestModify_ListLastIndexOverwritesLastElement(t *testing.T) {
	root := value.EmptyMap()
	root = modify(t, root, "items.", value.Int(1))
	root = modify(t, root, "items.", value.Int(2))
	root = modify(t, root, "items.-1", value.Int(99))
	require.Len(t, root.M["items"].L, 2)
	assert.True(t, value.Equal(value.Int(99), root.M["items"].L[1]))
}

func TestModify_MapKeyAddSumsExisting(t *testing.T) {
	root := value.EmptyMap()
	root = modify(t, root, "hits", value.Int(3))
	root = modify(t, root, "hits+", value.Int(4))
	assert.True(t, value.Equal(value.Int(7), root.M["hits"]))
}

func TestModify_MapKeyAddInsertsWhenMissing(t *testing.T) {
	root := value.EmptyMap()
	root = modify(t, root, "hits+", value.Int(4))
	assert.True(t, value.Equal(value.Int(4), root.M["hits"]))
}

func TestModify_MapKeyAddPromotesToFloat(t *testing.T) {
	root := value.EmptyMap()
	root = modify(t, root, "total", value.Int(1))
	root = modify(t, root, "total+", value.Float(0.5))
	assert.True(t, value.Equal(value.Float(1.5), root.M["total"]))
}

func TestModify_ListIndexAddSumsExisting(t *testing.T) {
	root := value.EmptyMap()
	root = modify(t, root, "items.0", value.Int(10))
	root = modify(t, root, "items.0+", value.Int(5))
	assert.True(t, value.Equal(value.Int(15), root.M["items"].L[0]))
}

func TestModify_DeleteMapKey(t *testing.T) {
	root := value.EmptyMap()
	root = modify(t, root, "x", value.Int(1))
	root = modify(t, root, "x", Delete)
	_, ok := root.M["x"]
	assert.False(t, ok)
}

func TestModify_DeleteListElement(t *testing.T) {
	root := value.EmptyMap()
	root = modify(t, root, "items.", value.Int(1))
	root = modify(t, root, "items.", value.Int(2))
	root = modify(t, root, "items.", value.Int(3))
	root = modify(t, root, "items.1", Delete)
	require.Len(t, root.M["items"].L, 2)
	assert.True(t, value.Equal(value.Int(1), root.M["items"].L[0]))
	assert.True(t, value.Equal(value.Int(3), root.M["items"].L[1]))
}

func TestModify_NavigatingMapDirectiveIntoListErrors(t *testing.T) {
	root := value.EmptyMap()
	root = modify(t, root, "items.", value.Int(1))
	d, err := Parse("items.key")
	require.NoError(t, err)
	_, err = Modify(root, d, value.Int(1))
	assert.ErrorIs(t, err, apperr.ErrInvalidPath)
}

func TestModify_NavigatingIntoScalarErrors(t *testing.T) {
	root := value.EmptyMap()
	root = modify(t, root, "x", value.Int(1))
	d, err := Parse("x.y")
	require.NoError(t, err)
	_, err = Modify(root, d, value.Int(1))
	assert.ErrorIs(t, err, apperr.ErrInvalidPath)
}

func TestModify_ReplaceWholeDocumentRequiresMap(t *testing.T) {
	root := value.EmptyMap()
	_, err := Modify(root, nil, value.Int(1))
	assert.ErrorIs(t, err, apperr.ErrInvalidPath)

	out, err := Modify(root, nil, value.Map(map[string]value.V{"a": value.Int(1)}))
	require.NoError(t, err)
	assert.True(t, value.Equal(value.Int(1), out.M["a"]))
}

func TestModify_ReplaceWholeDocumentDeleteResetsToEmptyMap(t *testing.T) {
	root := value.EmptyMap()
	root = modify(t, root, "x", value.Int(1))
	out, err := Modify(root, nil, Delete)
	require.NoError(t, err)
	assert.Len(t, out.M, 0)
}

func TestModify_DoesNotMutateExistingNestedMap(t *testing.T) {
	root := value.EmptyMap()
	root = modify(t, root, "a.b", value.Int(1))

	before := value.Clone(root)
	_, err := Modify(root, mustParse(t, "a.b"), value.Int(2))
	require.NoError(t, err)

	assert.True(t, value.Equal(before, root), "Modify must not mutate the map it was called with")
	assert.True(t, value.Equal(value.Int(1), root.M["a"].M["b"]), "original nested value must be untouched")
}

func TestModify_DoesNotMutateExistingList(t *testing.T) {
	root := value.EmptyMap()
	root = modify(t, root, "items.", value.Int(1))
	root = modify(t, root, "items.", value.Int(2))

	before := value.Clone(root)
	_, err := Modify(root, mustParse(t, "items.0"), value.Int(99))
	require.NoError(t, err)

	assert.True(t, value.Equal(before, root), "Modify must not mutate the list it was called with")
	assert.True(t, value.Equal(value.Int(1), root.M["items"].L[0]), "original list element must be untouched")
}

func TestModify_FailedApplyLeavesDocumentUnchanged(t *testing.T) {
	root := value.EmptyMap()
	root = modify(t, root, "a.b", value.Int(1))
	before := value.Clone(root)

	_, err := Modify(root, mustParse(t, "a.b.c"), value.Int(2))
	assert.ErrorIs(t, err, apperr.ErrInvalidPath)
	assert.True(t, value.Equal(before, root), "a rejected modification must leave root untouched")
}

func mustParse(t *testing.T, s string) []Directive {
	t.Helper()
	d, err := Parse(s)
	require.NoError(t, err)
	return d
}
