package path

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsukiyo-oss/journaldoc/internal/domain/apperr"
)

func TestParse_Empty(t *testing.T) {
	d, err := Parse("")
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestParse_SingleKey(t *testing.T) {
	d, err := Parse("foo")
	require.NoError(t, err)
	require.Len(t, d, 1)
	assert.Equal(t, MapKey, d[0].Kind)
	assert.Equal(t, "foo", d[0].Key)
}

func TestParse_NestedKeys(t *testing.T) {
	d, err := Parse("foo.bar.baz")
	require.NoError(t, err)
	require.Len(t, d, 3)
	for i, key := range []string{"foo", "bar", "baz"} {
		assert.Equal(t, MapKey, d[i].Kind)
		assert.Equal(t, key, d[i].Key)
	}
}

func TestParse_ListIndex(t *testing.T) {
	d, err := Parse("items.3")
	require.NoError(t, err)
	require.Len(t, d, 2)
	assert.Equal(t, MapKey, d[0].Kind)
	assert.Equal(t, ListIndex, d[1].Kind)
	assert.Equal(t, 3, d[1].Index)
}

func TestParse_ListLastIndex(t *testing.T) {
	d, err := Parse("items.-1")
	require.NoError(t, err)
	require.Len(t, d, 2)
	assert.Equal(t, ListLastIndex, d[1].Kind)
}

func TestParse_NegativeIndexOtherThanMinusOneIsInvalid(t *testing.T) {
	_, err := Parse("items.-2")
	assert.ErrorIs(t, err, apperr.ErrInvalidPath)
}

func TestParse_TrailingDotIsListInsert(t *testing.T) {
	d, err := Parse("items.")
	require.NoError(t, err)
	require.Len(t, d, 2)
	assert.Equal(t, MapKey, d[0].Kind)
	assert.Equal(t, ListInsert, d[1].Kind)
}

func TestParse_TrailingPlusOnMapKeyIsAdd(t *testing.T) {
	d, err := Parse("counters.hits+")
	require.NoError(t, err)
	require.Len(t, d, 2)
	assert.Equal(t, MapKeyAdd, d[1].Kind)
	assert.Equal(t, "hits", d[1].Key)
}

func TestParse_TrailingPlusOnListIndexIsAdd(t *testing.T) {
	d, err := Parse("items.2+")
	require.NoError(t, err)
	require.Len(t, d, 2)
	assert.Equal(t, ListIndexAdd, d[1].Kind)
	assert.Equal(t, 2, d[1].Index)
}

func TestParse_TrailingPlusOnLastIndexIsAdd(t *testing.T) {
	d, err := Parse("items.-1+")
	require.NoError(t, err)
	require.Len(t, d, 2)
	assert.Equal(t, ListLastIndexAdd, d[1].Kind)
}

func TestParse_EscapedDotIsLiteral(t *testing.T) {
	d, err := Parse(`a\.b.c`)
	require.NoError(t, err)
	require.Len(t, d, 2)
	assert.Equal(t, "a.b", d[0].Key)
	assert.Equal(t, "c", d[1].Key)
}

func TestParse_EscapedTrailingDotIsNotInsert(t *testing.T) {
	d, err := Parse(`a\.`)
	require.NoError(t, err)
	require.Len(t, d, 1)
	assert.Equal(t, MapKey, d[0].Kind)
	assert.Equal(t, "a.", d[0].Key)
}

func TestParse_EscapedBackslashIsLiteral(t *testing.T) {
	d, err := Parse(`a\\b`)
	require.NoError(t, err)
	require.Len(t, d, 1)
	assert.Equal(t, `a\b`, d[0].Key)
}

func TestParse_NumericKeyParsesAsListIndex(t *testing.T) {
	d, err := Parse("5")
	require.NoError(t, err)
	require.Len(t, d, 1)
	assert.Equal(t, ListIndex, d[0].Kind)
	assert.Equal(t, 5, d[0].Index)
}

func TestParse_EmptyComponentIsInvalid(t *testing.T) {
	_, err := Parse("foo..bar")
	assert.True(t, errors.Is(err, apperr.ErrInvalidPath))
}

func TestParse_BareTrailingOperatorIsInvalid(t *testing.T) {
	_, err := Parse(".")
	assert.ErrorIs(t, err, apperr.ErrInvalidPath)

	_, err = Parse("+")
	assert.ErrorIs(t, err, apperr.ErrInvalidPath)
}

func TestParse_DanglingBackslashIsInvalid(t *testing.T) {
	_, err := Parse(`foo\`)
	assert.ErrorIs(t, err, apperr.ErrInvalidPath)
}

func TestParse_PlusOnListInsertPositionIsInvalid(t *testing.T) {
	// "a..+": second component is empty (list-insert marker would need
	// to be the trailing operator, not a body component), so this must
	// fail as an empty component rather than silently succeeding.
	_, err := Parse("a..+")
	assert.ErrorIs(t, err, apperr.ErrInvalidPath)
}
