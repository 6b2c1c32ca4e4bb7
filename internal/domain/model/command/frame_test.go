package command

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsukiyo-oss/journaldoc/internal/domain/model/value"
)

func TestEncodeDecode_SetCommandRoundTrips(t *testing.T) {
	cmd := Command{Path: "a.b", Op: OpSet, Value: value.Int(42)}
	frame, err := Encode(cmd)
	require.NoError(t, err)
	require.NotEmpty(t, frame)
	assert.Equal(t, Marker, frame[0])

	got, err := Decode(bufio.NewReader(bytes.NewReader(frame)))
	require.NoError(t, err)
	assert.Equal(t, cmd.Path, got.Path)
	assert.Equal(t, cmd.Op, got.Op)
	assert.True(t, value.Equal(cmd.Value, got.Value))
}

func TestEncode_RejectsIntegerBeyondDigitLimit(t *testing.T) {
	cmd := Command{Path: "n", Op: OpSet, Value: value.Int(1000000000000000)}
	_, err := Encode(cmd)
	assert.Error(t, err)
}

func TestEncode_RejectsOversizedIntegerNestedInValue(t *testing.T) {
	cmd := Command{Path: "n", Op: OpSet, Value: value.Map(map[string]value.V{
		"x": value.Int(1000000000000000),
	})}
	_, err := Encode(cmd)
	assert.Error(t, err)
}

func TestEncodeDecode_DeleteCommandRoundTrips(t *testing.T) {
	cmd := Command{Path: "x", Op: OpDelete}
	frame, err := Encode(cmd)
	require.NoError(t, err)

	got, err := Decode(bufio.NewReader(bytes.NewReader(frame)))
	require.NoError(t, err)
	assert.Equal(t, OpDelete, got.Op)
}

func TestEncodeDecode_PreservesIntVsFloat(t *testing.T) {
	intCmd := Command{Path: "n", Op: OpSet, Value: value.Int(7)}
	floatCmd := Command{Path: "n", Op: OpSet, Value: value.Float(7.0)}

	intFrame, err := Encode(intCmd)
	require.NoError(t, err)
	floatFrame, err := Encode(floatCmd)
	require.NoError(t, err)

	gotInt, err := Decode(bufio.NewReader(bytes.NewReader(intFrame)))
	require.NoError(t, err)
	gotFloat, err := Decode(bufio.NewReader(bytes.NewReader(floatFrame)))
	require.NoError(t, err)

	assert.Equal(t, value.KindInt, gotInt.Value.Kind)
	assert.Equal(t, value.KindFloat, gotFloat.Value.Kind)
}

func TestEncode_NeverProducesUnescapedFillerAsMarker(t *testing.T) {
	cmd := Command{Path: "p", Op: OpSet, Value: value.String("anything")}
	frame, err := Encode(cmd)
	require.NoError(t, err)
	assert.NotEqual(t, Filler, frame[0])
}

func TestDecode_WrongMarkerIsCorruptJournal(t *testing.T) {
	bad := []byte{Filler, 0x00}
	_, err := Decode(bufio.NewReader(bytes.NewReader(bad)))
	assert.Error(t, err)
}

func TestDecode_TruncatedPayloadIsCorruptJournal(t *testing.T) {
	cmd := Command{Path: "a", Op: OpSet, Value: value.Int(1)}
	frame, err := Encode(cmd)
	require.NoError(t, err)

	truncated := frame[:len(frame)-1]
	_, err = Decode(bufio.NewReader(bytes.NewReader(truncated)))
	assert.Error(t, err)
}

func TestApply_SetsValueAtPath(t *testing.T) {
	root := value.EmptyMap()
	cmd := Command{Path: "a.b", Op: OpSet, Value: value.Int(5)}
	out, err := cmd.Apply(root)
	require.NoError(t, err)
	assert.True(t, value.Equal(value.Int(5), out.M["a"].M["b"]))
}

func TestApply_DeleteIgnoresValue(t *testing.T) {
	root := value.EmptyMap()
	root.M["a"] = value.Int(1)
	cmd := Command{Path: "a", Op: OpDelete, Value: value.Int(999)}
	out, err := cmd.Apply(root)
	require.NoError(t, err)
	_, ok := out.M["a"]
	assert.False(t, ok)
}

func TestApply_InvalidPathPropagatesError(t *testing.T) {
	root := value.EmptyMap()
	cmd := Command{Path: "a..b", Op: OpSet, Value: value.Int(1)}
	_, err := cmd.Apply(root)
	assert.Error(t, err)
}
