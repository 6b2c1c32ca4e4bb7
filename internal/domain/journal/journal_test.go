package journal

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsukiyo-oss/journaldoc/internal/domain/apperr"
	"github.com/tsukiyo-oss/journaldoc/internal/domain/model/command"
	"github.com/tsukiyo-oss/journaldoc/internal/domain/model/value"
)

func TestSerializeDeserialize_RoundTrips(t *testing.T) {
	j := New("journaldoc", 1, "seg-1")
	j.Add(command.Command{Path: "a", Op: command.OpSet, Value: value.Int(1)})
	j.Add(command.Command{Path: "b", Op: command.OpSet, Value: value.String("hi")})

	data, err := j.Serialize()
	require.NoError(t, err)

	got, err := Deserialize(bytes.NewReader(data), "journaldoc", 1)
	require.NoError(t, err)
	require.Len(t, got.Commands, 2)
	assert.Equal(t, "a", got.Commands[0].Path)
	assert.Equal(t, "b", got.Commands[1].Path)
}

func TestDeserialize_StopsAtFillerByte(t *testing.T) {
	j := New("journaldoc", 1, "seg-1")
	j.Add(command.Command{Path: "a", Op: command.OpSet, Value: value.Int(1)})

	data, err := j.Serialize()
	require.NoError(t, err)
	data = append(data, command.Filler, command.Filler, command.Filler)

	got, err := Deserialize(bytes.NewReader(data), "journaldoc", 1)
	require.NoError(t, err)
	assert.Len(t, got.Commands, 1)
}

func TestDeserialize_SchemaMismatchOnWrongTypeTag(t *testing.T) {
	j := New("journaldoc", 1, "seg-1")
	data, err := j.Serialize()
	require.NoError(t, err)

	_, err = Deserialize(bytes.NewReader(data), "other", 1)
	assert.ErrorIs(t, err, apperr.ErrSchemaMismatch)
}

func TestDeserialize_SchemaMismatchOnWrongVersion(t *testing.T) {
	j := New("journaldoc", 1, "seg-1")
	data, err := j.Serialize()
	require.NoError(t, err)

	_, err = Deserialize(bytes.NewReader(data), "journaldoc", 2)
	assert.ErrorIs(t, err, apperr.ErrSchemaMismatch)
}

func TestDeserialize_MalformedCommandIsCorruptJournal(t *testing.T) {
	j := New("journaldoc", 1, "seg-1")
	j.Add(command.Command{Path: "a", Op: command.OpSet, Value: value.Int(1)})
	data, err := j.Serialize()
	require.NoError(t, err)

	truncated := data[:len(data)-1]
	_, err = Deserialize(bytes.NewReader(truncated), "journaldoc", 1)
	assert.ErrorIs(t, err, apperr.ErrCorruptJournal)
}

func TestApplyTo_FoldsCommandsInOrder(t *testing.T) {
	j := New("journaldoc", 1, "seg-1")
	j.Add(command.Command{Path: "counter", Op: command.OpSet, Value: value.Int(1)})
	j.Add(command.Command{Path: "counter", Op: command.OpSet, Value: value.Int(2)})
	j.Add(command.Command{Path: "counter", Op: command.OpDelete})

	out, err := j.ApplyTo(value.EmptyMap())
	require.NoError(t, err)
	_, ok := out.M["counter"]
	assert.False(t, ok)
}

func TestApplyTo_AbortsOnFailingCommand(t *testing.T) {
	j := New("journaldoc", 1, "seg-1")
	j.Add(command.Command{Path: "a", Op: command.OpSet, Value: value.Int(1)})
	j.Add(command.Command{Path: "a..b", Op: command.OpSet, Value: value.Int(2)})

	_, err := j.ApplyTo(value.EmptyMap())
	assert.Error(t, err)
}

func TestClear_DropsCommandsKeepsSchema(t *testing.T) {
	j := New("journaldoc", 1, "seg-1")
	j.Add(command.Command{Path: "a", Op: command.OpSet, Value: value.Int(1)})
	j.Clear()
	assert.Empty(t, j.Commands)
	assert.Equal(t, "journaldoc", j.TypeTag)
	assert.Equal(t, uint32(1), j.Version)
}
