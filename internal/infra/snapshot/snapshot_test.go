package snapshot

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsukiyo-oss/journaldoc/internal/domain/apperr"
	"github.com/tsukiyo-oss/journaldoc/internal/domain/model/value"
)

func TestWriteRead_RoundTrips(t *testing.T) {
	fs := afero.NewMemMapFs()
	root := value.Map(map[string]value.V{
		"name":  value.String("alice"),
		"count": value.Int(3),
		"tags":  value.List(value.String("a"), value.String("b")),
	})
	env := Envelope{DocumentID: "doc-1", Document: root}

	require.NoError(t, Write(fs, "/data/snapshot.json", env, false))
	got, err := Read(fs, "/data/snapshot.json")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", got.DocumentID)
	assert.True(t, value.Equal(root, got.Document))
}

func TestWrite_CreatesParentDirectories(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, Write(fs, "/a/b/c/snapshot.json", Envelope{DocumentID: "d", Document: value.EmptyMap()}, false))
	exists, err := afero.Exists(fs, "/a/b/c/snapshot.json")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRead_NonObjectRootIsCorruptSnapshot(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/snapshot.json", []byte(`{"document_id":"d","document":[1,2,3]}`), 0o644))
	_, err := Read(fs, "/snapshot.json")
	assert.ErrorIs(t, err, apperr.ErrCorruptSnapshot)
}

func TestRead_InvalidJSONIsCorruptSnapshot(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/snapshot.json", []byte(`{not json`), 0o644))
	_, err := Read(fs, "/snapshot.json")
	assert.ErrorIs(t, err, apperr.ErrCorruptSnapshot)
}

func TestWrite_FsyncTrueSucceedsEvenWithoutSyncSupport(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, Write(fs, "/snapshot.json", Envelope{DocumentID: "d", Document: value.EmptyMap()}, true))
	got, err := Read(fs, "/snapshot.json")
	require.NoError(t, err)
	assert.Equal(t, "d", got.DocumentID)
}

func TestExists(t *testing.T) {
	fs := afero.NewMemMapFs()
	assert.False(t, Exists(fs, "/snapshot.json"))
	require.NoError(t, Write(fs, "/snapshot.json", Envelope{DocumentID: "d", Document: value.EmptyMap()}, false))
	assert.True(t, Exists(fs, "/snapshot.json"))
}
