package journaldoc

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/tsukiyo-oss/journaldoc/internal/domain/model/value"
)

// TestOpenClose_DoesNotLeakGoroutines runs repeated Open/Close cycles
// under goleak, the same verification style the cli package uses.
func TestOpenClose_DoesNotLeakGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := testConfig(t, 4096, 2048)

	for i := 0; i < 5; i++ {
		doc, err := Open(afero.NewOsFs(), cfg, nil, value.V{})
		require.NoError(t, err)
		require.NoError(t, doc.AddCommand("n", value.Int(int64(i))))
		require.NoError(t, doc.Close())
	}
}
