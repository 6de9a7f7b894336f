package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const singleLevelCatalog = `
cubes:
  - name: Sales
    dimensions:
      - name: Geography
        hierarchies:
          - name: Standard
            levels: [Region]
            members:
              - name: EMEA
`

func TestWatchReloadsOnWrite(t *testing.T) {
	src, err := os.ReadFile(filepath.Join("testdata", "geography.yaml"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, src, 0o644))

	fc, err := LoadFile(testLogger, path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, Watch(ctx, testLogger, fc, 20*time.Millisecond))

	require.NoError(t, os.WriteFile(path, []byte(singleLevelCatalog), 0o644))

	assert.Eventually(t, func() bool {
		levels, err := fc.Levels(context.Background(), geography)
		return err == nil && len(levels) == 1 && levels[0].Name == "Region"
	}, 5*time.Second, 20*time.Millisecond)
}
