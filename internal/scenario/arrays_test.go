package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZelongGuo/dislocation/internal/disloc"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "array.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadArray(t *testing.T) {
	path := writeFile(t, "# east north up\n1, 2, 3\n4\t5 -6e2 # trailing\n\n")
	data, err := ReadArray(path, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, -600}, data)

	_, err = ReadArray(path, 4)
	assert.ErrorIs(t, err, disloc.ErrShape)

	_, err = ReadArray(writeFile(t, "# nothing\n"), 3)
	assert.ErrorIs(t, err, disloc.ErrEmpty)

	_, err = ReadArray(writeFile(t, "1 2 x\n"), 3)
	assert.ErrorContains(t, err, "line 1")
}

func TestReadPatchesAndObservations(t *testing.T) {
	patches, err := ReadPatches(writeFile(t, "0 0 5000 10000 5000 0 90 1 0 0\n"))
	require.NoError(t, err)
	assert.Equal(t, []disloc.FaultPatch{{Depth: 5000, Length: 10000, Width: 5000, Dip: 90, StrikeSlip: 1}}, patches)

	obs, err := ReadObservations(writeFile(t, "1 2 3\n"))
	require.NoError(t, err)
	assert.Equal(t, []disloc.ObservationPoint{{East: 1, North: 2, Up: 3}}, obs)
}
