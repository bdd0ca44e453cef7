package datastructure

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadTurnGraph(t *testing.T) {
	tg := buildTurnGraph(t, triangleSegments())
	filename := filepath.Join(t.TempDir(), "igo.graph")

	require.NoError(t, tg.WriteTurnGraph(filename))
	got, err := ReadTurnGraph(filename)
	require.NoError(t, err)

	require.Equal(t, tg.NumberOfNodes(), got.NumberOfNodes())
	require.Equal(t, tg.NumberOfEdges(), got.NumberOfEdges())
	for u := Index(0); u < Index(tg.NumberOfNodes()); u++ {
		assert.Equal(t, tg.GetNode(u), got.GetNode(u))
		assert.Equal(t, tg.GetOutDegree(u), got.GetOutDegree(u))
		assert.Equal(t, tg.GetNodeCoordinate(u), got.GetNodeCoordinate(u))
	}
	for e := Index(0); e < Index(tg.NumberOfEdges()); e++ {
		assert.Equal(t, *tg.GetEdge(e), *got.GetEdge(e))
	}
	for s := Index(0); s < Index(tg.GetNetwork().NumberOfSegments()); s++ {
		assert.Equal(t, *tg.GetNetwork().GetSegment(s), *got.GetNetwork().GetSegment(s))
	}
}

func TestReadTurnGraphRejectsGarbage(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "garbage.graph")
	require.NoError(t, os.WriteFile(filename, []byte("not a snapshot"), 0o644))

	_, err := ReadTurnGraph(filename)
	assert.Error(t, err)
}

func TestWriteReadHighwayPaths(t *testing.T) {
	hp := HighwayPaths{
		7:  {0, 1, 2},
		3:  {2, 0},
		12: {},
	}
	filename := filepath.Join(t.TempDir(), "highway_paths.txt")

	require.NoError(t, hp.WriteHighwayPaths(filename))
	got, err := ReadHighwayPaths(filename)
	require.NoError(t, err)

	assert.Equal(t, []int64{3, 7, 12}, got.WayIDs())
	assert.Equal(t, []Index{0, 1, 2}, got[7])
	assert.Equal(t, []Index{2, 0}, got[3])
	assert.Empty(t, got[12])
}

func TestWriteHighwayPathsReplacesFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "highway_paths.txt")
	require.NoError(t, HighwayPaths{1: {0, 1}}.WriteHighwayPaths(filename))
	require.NoError(t, HighwayPaths{2: {1, 2}}.WriteHighwayPaths(filename))

	got, err := ReadHighwayPaths(filename)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, got.WayIDs())

	_, err = os.Stat(filename + ".tmp")
	assert.True(t, os.IsNotExist(err))

	err = HighwayPaths{3: {0}}.WriteHighwayPaths(filepath.Join(t.TempDir(), "missing", "paths.txt"))
	assert.Error(t, err)
}

func TestWriteFileAtomicKeepsOldFileOnFailure(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "highway_paths.txt")
	require.NoError(t, HighwayPaths{1: {0, 1}}.WriteHighwayPaths(filename))

	failed := errors.New("disk full")
	err := writeFileAtomic(filename, func(w io.Writer) error {
		w.Write([]byte("partial"))
		return failed
	})
	assert.True(t, errors.Is(err, failed))

	got, err := ReadHighwayPaths(filename)
	require.NoError(t, err)
	assert.Equal(t, []Index{0, 1}, got[1])

	_, err = os.Stat(filename + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
