package archive

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	zerrors "github.com/archivekit/splitzip/pkg/errors"
)

func TestCreateRejectsSplitSizeBelowFloor(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.zip")
	_, err := Create(out, WithSplitSize(1024))
	assert.Error(t, err)
}

func TestCreateRejectsBadLevelWhenNotStoring(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.zip")
	_, err := Create(out, WithSplitSize(65536), WithLevel(99))
	assert.Error(t, err)
}

func TestSingleVolumeArchiveOpensWithStdlibZip(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.zip")
	w, err := Create(out, WithSplitSize(65536), WithStore(true))
	require.NoError(t, err)

	require.NoError(t, w.AddBytes("hello.txt", []byte("helloworld")))
	require.NoError(t, w.AddDir("empty/"))

	volumes, err := w.Close()
	require.NoError(t, err)
	require.Len(t, volumes, 1)
	assert.Equal(t, out, volumes[0])

	zr, err := zip.OpenReader(out)
	require.NoError(t, err)
	defer zr.Close()

	require.Len(t, zr.File, 2)

	byName := map[string]*zip.File{}
	for _, f := range zr.File {
		byName[f.Name] = f
	}

	helloEntry, ok := byName["hello.txt"]
	require.True(t, ok)
	rc, err := helloEntry.Open()
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	rc.Close()
	assert.Equal(t, "helloworld", string(data))

	_, ok = byName["empty/"]
	assert.True(t, ok)
}

func TestDeflatedEntryDecompressesWithStdlibZip(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.zip")
	w, err := Create(out, WithSplitSize(1<<20), WithLevel(9))
	require.NoError(t, err)

	payload := make([]byte, 50000)
	for i := range payload {
		payload[i] = byte(i % 13)
	}
	require.NoError(t, w.AddBytes("data.bin", payload))
	_, err = w.Close()
	require.NoError(t, err)

	zr, err := zip.OpenReader(out)
	require.NoError(t, err)
	defer zr.Close()
	require.Len(t, zr.File, 1)

	rc, err := zr.File[0].Open()
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestMultiVolumeArchiveProducesExpectedVolumeCount(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.zip")
	w, err := Create(out, WithSplitSize(65536), WithStore(true))
	require.NoError(t, err)

	payload := make([]byte, 100000)
	require.NoError(t, w.AddBytes("big.bin", payload))

	volumes, err := w.Close()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(volumes), 2)

	for _, v := range volumes {
		_, err := os.Stat(v)
		assert.NoError(t, err)
	}
	assert.Equal(t, out, volumes[len(volumes)-1])
}

func TestAddRejectsPathTraversal(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.zip")
	w, err := Create(out, WithSplitSize(65536))
	require.NoError(t, err)

	err = w.AddBytes("../etc/passwd", []byte("x"))
	assert.ErrorIs(t, err, zerrors.ErrUnsafePath)

	// The writer is untouched by the rejected add and can still close cleanly.
	_, err = w.Close()
	assert.NoError(t, err)
}

func TestCloseIsIdempotent(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.zip")
	w, err := Create(out, WithSplitSize(65536))
	require.NoError(t, err)
	require.NoError(t, w.AddBytes("a.txt", []byte("a")))

	first, err := w.Close()
	require.NoError(t, err)
	second, err := w.Close()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAbortLeavesNoFinalZip(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.zip")
	w, err := Create(out, WithSplitSize(65536))
	require.NoError(t, err)
	require.NoError(t, w.AddBytes("a.txt", []byte("a")))
	require.NoError(t, w.Abort())

	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestRunScopedAbortsOnCallbackError(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.zip")
	boom := zerrors.New(zerrors.KindCompression, "boom")

	_, err := RunScoped(out, []Option{WithSplitSize(65536)}, func(w *Writer) error {
		require.NoError(t, w.AddBytes("a.txt", []byte("a")))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunScopedFinalizesOnSuccess(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.zip")
	volumes, err := RunScoped(out, []Option{WithSplitSize(65536)}, func(w *Writer) error {
		return w.AddBytes("a.txt", []byte("a"))
	})
	require.NoError(t, err)
	require.Len(t, volumes, 1)

	_, statErr := os.Stat(out)
	assert.NoError(t, statErr)
}
