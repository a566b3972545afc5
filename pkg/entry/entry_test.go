package entry

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archivekit/splitzip/pkg/codec"
	"github.com/archivekit/splitzip/pkg/source"
	"github.com/archivekit/splitzip/pkg/volume"
)

func TestToMSDOSTime(t *testing.T) {
	date, timeOfDay := toMSDOSTime(time.Date(2024, time.March, 15, 13, 45, 32, 0, time.UTC))
	assert.Equal(t, uint16(15+3<<5+(2024-1980)<<9), date)
	assert.Equal(t, uint16(32/2+45<<5+13<<11), timeOfDay)
}

func TestToMSDOSTimeClampsPre1980(t *testing.T) {
	date, _ := toMSDOSTime(time.Date(1975, time.January, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, uint16(1+1<<5), date)
}

func TestExternalAttrsRegularFile(t *testing.T) {
	attrs := externalAttrs(false, 0644)
	assert.Equal(t, uint32(unixModeRegular|0644)<<16, attrs)
}

func TestExternalAttrsDirectory(t *testing.T) {
	attrs := externalAttrs(true, 0755)
	assert.Equal(t, uint32(unixModeDir|0755)<<16|msdosDirAttr, attrs)
}

func TestAddStoredEntryProducesExpectedByteCountAndCRC(t *testing.T) {
	stem := filepath.Join(t.TempDir(), "out")
	vw, err := volume.New(stem, 65536, nil, nil)
	require.NoError(t, err)

	body := source.FromBytes([]byte("helloworld"), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	rec, err := Add(vw, Params{
		Name:     "a.txt",
		Method:   codec.Stored,
		ModTime:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		UnixPerm: 0644,
		Body:     body,
	})
	require.NoError(t, err)
	assert.Equal(t, uint32(0xb1d4025b), rec.CRC32)
	assert.Equal(t, uint32(10), rec.UncompressedSize)
	assert.Equal(t, uint32(10), rec.CompressedSize)
	assert.Equal(t, "a.txt", rec.Name)

	volumes, err := vw.FinalizeLastVolume()
	require.NoError(t, err)
	require.Len(t, volumes, 1)

	info, err := os.Stat(volumes[0])
	require.NoError(t, err)

	// This test writes only the entry bytes (LFH incl. the 5-byte name +
	// body + DD); the CD and EOCD are the archive package's responsibility,
	// so it checks only what volume.Writer actually wrote here.
	assert.Equal(t, int64(30+5+10+16), info.Size())
	assert.Equal(t, int64(51), rec.Size())
}

func TestAddDirectoryEntryForcesStoredAndZeroLength(t *testing.T) {
	stem := filepath.Join(t.TempDir(), "out")
	vw, err := volume.New(stem, 65536, nil, nil)
	require.NoError(t, err)

	rec, err := Add(vw, Params{
		Name:     "dir/",
		IsDir:    true,
		Method:   codec.Deflated,
		ModTime:  time.Now(),
		UnixPerm: 0755,
	})
	require.NoError(t, err)
	assert.Equal(t, uint16(codec.Stored), rec.Method)
	assert.Equal(t, uint32(0), rec.UncompressedSize)
	assert.Equal(t, uint32(0), rec.CRC32)
}

func TestAddDeflatedEntryTracksSizes(t *testing.T) {
	stem := filepath.Join(t.TempDir(), "out")
	vw, err := volume.New(stem, 65536, nil, nil)
	require.NoError(t, err)

	payload := make([]byte, 10000)
	for i := range payload {
		payload[i] = byte(i % 7)
	}
	rec, err := Add(vw, Params{
		Name:     "big.bin",
		Method:   codec.Deflated,
		Level:    6,
		ModTime:  time.Now(),
		UnixPerm: 0644,
		Body:     source.FromBytes(payload, time.Now()),
	})
	require.NoError(t, err)
	assert.Equal(t, uint32(len(payload)), rec.UncompressedSize)
	assert.Greater(t, rec.UncompressedSize, uint32(0))
	assert.LessOrEqual(t, rec.CompressedSize, rec.UncompressedSize)
}
