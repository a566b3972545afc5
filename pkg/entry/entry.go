// Package entry implements the per-entry pipeline: building the local file
// header, streaming the body through CRC32 and compression, writing the
// data descriptor, and producing the central-directory record that the
// finalizer will later serialize.
package entry

import (
	"io"
	"time"

	"github.com/archivekit/splitzip/pkg/codec"
	"github.com/archivekit/splitzip/pkg/consts"
	zerrors "github.com/archivekit/splitzip/pkg/errors"
	"github.com/archivekit/splitzip/pkg/logging"
	"github.com/archivekit/splitzip/pkg/source"
	"github.com/archivekit/splitzip/pkg/volume"
)

// unix "creator" version-made-by high byte, matching the convention used by
// Info-ZIP compatible tools (3 == Unix).
const creatorUnix = 3

// chunkSize is the suggested read buffer for streaming entry bodies, kept
// small enough to bound memory for very large inputs.
const chunkSize = 64 * 1024

// ProgressFunc is invoked during body streaming. total is -1 when unknown.
type ProgressFunc func(arcname string, bytesDone int64, total int64)

// Params collects the already-resolved inputs for adding one entry. The
// caller (the archive writer) is responsible for sanitizing the arcname and
// resolving compression defaults before calling Add.
type Params struct {
	Name     string // sanitized arcname
	IsDir    bool
	Method   codec.Method
	Level    int
	ModTime  time.Time
	UnixPerm uint32 // e.g. 0644 for files, 0755 for directories
	Body     source.Source
	Progress ProgressFunc
	Logger   *logging.Logger
}

// Add streams one entry through vw, returning the central-directory record
// to be queued by the caller.
func Add(vw *volume.Writer, p Params) (*CentralDirRecord, error) {
	logger := p.Logger
	if logger == nil {
		logger = logging.DefaultLogger()
	}

	method := p.Method
	level := p.Level
	if p.IsDir {
		method = codec.Stored
	}

	versionNeeded := uint16(consts.VersionNeededStored)
	if method == codec.Deflated {
		versionNeeded = uint16(consts.VersionNeededDeflated)
	}

	modDate, modTime := toMSDOSTime(p.ModTime)

	header := buildLocalHeader(p.Name, uint16(method), versionNeeded, modDate, modTime)
	disk, offset, err := vw.ReserveForAtomic(int64(len(header)))
	if err != nil {
		return nil, err
	}
	if offset > int64(consts.MaxUint32) {
		return nil, zerrors.New(zerrors.KindOverflow, "local header offset exceeds ZIP32 32-bit limit")
	}
	if err := vw.WriteAtomic(header); err != nil {
		return nil, err
	}

	logger.Debug("wrote local header", "name", p.Name, "disk", disk, "offset", offset)

	var crc uint32
	var compSize, uncSize uint64

	if !p.IsDir && p.Body != nil {
		coder, err := codec.New(method, level)
		if err != nil {
			return nil, err
		}

		total, knownTotal := p.Body.Size()
		if !knownTotal {
			total = -1
		}

		buf := make([]byte, chunkSize)
		for {
			n, rerr := p.Body.Read(buf)
			if n > 0 {
				chunk, cerr := coder.Update(buf[:n])
				if cerr != nil {
					return nil, cerr
				}
				if err := vw.WriteSplittable(chunk); err != nil {
					return nil, err
				}
				if coder.UncompressedSize() > uint64(consts.MaxUint32) {
					return nil, zerrors.New(zerrors.KindOverflow, "entry uncompressed size reached the ZIP32 4 GiB limit: "+p.Name)
				}
				if coder.CompressedSize() > uint64(consts.MaxUint32) {
					return nil, zerrors.New(zerrors.KindOverflow, "entry compressed size reached the ZIP32 4 GiB limit: "+p.Name)
				}
				if p.Progress != nil {
					p.Progress(p.Name, int64(coder.UncompressedSize()), total)
				}
			}
			if rerr == io.EOF {
				break
			}
			if rerr != nil {
				return nil, zerrors.Wrap(zerrors.KindVolume, "failed reading entry body: "+p.Name, rerr)
			}
		}

		tail, ferr := coder.Finish()
		if ferr != nil {
			return nil, ferr
		}
		if len(tail) > 0 {
			if err := vw.WriteSplittable(tail); err != nil {
				return nil, err
			}
		}

		crc = coder.CRC32()
		compSize = coder.CompressedSize()
		uncSize = coder.UncompressedSize()
	}

	descriptor := buildDataDescriptor(crc, uint32(compSize), uint32(uncSize))
	if err := vw.WriteAtomic(descriptor); err != nil {
		return nil, err
	}

	record := &CentralDirRecord{
		VersionMadeBy:     (creatorUnix << 8) | versionNeeded,
		VersionNeeded:     versionNeeded,
		GPFlag:            consts.GPBitDataDescriptor,
		Method:            uint16(method),
		ModTime:           modTime,
		ModDate:           modDate,
		CRC32:             crc,
		CompressedSize:    uint32(compSize),
		UncompressedSize:  uint32(uncSize),
		DiskNumberStart:   uint16(disk),
		ExternalAttrs:     externalAttrs(p.IsDir, p.UnixPerm),
		LocalHeaderOffset: uint32(offset),
		Name:              p.Name,
	}

	logger.Info("wrote entry", "name", p.Name, "method", method, "uncompressedSize", uncSize, "compressedSize", compSize)
	return record, nil
}
