package entry

import "github.com/archivekit/splitzip/pkg/wire"

// buildLocalHeader serializes a 30-byte-plus-name local file header with
// general-purpose bit 3 set and zeroed CRC/size fields (the data descriptor
// carries the real values).
func buildLocalHeader(name string, method uint16, versionNeeded uint16, modDate, modTime uint16) []byte {
	buf := make([]byte, 30+len(name))
	b := wire.Buf(buf)
	b.Uint32(0x04034b50)
	b.Uint16(versionNeeded)
	b.Uint16(1 << 3) // general purpose bit 3: sizes/CRC follow in data descriptor
	b.Uint16(method)
	b.Uint16(modTime)
	b.Uint16(modDate)
	b.Uint32(0) // crc32 placeholder
	b.Uint32(0) // compressed size placeholder
	b.Uint32(0) // uncompressed size placeholder
	b.Uint16(uint16(len(name)))
	b.Uint16(0) // extra length
	copy(buf[30:], name)
	return buf
}

// buildDataDescriptor serializes the 16-byte post-body record carrying the
// real CRC32 and sizes, included with its signature for tool compatibility.
func buildDataDescriptor(crc32 uint32, compressedSize, uncompressedSize uint32) []byte {
	buf := make([]byte, 16)
	b := wire.Buf(buf)
	b.Uint32(0x08074b50)
	b.Uint32(crc32)
	b.Uint32(compressedSize)
	b.Uint32(uncompressedSize)
	return buf
}

// BuildCentralDirRecord serializes the fixed 46-byte central-directory
// header plus the (always-empty) extra and comment fields, followed by the
// name. Exported so the archive package's finalizer can serialize queued
// records without reaching into entry's internals.
func BuildCentralDirRecord(r *CentralDirRecord) []byte {
	buf := make([]byte, 46+len(r.Name))
	b := wire.Buf(buf)
	b.Uint32(0x02014b50)
	b.Uint16(r.VersionMadeBy)
	b.Uint16(r.VersionNeeded)
	b.Uint16(r.GPFlag)
	b.Uint16(r.Method)
	b.Uint16(r.ModTime)
	b.Uint16(r.ModDate)
	b.Uint32(r.CRC32)
	b.Uint32(r.CompressedSize)
	b.Uint32(r.UncompressedSize)
	b.Uint16(uint16(len(r.Name)))
	b.Uint16(0) // extra length
	b.Uint16(0) // comment length
	b.Uint16(r.DiskNumberStart)
	b.Uint16(r.InternalAttrs)
	b.Uint32(r.ExternalAttrs)
	b.Uint32(r.LocalHeaderOffset)
	copy(buf[46:], r.Name)
	return buf
}
