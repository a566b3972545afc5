package entry

// CentralDirRecord is the in-memory representation of one central-directory
// entry, carrying everything the finalizer needs to serialize the 46-byte
// fixed record plus name/extra/comment.
type CentralDirRecord struct {
	VersionMadeBy     uint16
	VersionNeeded     uint16
	GPFlag            uint16
	Method            uint16
	ModTime           uint16
	ModDate           uint16
	CRC32             uint32
	CompressedSize    uint32
	UncompressedSize  uint32
	DiskNumberStart   uint16
	InternalAttrs     uint16
	ExternalAttrs     uint32
	LocalHeaderOffset uint32
	Name              string
}

// Size reports the serialized size of this record (fixed header + name,
// extra and comment are always empty in this implementation).
func (r *CentralDirRecord) Size() int64 {
	return 46 + int64(len(r.Name))
}
