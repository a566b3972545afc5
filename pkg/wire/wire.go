// Package wire provides the little-endian byte-packing cursor shared by
// the entry and archive packages when serializing ZIP32 fixed records.
// Grounded on the writeBuf helper pattern used by martin-sucha/zipserve.
package wire

import "encoding/binary"

// Buf is a cursor over a fixed byte slice, advanced by each Uint16/Uint32 call.
type Buf []byte

func (b *Buf) Uint16(v uint16) {
	binary.LittleEndian.PutUint16((*b)[:2], v)
	*b = (*b)[2:]
}

func (b *Buf) Uint32(v uint32) {
	binary.LittleEndian.PutUint32((*b)[:4], v)
	*b = (*b)[4:]
}
