package entry

import "time"

// toMSDOSTime packs a time.Time into the MS-DOS date/time representation
// used by the local file header and central directory record. Resolution is
// 2 seconds. Years before 1980 are clamped to 1980; month, day and time of
// day are kept as given.
func toMSDOSTime(t time.Time) (date uint16, timeOfDay uint16) {
	year := t.Year() - 1980
	if year < 0 {
		year = 0
	}
	date = uint16(t.Day() + int(t.Month())<<5 + year<<9)
	timeOfDay = uint16(t.Second()/2 + t.Minute()<<5 + t.Hour()<<11)
	return date, timeOfDay
}

// Unix file-mode bits used to build external_attrs, matching the de-facto
// convention recognized by Info-ZIP compatible extractors: high 16 bits
// carry the unix mode, low byte carries the MS-DOS attribute byte.
const (
	unixModeDir     = 0x4000
	unixModeRegular = 0x8000
	msdosDirAttr    = 0x10
)

// externalAttrs builds the external_attrs field for a regular file or
// directory entry with the given unix permission bits (e.g. 0644, 0755).
func externalAttrs(isDir bool, perm uint32) uint32 {
	var unixMode uint32
	if isDir {
		unixMode = unixModeDir | (perm & 0777)
	} else {
		unixMode = unixModeRegular | (perm & 0777)
	}
	attrs := unixMode << 16
	if isDir {
		attrs |= msdosDirAttr
	}
	return attrs
}
