// Package arcname normalizes and validates ZIP archive member names,
// defending against zip-slip (path traversal) and ZIP32 name-length
// overflow.
package arcname

import (
	"strings"
	"unicode/utf8"

	"github.com/archivekit/splitzip/pkg/consts"
	zerrors "github.com/archivekit/splitzip/pkg/errors"
)

// Sanitize normalizes a raw member name into a canonical, forward-slash,
// non-traversing arcname. Trailing slashes (directory markers) are
// preserved.
func Sanitize(raw string) (string, error) {
	name := strings.ReplaceAll(raw, "\\", "/")

	// Strip a drive-letter prefix ("C:/...") if present.
	if len(name) >= 2 && name[1] == ':' {
		name = name[2:]
	}
	trailingSlash := strings.HasSuffix(name, "/")
	name = strings.TrimPrefix(name, "/")

	segments := strings.Split(name, "/")
	clean := make([]string, 0, len(segments))
	for _, seg := range segments {
		switch seg {
		case "", ".":
			continue
		case "..":
			return "", zerrors.New(zerrors.KindUnsafePath, "arcname contains a \"..\" segment: "+raw)
		default:
			clean = append(clean, seg)
		}
	}

	result := strings.Join(clean, "/")
	if trailingSlash && result != "" {
		result += "/"
	}

	if result == "" {
		return "", zerrors.New(zerrors.KindUnsafePath, "arcname is empty after normalization: "+raw)
	}
	if utf8.RuneCountInString(result) == 0 || len([]byte(result)) > consts.MaxNameBytes {
		return "", zerrors.New(zerrors.KindUnsafePath, "arcname exceeds 65535 UTF-8 bytes: "+raw)
	}

	return result, nil
}

// IsDirectory reports whether a sanitized arcname denotes a directory entry.
func IsDirectory(name string) bool {
	return strings.HasSuffix(name, "/")
}
