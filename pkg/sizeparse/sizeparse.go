// Package sizeparse maps human-readable byte-count strings ("100MB",
// "700MiB") and plain integers to a byte count.
package sizeparse

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/archivekit/splitzip/pkg/consts"
	zerrors "github.com/archivekit/splitzip/pkg/errors"
)

// unit multipliers, longest suffix first so "KiB" is tried before "B".
var units = []struct {
	suffix string
	mult   float64
}{
	{"TIB", 1 << 40},
	{"GIB", 1 << 30},
	{"MIB", 1 << 20},
	{"KIB", 1 << 10},
	{"TB", 1e12},
	{"GB", 1e9},
	{"MB", 1e6},
	{"KB", 1e3},
	{"B", 1},
}

// Parse converts a size string to a byte count. Accepts a bare integer
// ("65536"), or a decimal number followed by a unit ("4.7GB", "700MiB").
// Unit matching is case-insensitive.
func Parse(s string) (int64, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, zerrors.New(zerrors.KindConfig, "empty size string")
	}

	upper := strings.ToUpper(trimmed)
	for _, u := range units {
		if strings.HasSuffix(upper, u.suffix) {
			numPart := strings.TrimSpace(trimmed[:len(trimmed)-len(u.suffix)])
			if numPart == "" {
				continue
			}
			n, err := strconv.ParseFloat(numPart, 64)
			if err != nil {
				continue
			}
			return finish(n, u.mult)
		}
	}

	// No recognized unit suffix: must be a bare integer byte count.
	n, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, zerrors.Wrap(zerrors.KindConfig, fmt.Sprintf("unrecognized size %q", s), err)
	}
	return finish(n, 1)
}

func finish(n float64, mult float64) (int64, error) {
	if math.IsNaN(n) || math.IsInf(n, 0) || n < 0 {
		return 0, zerrors.New(zerrors.KindConfig, "size must be a non-negative finite number")
	}
	return int64(n * mult), nil
}

// ParseSplitSize parses s the same way as Parse, then enforces the minimum
// split size floor used by the volume writer.
func ParseSplitSize(s string) (int64, error) {
	n, err := Parse(s)
	if err != nil {
		return 0, err
	}
	if n < consts.MinVolumeBytes {
		return 0, zerrors.New(zerrors.KindVolumeTooSmall,
			fmt.Sprintf("split size %d is below the %d byte minimum", n, consts.MinVolumeBytes))
	}
	return n, nil
}
