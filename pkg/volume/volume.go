// Package volume implements the multi-file byte sink at the heart of a
// split ZIP archive: a writer that rolls over to a new numbered volume file
// once a configured soft cap is reached, while enforcing that certain
// structures (local headers, data descriptors, the EOCD record) never
// straddle a volume boundary.
package volume

import (
	"fmt"
	"os"

	"github.com/archivekit/splitzip/pkg/consts"
	zerrors "github.com/archivekit/splitzip/pkg/errors"
	"github.com/archivekit/splitzip/pkg/logging"
)

// OnVolume is invoked immediately after a new volume file is opened,
// including volume 1.
type OnVolume func(volumeNumber int, path string)

// Writer is a byte-counting, rolling multi-file sink. One archive owns
// exactly one Writer, which owns at most one open output file at a time.
type Writer struct {
	stem      string
	cap       int64
	v         int
	b         int64
	file      *os.File
	volumes   []string
	finalized bool
	onVolume  OnVolume
	logger    *logging.Logger
}

// New creates a Writer rooted at stem (an output path without extension)
// with the given split cap, and opens the first volume. cap must be at
// least consts.MinVolumeBytes.
func New(stem string, cap int64, onVolume OnVolume, logger *logging.Logger) (*Writer, error) {
	if cap < consts.MinVolumeBytes {
		return nil, zerrors.New(zerrors.KindVolumeTooSmall,
			fmt.Sprintf("split size %d is below the %d byte minimum", cap, consts.MinVolumeBytes))
	}
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	w := &Writer{stem: stem, cap: cap, onVolume: onVolume, logger: logger}
	if err := w.openVolume(1); err != nil {
		return nil, err
	}
	return w, nil
}

// volumePath returns the provisional on-disk name for volume n. Every
// volume, including the first, is opened under its zNN name; only the
// volume that turns out to be final is renamed to .zip at close. This
// sidesteps having to detect-and-rename volume 1 after the fact if a
// rollover happens mid-stream (see DESIGN.md).
func (w *Writer) volumePath(n int) string {
	width := 2
	if n > consts.MaxVolumeSuffix {
		width = 3
	}
	return fmt.Sprintf("%s.z%0*d", w.stem, width, n)
}

func (w *Writer) openVolume(n int) error {
	path := w.volumePath(n)
	f, err := os.Create(path)
	if err != nil {
		return zerrors.Wrap(zerrors.KindVolume, "failed to open volume "+path, err)
	}
	w.file = f
	w.v = n
	w.b = 0
	w.volumes = append(w.volumes, path)

	if n > consts.MaxVolumeSuffix {
		w.logger.Info("volume count exceeds 99, suffix widened to 3 digits", "volume", n, "path", path)
	}
	w.logger.Debug("opened volume", "volume", n, "path", path)

	if w.onVolume != nil {
		w.onVolume(n, path)
	}
	return nil
}

func (w *Writer) rollover() error {
	if err := w.file.Close(); err != nil {
		return zerrors.Wrap(zerrors.KindVolume, "failed to close volume "+w.volumes[len(w.volumes)-1], err)
	}
	return w.openVolume(w.v + 1)
}

// WriteSplittable writes bytes that may cross a volume boundary, rolling
// over as many times as necessary.
func (w *Writer) WriteSplittable(p []byte) error {
	for len(p) > 0 {
		remaining := w.cap - w.b
		if int64(len(p)) <= remaining {
			if _, err := w.file.Write(p); err != nil {
				return zerrors.Wrap(zerrors.KindVolume, "write failed", err)
			}
			w.b += int64(len(p))
			return nil
		}
		if remaining > 0 {
			if _, err := w.file.Write(p[:remaining]); err != nil {
				return zerrors.Wrap(zerrors.KindVolume, "write failed", err)
			}
			w.b += remaining
			p = p[remaining:]
		}
		if err := w.rollover(); err != nil {
			return err
		}
	}
	return nil
}

// WriteAtomic writes bytes that must not cross a volume boundary, rolling
// over first if they would not fit in the remaining space. Fails if the
// chunk is larger than the split cap itself.
func (w *Writer) WriteAtomic(p []byte) error {
	n := int64(len(p))
	if n > w.cap {
		return zerrors.New(zerrors.KindVolumeTooSmall,
			fmt.Sprintf("atomic write of %d bytes exceeds split size %d", n, w.cap))
	}
	if n > w.cap-w.b {
		if err := w.rollover(); err != nil {
			return err
		}
	}
	if _, err := w.file.Write(p); err != nil {
		return zerrors.Wrap(zerrors.KindVolume, "write failed", err)
	}
	w.b += n
	return nil
}

// ReserveForAtomic reports the (disk_number, offset) where a following
// WriteAtomic(n) will land, rolling over first if needed. disk_number is
// 0-based.
func (w *Writer) ReserveForAtomic(n int64) (diskNumber int, offset int64, err error) {
	if n > w.cap {
		return 0, 0, zerrors.New(zerrors.KindVolumeTooSmall,
			fmt.Sprintf("atomic reservation of %d bytes exceeds split size %d", n, w.cap))
	}
	if n > w.cap-w.b {
		if err := w.rollover(); err != nil {
			return 0, 0, err
		}
	}
	return w.v - 1, w.b, nil
}

// SpaceRemaining reports the bytes left before the current volume hits its
// cap.
func (w *Writer) SpaceRemaining() int64 {
	return w.cap - w.b
}

// CurrentVolume returns the 1-based number of the currently open volume.
func (w *Writer) CurrentVolume() int {
	return w.v
}

// Offset returns the byte offset within the current volume.
func (w *Writer) Offset() int64 {
	return w.b
}

// FinalizeLastVolume closes the current file and renames it to <stem>.zip.
// Idempotent: calling it twice returns the same volume list without further
// side effects.
func (w *Writer) FinalizeLastVolume() ([]string, error) {
	if w.finalized {
		return append([]string(nil), w.volumes...), nil
	}
	if err := w.file.Close(); err != nil {
		return nil, zerrors.Wrap(zerrors.KindVolume, "failed to close final volume", err)
	}
	w.file = nil

	finalPath := w.stem + ".zip"
	last := len(w.volumes) - 1
	if w.volumes[last] != finalPath {
		if err := os.Rename(w.volumes[last], finalPath); err != nil {
			return nil, zerrors.Wrap(zerrors.KindVolume, "failed to rename final volume", err)
		}
		w.volumes[last] = finalPath
	}
	w.finalized = true
	w.logger.Info("finalized split archive", "volumes", len(w.volumes))
	return append([]string(nil), w.volumes...), nil
}

// Abort closes the currently open file handle without finalizing. Partial
// volume files are left on disk for the caller to remove.
func (w *Writer) Abort() error {
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	if err != nil {
		return zerrors.Wrap(zerrors.KindVolume, "failed to close volume during abort", err)
	}
	return nil
}

// Volumes returns the volume paths opened so far, in order. Names for
// volumes still open or pending rename may change until FinalizeLastVolume
// is called.
func (w *Writer) Volumes() []string {
	return append([]string(nil), w.volumes...)
}
