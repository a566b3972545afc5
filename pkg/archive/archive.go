// Package archive assembles the split ZIP archive writer: it owns the
// volume writer and drives the entry pipeline, then emits the central
// directory and EOCD record on close.
package archive

import (
	"io"
	"strings"

	"github.com/archivekit/splitzip/pkg/arcname"
	"github.com/archivekit/splitzip/pkg/consts"
	"github.com/archivekit/splitzip/pkg/entry"
	zerrors "github.com/archivekit/splitzip/pkg/errors"
	"github.com/archivekit/splitzip/pkg/logging"
	"github.com/archivekit/splitzip/pkg/source"
	"github.com/archivekit/splitzip/pkg/volume"
)

// Writer builds a split ZIP archive at a stem path. Create one with Create,
// add members with Add/AddFile/AddBytes/AddReader/AddDir, then call Close to
// finalize (or Abort to discard on error).
type Writer struct {
	opts    Options
	logger  *logging.Logger
	vw      *volume.Writer
	records []*entry.CentralDirRecord
	closed  bool
	aborted bool
}

// Create opens outputPath (a ".zip" path or a bare stem) for writing and
// opens its first volume. The returned Writer must eventually be closed with
// Close (success) or Abort (failure) — see RunScoped for a helper that
// guarantees this.
func Create(outputPath string, opts ...Option) (*Writer, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	if err := options.validate(); err != nil {
		return nil, err
	}

	logger := logging.NewLogger(options.Logger)
	stem := strings.TrimSuffix(outputPath, ".zip")

	vw, err := volume.New(stem, options.SplitSize, volume.OnVolume(options.OnVolume), logger)
	if err != nil {
		return nil, err
	}

	return &Writer{opts: options, logger: logger, vw: vw}, nil
}

func (w *Writer) guardEntryCount() error {
	if len(w.records) >= consts.MaxEntryCount-1 {
		return zerrors.New(zerrors.KindOverflow, "archive would exceed 65535 entries")
	}
	return nil
}

func (w *Writer) progress() entry.ProgressFunc {
	if w.opts.OnProgress == nil {
		return nil
	}
	return entry.ProgressFunc(w.opts.OnProgress)
}

// Add streams src into the archive under arcname, which is sanitized
// against traversal and length limits before use.
func (w *Writer) Add(rawName string, src source.Source, perm uint32) error {
	if w.closed || w.aborted {
		return zerrors.New(zerrors.KindVolume, "archive is already closed")
	}
	if err := w.guardEntryCount(); err != nil {
		return err
	}

	name, err := arcname.Sanitize(rawName)
	if err != nil {
		return err
	}
	if arcname.IsDirectory(name) {
		return w.addDirectory(name)
	}

	rec, err := entry.Add(w.vw, entry.Params{
		Name:     name,
		Method:   w.opts.method(),
		Level:    w.opts.Level,
		ModTime:  src.ModTime(),
		UnixPerm: perm,
		Body:     src,
		Progress: w.progress(),
		Logger:   w.logger,
	})
	if err != nil {
		w.aborted = true
		return err
	}
	w.records = append(w.records, rec)
	return nil
}

// AddFile opens path on disk and adds it under arcname.
func (w *Writer) AddFile(path, arcname string) error {
	if w.closed || w.aborted {
		return zerrors.New(zerrors.KindVolume, "archive is already closed")
	}
	src, closeFn, err := source.FromFile(path)
	if err != nil {
		w.aborted = true
		return zerrors.Wrap(zerrors.KindVolume, "failed to open "+path, err)
	}
	defer closeFn()
	return w.Add(arcname, src, 0644)
}

// AddBytes adds an in-memory buffer (writestr-style), stamped with the
// archive's configured clock.
func (w *Writer) AddBytes(arcname string, data []byte) error {
	if w.closed || w.aborted {
		return zerrors.New(zerrors.KindVolume, "archive is already closed")
	}
	src := source.FromBytes(data, w.opts.Clock.Now())
	return w.Add(arcname, src, 0644)
}

// AddReader adds an arbitrary stream of unknown length.
func (w *Writer) AddReader(arcname string, r io.Reader) error {
	if w.closed || w.aborted {
		return zerrors.New(zerrors.KindVolume, "archive is already closed")
	}
	src := source.FromReader(r, w.opts.Clock.Now())
	return w.Add(arcname, src, 0644)
}

// AddDir adds a zero-length directory entry. A trailing slash is appended
// if the caller didn't include one.
func (w *Writer) AddDir(rawName string) error {
	if w.closed || w.aborted {
		return zerrors.New(zerrors.KindVolume, "archive is already closed")
	}
	if !strings.HasSuffix(rawName, "/") {
		rawName += "/"
	}
	name, err := arcname.Sanitize(rawName)
	if err != nil {
		return err
	}
	return w.addDirectory(name)
}

func (w *Writer) addDirectory(name string) error {
	if err := w.guardEntryCount(); err != nil {
		return err
	}
	rec, err := entry.Add(w.vw, entry.Params{
		Name:     name,
		IsDir:    true,
		ModTime:  w.opts.Clock.Now(),
		UnixPerm: 0755,
		Logger:   w.logger,
	})
	if err != nil {
		w.aborted = true
		return err
	}
	w.records = append(w.records, rec)
	return nil
}

// Close finalizes the archive: flushes the central directory and EOCD
// record, then renames the final volume to its .zip name. Idempotent.
func (w *Writer) Close() ([]string, error) {
	if w.aborted {
		return nil, zerrors.New(zerrors.KindVolume, "cannot close an aborted archive")
	}
	if w.closed {
		return w.vw.Volumes(), nil
	}

	if err := w.writeCentralDirectoryAndEOCD(); err != nil {
		return nil, err
	}

	volumes, err := w.vw.FinalizeLastVolume()
	if err != nil {
		return nil, err
	}
	w.closed = true
	return volumes, nil
}

// Abort discards the archive: the open volume file handle is closed without
// writing the central directory or EOCD, and partial .zNN files are left on
// disk for the caller to remove.
func (w *Writer) Abort() error {
	if w.closed {
		return nil
	}
	w.aborted = true
	return w.vw.Abort()
}

// RunScoped mirrors the scoped-resource discipline described in the
// specification: fn runs against a freshly created Writer; a normal return
// finalizes the archive, any error aborts it. The returned volume list is
// nil on error.
func RunScoped(outputPath string, opts []Option, fn func(*Writer) error) ([]string, error) {
	w, err := Create(outputPath, opts...)
	if err != nil {
		return nil, err
	}
	if err := fn(w); err != nil {
		if abortErr := w.Abort(); abortErr != nil {
			return nil, abortErr
		}
		return nil, err
	}
	return w.Close()
}
