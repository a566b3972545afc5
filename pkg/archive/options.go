package archive

import (
	"github.com/go-logr/logr"

	"github.com/archivekit/splitzip/pkg/clock"
	"github.com/archivekit/splitzip/pkg/codec"
	"github.com/archivekit/splitzip/pkg/consts"
	zerrors "github.com/archivekit/splitzip/pkg/errors"
	"github.com/archivekit/splitzip/pkg/sizeparse"
)

// OnVolume is invoked immediately after a new volume file is opened.
type OnVolume func(volumeNumber int, path string)

// OnProgress is invoked during body streaming. total is -1 when unknown.
type OnProgress func(arcname string, bytesDone, total int64)

// Options holds the resolved configuration for a Writer, built up by
// functional Option values the same way rstms-iso-kit's pkg/option package
// builds iso.Options.
type Options struct {
	SplitSize  int64
	Level      int
	Store      bool
	Logger     logr.Logger
	Clock      clock.Clock
	OnVolume   OnVolume
	OnProgress OnProgress
}

// Option mutates Options during Create.
type Option func(*Options)

// WithSplitSize sets the per-volume soft cap in bytes. Must be at least
// 64 KiB.
func WithSplitSize(bytes int64) Option {
	return func(o *Options) { o.SplitSize = bytes }
}

// WithSplitSizeString parses a human size string ("700MiB", "100MB") with
// pkg/sizeparse and applies it as the split size. Parse errors surface from
// Create, not from this constructor, so WithSplitSizeString composes with
// other Options without an early return.
func WithSplitSizeString(s string) Option {
	return func(o *Options) {
		if n, err := sizeparse.ParseSplitSize(s); err == nil {
			o.SplitSize = n
		} else {
			// Force Create to reject this, since the zero value also fails
			// the minimum-size check with a clear message.
			o.SplitSize = 0
		}
	}
}

// WithLevel sets the DEFLATE compression level (1-9). Ignored when
// WithStore is set.
func WithLevel(level int) Option {
	return func(o *Options) { o.Level = level }
}

// WithStore forces every entry to be written STORED instead of DEFLATED.
func WithStore(store bool) Option {
	return func(o *Options) { o.Store = store }
}

// WithLogger sets the logr.Logger the archive writer and its volume writer
// report to. Defaults to logr.Discard().
func WithLogger(logger logr.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// WithClock overrides the clock used to stamp in-memory (AddBytes/AddReader)
// entries. Defaults to clock.SystemClock.
func WithClock(c clock.Clock) Option {
	return func(o *Options) { o.Clock = c }
}

// WithOnVolume registers a hook invoked whenever a new volume file is
// opened, including the first.
func WithOnVolume(f OnVolume) Option {
	return func(o *Options) { o.OnVolume = f }
}

// WithOnProgress registers a hook invoked during body streaming.
func WithOnProgress(f OnProgress) Option {
	return func(o *Options) { o.OnProgress = f }
}

func defaultOptions() Options {
	return Options{
		Level:  consts.DefaultCompressionLevel,
		Clock:  clock.SystemClock{},
		Logger: logr.Discard(),
	}
}

func (o *Options) validate() error {
	if o.SplitSize < consts.MinVolumeBytes {
		return zerrors.New(zerrors.KindVolumeTooSmall,
			"split size must be at least 65536 bytes")
	}
	if !o.Store && (o.Level < 1 || o.Level > 9) {
		return zerrors.New(zerrors.KindConfig, "compression level must be between 1 and 9")
	}
	return nil
}

func (o *Options) method() codec.Method {
	if o.Store {
		return codec.Stored
	}
	return codec.Deflated
}
