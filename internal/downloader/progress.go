package downloader

import (
	"context"
	"io"
	"time"
)

// progressWriter counts bytes written for one stream download and forwards
// throttled updates to the printer. Updates are emitted at most every 100ms.
type progressWriter struct {
	size       int64
	total      int64
	start      time.Time
	lastUpdate time.Time
	prefix     string
	printer    *Printer
}

func newProgressWriter(size int64, printer *Printer, prefix string) *progressWriter {
	now := time.Now()
	return &progressWriter{
		size:       size,
		start:      now,
		lastUpdate: now,
		prefix:     prefix,
		printer:    printer,
	}
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n := len(b)
	p.total += int64(n)
	now := time.Now()
	if now.Sub(p.lastUpdate) >= 100*time.Millisecond {
		p.lastUpdate = now
		p.printer.Progress(p.prefix, p.total, p.size, now.Sub(p.start))
	}
	return n, nil
}

func (p *progressWriter) Finish() {
	p.printer.Progress(p.prefix, p.total, p.size, time.Since(p.start))
	p.printer.ProgressDone()
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *contextReader) Read(p []byte) (int, error) {
	select {
	case <-r.ctx.Done():
		return 0, r.ctx.Err()
	default:
		return r.r.Read(p)
	}
}

// copyWithContext copies src to dst, aborting between reads when the
// context is cancelled.
func copyWithContext(ctx context.Context, dst io.Writer, src io.Reader) (int64, error) {
	reader := &contextReader{ctx: ctx, r: src}
	return io.Copy(dst, reader)
}
