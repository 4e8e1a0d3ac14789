package log

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// RawLogger dumps the bytes of every written artifact.
type RawLogger interface {
	Log(path string, data []byte)
}

// rawLogger implements RawLogger with thread-safe log.
type rawLogger struct {
	w   io.Writer
	mu  sync.Mutex
	now func() time.Time
}

// NewRaw creates a new RawLogger. If writer is nil, returns a no-op logger.
func NewRaw(w io.Writer) RawLogger {
	return &rawLogger{w: w, now: time.Now}
}

// Log writes a timestamped header line for path followed by the content.
func (r *rawLogger) Log(path string, data []byte) {
	if r.w == nil {
		return
	}

	header := fmt.Sprintf("%s %s: %d bytes\n",
		r.now().Format("2006/01/02 15:04:05"),
		path,
		len(data))

	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = io.WriteString(r.w, header)
	_, _ = r.w.Write(data)
	if len(data) > 0 && data[len(data)-1] != '\n' {
		_, _ = io.WriteString(r.w, "\n")
	}
}
