package logger

import (
	"bufio"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const flushInterval = 2 * time.Second

// AsyncFileWriter buffers log lines through a channel so the evaluation
// path never waits on disk. A full channel drops the line; logging must
// not apply backpressure to request handling.
type AsyncFileWriter struct {
	mu     sync.Mutex
	out    *bufio.Writer
	file   *os.File
	lines  chan []byte
	closed chan struct{}
}

func NewAsyncFileWriter(path string, bufferSize int) (*AsyncFileWriter, error) {
	file, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, err
	}

	w := &AsyncFileWriter{
		out:    bufio.NewWriterSize(file, bufferSize),
		file:   file,
		lines:  make(chan []byte, 1000),
		closed: make(chan struct{}),
	}
	go w.drain()
	return w, nil
}

func (w *AsyncFileWriter) Write(p []byte) (int, error) {
	line := make([]byte, len(p))
	copy(line, p)
	select {
	case w.lines <- line:
		return len(p), nil
	default:
		return 0, nil
	}
}

func (w *AsyncFileWriter) drain() {
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()
	for {
		select {
		case line := <-w.lines:
			w.mu.Lock()
			_, _ = w.out.Write(line)
			w.mu.Unlock()
		case <-ticker.C:
			w.flush()
		case <-w.closed:
			w.flush()
			return
		}
	}
}

func (w *AsyncFileWriter) flush() {
	w.mu.Lock()
	_ = w.out.Flush()
	w.mu.Unlock()
}

func (w *AsyncFileWriter) Close() {
	close(w.closed)
	_ = w.file.Close()
}
