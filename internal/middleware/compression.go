package middleware

import (
	"compress/gzip"
	"io"
	"mime"
	"net/http"
	"strings"
	"sync"
)

// CompressionConfig controls gzip compression of API responses.
type CompressionConfig struct {
	// MinSize is the smallest body, in bytes, worth compressing.
	// Responses below it are passed through unchanged.
	MinSize int
	// Level is the gzip compression level.
	Level int
	// CompressibleTypes lists the media types eligible for compression.
	CompressibleTypes []string
}

// DefaultCompressionConfig returns defaults tuned for a JSON API.
// The catalog endpoints emit application/json; text/plain covers the
// router's own error responses. Listing payloads compress well even at
// the fastest level, so favor speed over ratio.
func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{
		MinSize: 1024,
		Level:   gzip.BestSpeed,
		CompressibleTypes: []string{
			"application/json",
			"text/plain",
		},
	}
}

// compressWriter buffers the response body until it can tell whether
// compression is worthwhile. Once MinSize bytes have arrived (or the
// request finishes) it either opens a gzip stream or replays the
// buffer uncompressed.
type compressWriter struct {
	http.ResponseWriter
	conf    CompressionConfig
	pool    *sync.Pool
	gz      *gzip.Writer
	buf     []byte
	status  int
	decided bool
}

func newCompressWriter(w http.ResponseWriter, conf CompressionConfig, pool *sync.Pool) *compressWriter {
	return &compressWriter{
		ResponseWriter: w,
		conf:           conf,
		pool:           pool,
		status:         http.StatusOK,
		buf:            make([]byte, 0, conf.MinSize+1),
	}
}

// WriteHeader defers the status line until the compression decision is made.
func (cw *compressWriter) WriteHeader(status int) {
	if !cw.decided {
		cw.status = status
	}
}

func (cw *compressWriter) Write(p []byte) (int, error) {
	if cw.decided {
		if cw.gz != nil {
			return cw.gz.Write(p)
		}
		return cw.ResponseWriter.Write(p)
	}

	cw.buf = append(cw.buf, p...)
	if len(cw.buf) > cw.conf.MinSize {
		cw.decide()
	}
	return len(p), nil
}

// compressible reports whether the response Content-Type is in the
// configured list, ignoring any charset parameter.
func (cw *compressWriter) compressible() bool {
	ct := cw.Header().Get("Content-Type")
	if ct == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	for _, want := range cw.conf.CompressibleTypes {
		if mediaType == want {
			return true
		}
	}
	return false
}

// decide commits to compressed or plain output and flushes the buffer.
func (cw *compressWriter) decide() {
	if cw.decided {
		return
	}
	cw.decided = true

	if len(cw.buf) >= cw.conf.MinSize && cw.compressible() {
		cw.Header().Del("Content-Length")
		cw.Header().Set("Content-Encoding", "gzip")
		cw.Header().Add("Vary", "Accept-Encoding")

		cw.gz = cw.pool.Get().(*gzip.Writer)
		cw.gz.Reset(cw.ResponseWriter)
		cw.ResponseWriter.WriteHeader(cw.status)
		cw.gz.Write(cw.buf)
	} else {
		cw.ResponseWriter.WriteHeader(cw.status)
		cw.ResponseWriter.Write(cw.buf)
	}
	cw.buf = nil
}

// Close settles any pending buffer and returns the gzip writer to the pool.
func (cw *compressWriter) Close() error {
	if !cw.decided {
		cw.decide()
	}
	if cw.gz != nil {
		err := cw.gz.Close()
		cw.pool.Put(cw.gz)
		cw.gz = nil
		return err
	}
	return nil
}

// Flush implements http.Flusher.
func (cw *compressWriter) Flush() {
	if !cw.decided {
		cw.decide()
	}
	if cw.gz != nil {
		cw.gz.Flush()
	}
	if f, ok := cw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Compression returns middleware that gzips eligible responses for
// clients that advertise gzip support. Writers are pooled per
// middleware instance at the configured level.
func Compression(conf CompressionConfig) func(http.Handler) http.Handler {
	pool := &sync.Pool{
		New: func() interface{} {
			w, _ := gzip.NewWriterLevel(io.Discard, conf.Level)
			return w
		},
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !acceptsGzip(r) {
				next.ServeHTTP(w, r)
				return
			}

			cw := newCompressWriter(w, conf, pool)
			defer cw.Close()
			next.ServeHTTP(cw, r)
		})
	}
}

func acceptsGzip(r *http.Request) bool {
	for _, enc := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		enc = strings.TrimSpace(enc)
		if enc == "gzip" || strings.HasPrefix(enc, "gzip;") {
			return true
		}
	}
	return false
}
