// Package video serves byte ranges of lecture videos from remote storage.
package video

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrRangeNotSatisfiable means the requested range lies outside the object.
var ErrRangeNotSatisfiable = errors.New("range not satisfiable")

// ErrNotFound means the storage has no object at the location.
var ErrNotFound = errors.New("video not found")

const (
	defaultContentType = "video/mp4"
	// maxChunk bounds open ended ranges such as "bytes=0-".
	maxChunk = 1 << 20
)

// Chunk is one partial response ready to relay to the client. ContentLength is -1 when the
// upstream did not announce it.
type Chunk struct {
	Body          io.ReadCloser
	ContentRange  string
	ContentLength int64
	ContentType   string
}

// Source fetches the byte range named by a Range header value.
type Source interface {
	Fetch(ctx context.Context, location, rangeHeader string) (*Chunk, error)
}

// ParseRange resolves a single "bytes=" range against an object of the given size.
// The returned end is inclusive.
func ParseRange(header string, size int64) (start, end int64, err error) {
	ranges, ok := strings.CutPrefix(strings.TrimSpace(header), "bytes=")
	if !ok || strings.Contains(ranges, ",") {
		return 0, 0, fmt.Errorf("%w: %q", ErrRangeNotSatisfiable, header)
	}
	from, to, ok := strings.Cut(ranges, "-")
	if !ok || size <= 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrRangeNotSatisfiable, header)
	}

	if from == "" {
		n, err := strconv.ParseInt(to, 10, 64)
		if err != nil || n <= 0 {
			return 0, 0, fmt.Errorf("%w: %q", ErrRangeNotSatisfiable, header)
		}
		if n > size {
			n = size
		}
		return size - n, size - 1, nil
	}

	start, err = strconv.ParseInt(from, 10, 64)
	if err != nil || start < 0 || start >= size {
		return 0, 0, fmt.Errorf("%w: %q", ErrRangeNotSatisfiable, header)
	}
	if to == "" {
		end = start + maxChunk - 1
	} else {
		end, err = strconv.ParseInt(to, 10, 64)
		if err != nil || end < start {
			return 0, 0, fmt.Errorf("%w: %q", ErrRangeNotSatisfiable, header)
		}
	}
	if end >= size {
		end = size - 1
	}
	return start, end, nil
}

// ContentRange formats the Content-Range header value for an inclusive range.
func ContentRange(start, end, size int64) string {
	return fmt.Sprintf("bytes %d-%d/%d", start, end, size)
}
