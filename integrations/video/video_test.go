package video

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"learnhub/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRange(t *testing.T) {
	const size = 10 * maxChunk
	tests := []struct {
		header     string
		start, end int64
		ok         bool
	}{
		{"bytes=0-99", 0, 99, true},
		{"bytes=100-", 100, 100 + maxChunk - 1, true},
		{"bytes=-500", size - 500, size - 1, true},
		{"bytes=-0", 0, 0, false},
		{"bytes=5-2", 0, 0, false},
		{"bytes=0-99999999999", 0, size - 1, true},
		{"bytes=" + "10485760-", 0, 0, false},
		{"bytes=0-1,5-6", 0, 0, false},
		{"items=0-5", 0, 0, false},
		{"bytes=abc-", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			start, end, err := ParseRange(tt.header, size)
			if !tt.ok {
				assert.True(t, errors.Is(err, ErrRangeNotSatisfiable))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}

func TestParseRangeSmallObject(t *testing.T) {
	start, end, err := ParseRange("bytes=0-", 300)
	require.NoError(t, err)
	assert.EqualValues(t, 0, start)
	assert.EqualValues(t, 299, end)
	assert.Equal(t, "bytes 0-299/300", ContentRange(start, end, 300))

	start, _, err = ParseRange("bytes=-1000", 300)
	require.NoError(t, err)
	assert.EqualValues(t, 0, start)
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "intro.mp4", ObjectKey("intro.mp4", "lectures"))
	assert.Equal(t, "c1/intro.mp4", ObjectKey("/lectures/c1/intro.mp4", "lectures"))
	assert.Equal(t, "c1/intro.mp4", ObjectKey("http://minio:9000/lectures/c1/intro.mp4", "lectures"))
}

func TestHTTPSourceForwardsRange(t *testing.T) {
	var gotRange string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRange = r.Header.Get("Range")
		switch r.URL.Path {
		case "/missing.mp4":
			w.WriteHeader(http.StatusNotFound)
		case "/short.mp4":
			w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
		case "/chunked.mp4":
			w.Header().Set("Content-Range", "bytes 0-3/10")
			w.WriteHeader(http.StatusPartialContent)
			_, _ = w.Write([]byte("ab"))
			w.(http.Flusher).Flush()
			_, _ = w.Write([]byte("cd"))
		default:
			w.Header().Set("Content-Range", "bytes 0-3/10")
			w.Header().Set("Content-Length", "4")
			w.WriteHeader(http.StatusPartialContent)
			_, _ = w.Write([]byte("abcd"))
		}
	}))
	defer srv.Close()

	src := NewHTTPSource(logger.Nop())
	ctx := context.Background()

	chunk, err := src.Fetch(ctx, srv.URL+"/intro.mp4", "bytes=0-3")
	require.NoError(t, err)
	defer chunk.Body.Close()
	assert.Equal(t, "bytes=0-3", gotRange)
	assert.Equal(t, "bytes 0-3/10", chunk.ContentRange)
	assert.EqualValues(t, 4, chunk.ContentLength)
	data, err := io.ReadAll(chunk.Body)
	require.NoError(t, err)
	assert.Equal(t, "abcd", string(data))

	chunked, err := src.Fetch(ctx, srv.URL+"/chunked.mp4", "bytes=0-3")
	require.NoError(t, err)
	defer chunked.Body.Close()
	assert.EqualValues(t, -1, chunked.ContentLength)
	data, err = io.ReadAll(chunked.Body)
	require.NoError(t, err)
	assert.Equal(t, "abcd", string(data))

	_, err = src.Fetch(ctx, srv.URL+"/missing.mp4", "bytes=0-3")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = src.Fetch(ctx, srv.URL+"/short.mp4", "bytes=99-")
	assert.ErrorIs(t, err, ErrRangeNotSatisfiable)
}
