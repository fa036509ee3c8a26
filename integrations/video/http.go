package video

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"learnhub/logger"

	"github.com/go-resty/resty/v2"
)

// HTTPSource forwards the Range header to the URL stored on the lecture.
type HTTPSource struct {
	client *resty.Client
	log    *logger.Logger
}

// NewHTTPSource bounds connecting and waiting for response headers only. The body is relayed
// after the handler returns, so its lifetime is left to the request context.
func NewHTTPSource(baseLog *logger.Logger) *HTTPSource {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = 30 * time.Second
	return &HTTPSource{
		client: resty.New().SetTransport(transport),
		log:    baseLog.With("service", "HTTPVideoSource"),
	}
}

func (s *HTTPSource) Fetch(ctx context.Context, location, rangeHeader string) (*Chunk, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		SetHeader("Range", rangeHeader).
		Get(location)
	if err != nil {
		return nil, fmt.Errorf("fetch video: %w", err)
	}
	body := resp.RawBody()

	switch resp.StatusCode() {
	case http.StatusPartialContent:
	case http.StatusRequestedRangeNotSatisfiable:
		body.Close()
		return nil, ErrRangeNotSatisfiable
	case http.StatusNotFound:
		body.Close()
		return nil, ErrNotFound
	default:
		body.Close()
		return nil, fmt.Errorf("fetch video: upstream status %d", resp.StatusCode())
	}

	h := resp.Header()
	length := int64(-1)
	if raw := resp.RawResponse; raw != nil {
		length = raw.ContentLength
	}
	ct := h.Get("Content-Type")
	if ct == "" {
		ct = defaultContentType
	}
	return &Chunk{
		Body:          body,
		ContentRange:  h.Get("Content-Range"),
		ContentLength: length,
		ContentType:   ct,
	}, nil
}
