// Package search keeps the course index in Elasticsearch.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"learnhub/logger"
	"learnhub/models"
	"learnhub/repository"

	"github.com/elastic/go-elasticsearch/v8"
)

const courseIndex = "courses"

type courseDoc struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	NameTeacher string  `json:"name_teacher"`
	CategoryID  uint    `json:"category_id"`
	TeacherID   uint    `json:"teacher_id"`
	Price       float64 `json:"price_current"`
}

type ElasticIndex struct {
	es    *elasticsearch.Client
	index string
	log   *logger.Logger
}

func NewElasticIndex(url string, baseLog *logger.Logger) (*ElasticIndex, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{url}})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	return &ElasticIndex{es: client, index: courseIndex, log: baseLog.With("service", "ElasticIndex")}, nil
}

func (x *ElasticIndex) IndexCourse(ctx context.Context, c *models.Course) error {
	data, err := json.Marshal(courseDoc{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		NameTeacher: c.NameTeacher,
		CategoryID:  c.CategoryID,
		TeacherID:   c.TeacherID,
		Price:       c.PriceCurrent,
	})
	if err != nil {
		return err
	}
	res, err := x.es.Index(
		x.index,
		bytes.NewReader(data),
		x.es.Index.WithContext(ctx),
		x.es.Index.WithDocumentID(strconv.FormatUint(uint64(c.ID), 10)),
		x.es.Index.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("index course %d: %w", c.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index course %d: %s", c.ID, res.String())
	}
	return nil
}

// RemoveCourse treats a missing document as already removed.
func (x *ElasticIndex) RemoveCourse(ctx context.Context, id uint) error {
	res, err := x.es.Delete(
		x.index,
		strconv.FormatUint(uint64(id), 10),
		x.es.Delete.WithContext(ctx),
		x.es.Delete.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("delete course %d: %w", id, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete course %d: %s", id, res.String())
	}
	return nil
}

// SearchCourses returns matching course ids in relevance order.
func (x *ElasticIndex) SearchCourses(ctx context.Context, query string, page repository.Page) ([]uint, int64, error) {
	body, err := searchBody(query, page)
	if err != nil {
		return nil, 0, err
	}
	res, err := x.es.Search(
		x.es.Search.WithContext(ctx),
		x.es.Search.WithIndex(x.index),
		x.es.Search.WithBody(body),
		x.es.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("search courses: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, 0, fmt.Errorf("search courses: %s", res.String())
	}
	return parseHits(res.Body)
}

func searchBody(query string, page repository.Page) (io.Reader, error) {
	q := strings.TrimSpace(query)
	req := map[string]interface{}{
		"_source": false,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []interface{}{
					map[string]interface{}{
						"multi_match": map[string]interface{}{
							"query":     q,
							"fields":    []string{"title^3", "name_teacher^2", "description"},
							"fuzziness": "AUTO",
						},
					},
					map[string]interface{}{
						"wildcard": map[string]interface{}{
							"title": map[string]interface{}{
								"value":            "*" + strings.ToLower(q) + "*",
								"case_insensitive": true,
							},
						},
					},
				},
				"minimum_should_match": 1,
			},
		},
	}
	if page.Limit > 0 {
		req["from"] = page.Offset()
		req["size"] = page.Limit
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(req); err != nil {
		return nil, err
	}
	return &buf, nil
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID string `json:"_id"`
		} `json:"hits"`
	} `json:"hits"`
}

func parseHits(r io.Reader) ([]uint, int64, error) {
	var sr searchResponse
	if err := json.NewDecoder(r).Decode(&sr); err != nil {
		return nil, 0, fmt.Errorf("decode search response: %w", err)
	}
	ids := make([]uint, 0, len(sr.Hits.Hits))
	for _, h := range sr.Hits.Hits {
		id, err := strconv.ParseUint(h.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids, sr.Hits.Total.Value, nil
}
