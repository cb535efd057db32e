// internal/jobs/search_es.go
package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"jobboard-api/internal/common/errors"
	"jobboard-api/internal/common/logger"
	"jobboard-api/internal/models"
)

// SearchIndex serves the multi-criteria job search from Elasticsearch.
type SearchIndex struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewSearchIndex(client *elasticsearch.Client, index string, log logger.Logger) *SearchIndex {
	return &SearchIndex{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "jobs.search", "index": index}),
	}
}

// buildSearchQuery builds the Elasticsearch bool query for the parsed
// filters. Multi-value filters become terms clauses (OR within the field),
// all clauses combine with AND.
func buildSearchQuery(filters models.SearchFilters) map[string]interface{} {
	mustClauses := []interface{}{}
	filterClauses := []interface{}{
		map[string]interface{}{
			"term": map[string]interface{}{"isDeleted": false},
		},
		map[string]interface{}{
			"term": map[string]interface{}{"status": string(models.StatusActive)},
		},
	}

	if filters.Search != "" {
		mustClauses = append(mustClauses, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  filters.Search,
				"fields": []string{"title^3", "description^2", "tags"},
				"type":   "best_fields",
			},
		})
	}

	if len(filters.Cities) > 0 {
		filterClauses = append(filterClauses, map[string]interface{}{
			"terms": map[string]interface{}{"location.city": filters.Cities},
		})
	}
	if len(filters.JobTypes) > 0 {
		filterClauses = append(filterClauses, map[string]interface{}{
			"terms": map[string]interface{}{"jobType": filters.JobTypes},
		})
	}
	if len(filters.Categories) > 0 {
		filterClauses = append(filterClauses, map[string]interface{}{
			"terms": map[string]interface{}{"category": filters.Categories},
		})
	}
	if len(filters.PlatformCategories) > 0 {
		filterClauses = append(filterClauses, map[string]interface{}{
			"terms": map[string]interface{}{"platformCategories": filters.PlatformCategories},
		})
	}
	if filters.Diaspora != nil {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"diaspora": *filters.Diaspora},
		})
	}

	boolQuery := map[string]interface{}{
		"filter": filterClauses,
	}
	if len(mustClauses) > 0 {
		boolQuery["must"] = mustClauses
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": boolQuery,
		},
		"sort": []interface{}{
			map[string]interface{}{"createdAt": map[string]interface{}{"order": "desc"}},
		},
	}
}

// Search executes the filter query with pagination.
func (s *SearchIndex) Search(ctx context.Context, filters models.SearchFilters) (*models.SearchResult, error) {
	body, _ := json.Marshal(buildSearchQuery(filters))

	from := filters.Offset()
	size := filters.Limit

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  strings.NewReader(string(body)),
		From:  &from,
		Size:  &size,
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, errors.NewSearchQueryFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, errors.NewSearchQueryFailedError(fmt.Errorf("search responded %s", res.Status()))
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Job `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, errors.NewSearchQueryFailedError(err)
	}

	jobs := make([]models.Job, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		jobs = append(jobs, hit.Source)
	}

	return &models.SearchResult{
		Jobs:       jobs,
		Total:      parsed.Hits.Total.Value,
		Page:       filters.Page,
		Limit:      filters.Limit,
		TotalPages: totalPages(parsed.Hits.Total.Value, filters.Limit),
	}, nil
}

// IndexJob writes (or overwrites) the job document. Indexing is
// best-effort for the write path: the caller decides whether a failure is
// fatal.
func (s *SearchIndex) IndexJob(ctx context.Context, job *models.Job) error {
	body, err := json.Marshal(job)
	if err != nil {
		return errors.NewSearchQueryFailedError(err)
	}

	req := esapi.IndexRequest{
		Index:      s.index,
		DocumentID: job.ID,
		Body:       bytes.NewReader(body),
		Refresh:    "false",
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return errors.NewSearchQueryFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return errors.NewSearchQueryFailedError(fmt.Errorf("index responded %s", res.Status()))
	}
	return nil
}

// RemoveJob drops a job document after soft deletion.
func (s *SearchIndex) RemoveJob(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{
		Index:      s.index,
		DocumentID: id,
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return errors.NewSearchQueryFailedError(err)
	}
	defer res.Body.Close()

	// 404 means the document never made it into the index; nothing to do.
	if res.IsError() && res.StatusCode != 404 {
		return errors.NewSearchQueryFailedError(fmt.Errorf("delete responded %s", res.Status()))
	}
	return nil
}

// EnsureIndex creates the jobs index with keyword mappings for the filter
// fields when it does not exist yet.
func (s *SearchIndex) EnsureIndex(ctx context.Context) error {
	exists := esapi.IndicesExistsRequest{Index: []string{s.index}}
	res, err := exists.Do(ctx, s.client)
	if err != nil {
		return errors.NewSearchQueryFailedError(err)
	}
	res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}

	mapping := map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"title":              map[string]interface{}{"type": "text"},
				"description":        map[string]interface{}{"type": "text"},
				"tags":               map[string]interface{}{"type": "text"},
				"category":           map[string]interface{}{"type": "keyword"},
				"jobType":            map[string]interface{}{"type": "keyword"},
				"platformCategories": map[string]interface{}{"type": "keyword"},
				"status":             map[string]interface{}{"type": "keyword"},
				"seniority":          map[string]interface{}{"type": "keyword"},
				"isDeleted":          map[string]interface{}{"type": "boolean"},
				"diaspora":           map[string]interface{}{"type": "boolean"},
				"createdAt":          map[string]interface{}{"type": "date"},
				"location": map[string]interface{}{
					"properties": map[string]interface{}{
						"city":   map[string]interface{}{"type": "keyword"},
						"region": map[string]interface{}{"type": "keyword"},
					},
				},
			},
		},
	}

	body, _ := json.Marshal(mapping)
	create := esapi.IndicesCreateRequest{
		Index: s.index,
		Body:  bytes.NewReader(body),
	}

	createRes, err := create.Do(ctx, s.client)
	if err != nil {
		return errors.NewSearchQueryFailedError(err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return errors.NewSearchQueryFailedError(fmt.Errorf("index create responded %s", createRes.Status()))
	}

	s.logger.Info("search index created", map[string]interface{}{})
	return nil
}
