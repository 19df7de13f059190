package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/bcit-connector/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

// ProfileDoc is the indexed projection of a profile.
type ProfileDoc struct {
	UserID         string   `json:"user_id"`
	Name           string   `json:"name"`
	Avatar         string   `json:"avatar"`
	Status         string   `json:"status"`
	Company        string   `json:"company,omitempty"`
	Location       string   `json:"location,omitempty"`
	Skills         []string `json:"skills"`
	GithubUsername string   `json:"githubusername,omitempty"`
	UpdatedAt      string   `json:"updated_at"`
}

// ProfileIndex keeps profiles searchable. A nil client disables every operation.
type ProfileIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewProfileIndex(es *elasticsearch.Client, index string) *ProfileIndex {
	return &ProfileIndex{es: es, index: index}
}

func (x *ProfileIndex) Enabled() bool {
	return x != nil && x.es != nil && x.index != ""
}

func docFromProfile(p *entity.Profile) ProfileDoc {
	return ProfileDoc{
		UserID:         p.UserID,
		Name:           p.User.Name,
		Avatar:         p.User.AvatarURL,
		Status:         p.Status,
		Company:        p.Company,
		Location:       p.Location,
		Skills:         p.Skills,
		GithubUsername: p.GithubUsername,
		UpdatedAt:      p.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// Index upserts the profile document keyed by user id.
func (x *ProfileIndex) Index(ctx context.Context, p *entity.Profile) error {
	if !x.Enabled() {
		return nil
	}
	b, err := json.Marshal(docFromProfile(p))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.index, DocumentID: p.UserID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return fmt.Errorf("es index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}

// Delete removes the user's document; a missing document is not an error.
func (x *ProfileIndex) Delete(ctx context.Context, userID string) error {
	if !x.Enabled() {
		return nil
	}
	req := esapi.DeleteRequest{Index: x.index, DocumentID: userID}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return fmt.Errorf("es delete: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("es delete: %s", res.Status())
	}
	return nil
}

// Search runs a multi_match over name, status, skills, company and location.
func (x *ProfileIndex) Search(ctx context.Context, q string, size int) ([]ProfileDoc, error) {
	if !x.Enabled() {
		return []ProfileDoc{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    []string{"name^2", "skills^2", "status", "company", "location"},
				"fuzziness": "AUTO",
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.es.Search(
		x.es.Search.WithContext(c),
		x.es.Search.WithIndex(x.index),
		x.es.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, fmt.Errorf("es search: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		if res.StatusCode == 404 {
			return []ProfileDoc{}, nil
		}
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source ProfileDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("es search decode: %w", err)
	}

	out := make([]ProfileDoc, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
