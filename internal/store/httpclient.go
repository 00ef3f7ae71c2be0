package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/avoronova/tally/internal/domain"
)

// RemoteStore implements RecordStore and DirectoryProvider against the
// CRM-style REST API.
type RemoteStore struct {
	cfg  Config
	http *http.Client
}

// NewRemoteStore creates a client for the configured endpoint.
func NewRemoteStore(cfg Config) *RemoteStore {
	return &RemoteStore{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
	}
}

// searchRequest is the JSON body for POST /records/search: an OR across
// per-date equality criteria.
type searchRequest struct {
	Entity   string           `json:"entity"`
	Operator string           `json:"operator"`
	Criteria []searchCriteria `json:"criteria"`
}

type searchCriteria struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type searchResponse struct {
	Data []Record `json:"data"`
}

// upsertRequest is the JSON body for POST /records/upsert.
type upsertRequest struct {
	Entity               string   `json:"entity"`
	Data                 []Record `json:"data"`
	DuplicateCheckFields []string `json:"duplicate_check_fields"`
}

func (s *RemoteStore) Search(ctx context.Context, dates []string) ([]Record, error) {
	body := searchRequest{
		Entity:   s.cfg.Entity,
		Operator: "or",
	}
	for _, d := range dates {
		body.Criteria = append(body.Criteria, searchCriteria{Field: "Date", Value: d})
	}

	var resp searchResponse
	if err := s.post(ctx, "/records/search", body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return resp.Data, nil
}

func (s *RemoteStore) Upsert(ctx context.Context, records []Record, dedupFields []string) error {
	body := upsertRequest{
		Entity:               s.cfg.Entity,
		Data:                 records,
		DuplicateCheckFields: dedupFields,
	}
	if err := s.post(ctx, "/records/upsert", body, nil); err != nil {
		return fmt.Errorf("%w: %v", ErrUpsertFailed, err)
	}
	return nil
}

// groupsResponse is the JSON body returned by GET /groups.
type groupsResponse struct {
	Groups []struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Members []struct {
			FirstName string `json:"first_name"`
			LastName  string `json:"last_name"`
			FullName  string `json:"full_name"`
		} `json:"members"`
	} `json:"groups"`
}

func (s *RemoteStore) FetchGroups(ctx context.Context) (*domain.Directory, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	req, err := s.newRequest(ctx, http.MethodGet, "/groups", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}

	var resp groupsResponse
	if err := s.do(req, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}

	dir := &domain.Directory{}
	for _, g := range resp.Groups {
		group := domain.Group{ID: g.ID, Name: g.Name}
		for _, m := range g.Members {
			group.Members = append(group.Members, domain.Member{
				FirstName: m.FirstName,
				LastName:  m.LastName,
				FullName:  m.FullName,
			})
		}
		dir.Groups = append(dir.Groups, group)
	}
	return dir, nil
}

func (s *RemoteStore) post(ctx context.Context, path string, body, out any) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}
	req, err := s.newRequest(ctx, http.MethodPost, path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	return s.do(req, out)
}

func (s *RemoteStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Duration(s.cfg.TimeoutMs)*time.Millisecond)
}

func (s *RemoteStore) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, s.cfg.Endpoint+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.Token)
	}
	return req, nil
}

func (s *RemoteStore) do(req *http.Request, out any) error {
	resp, err := s.http.Do(req)
	if err != nil {
		if isConnectionError(err) {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("store returned status %d: %s", resp.StatusCode, string(respBody))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func isConnectionError(err error) bool {
	var netErr *net.OpError
	return errors.As(err, &netErr)
}
