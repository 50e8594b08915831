// Package tasks lists open to-do items from Todoist.
package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

const (
	// DefaultEndpoint is the unified Todoist API, which pages its results.
	DefaultEndpoint = "https://api.todoist.com/api/v1/tasks"

	// Unavailable hides every failure cause, including authentication.
	Unavailable = "Não foi possível recuperar tarefas."

	maxPages = 10
)

var (
	// ErrMissingToken is returned when no API token is configured.
	ErrMissingToken = errors.New("todoist token is empty")
	// ErrUnexpectedShape is returned when the body is neither a page nor a task list.
	ErrUnexpectedShape = errors.New("todoist response is neither a page nor a task list")
)

// Getter is the HTTP surface the fetcher needs.
type Getter interface {
	GetJSON(ctx context.Context, endpoint string, query url.Values, headers map[string]string, out any) error
}

// Task is an open Todoist item.
type Task struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// page is the paginated envelope of the unified API.
type page struct {
	Results    []Task  `json:"results"`
	NextCursor *string `json:"next_cursor"`
}

// Fetcher lists the open tasks of one account.
type Fetcher struct {
	getter   Getter
	endpoint string
	token    string
	logger   *zap.Logger
}

// NewFetcher builds a Fetcher. An empty endpoint falls back to DefaultEndpoint.
func NewFetcher(getter Getter, endpoint, token string, logger *zap.Logger) *Fetcher {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{getter: getter, endpoint: endpoint, token: token, logger: logger}
}

// Fetch returns every open task, following pagination cursors. Endpoints that
// answer with a bare JSON array (REST v2) are accepted too.
func (f *Fetcher) Fetch(ctx context.Context) ([]Task, error) {
	if f.token == "" {
		return nil, ErrMissingToken
	}

	headers := map[string]string{"Authorization": "Bearer " + f.token}
	var all []Task
	var query url.Values
	for i := 0; i < maxPages; i++ {
		var raw json.RawMessage
		if err := f.getter.GetJSON(ctx, f.endpoint, query, headers, &raw); err != nil {
			return nil, fmt.Errorf("fetch tasks: %w", err)
		}

		list, cursor, err := decodePage(raw)
		if err != nil {
			return nil, fmt.Errorf("fetch tasks: %w", err)
		}
		all = append(all, list...)
		if cursor == "" {
			return all, nil
		}
		query = url.Values{"cursor": {cursor}}
	}

	f.logger.Warn("task list truncated", zap.Int("pages", maxPages))
	return all, nil
}

func decodePage(raw json.RawMessage) ([]Task, string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, "", ErrUnexpectedShape
	}

	switch trimmed[0] {
	case '[':
		var list []Task
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
		}
		return list, "", nil
	case '{':
		var p page
		if err := json.Unmarshal(trimmed, &p); err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
		}
		if p.Results == nil {
			return nil, "", ErrUnexpectedShape
		}
		if p.NextCursor == nil {
			return p.Results, "", nil
		}
		return p.Results, *p.NextCursor, nil
	default:
		return nil, "", ErrUnexpectedShape
	}
}

// Summary lists the task titles, or Unavailable on any failure.
func (f *Fetcher) Summary(ctx context.Context) string {
	list, err := f.Fetch(ctx)
	if err != nil {
		f.logger.Warn("tasks unavailable", zap.Error(err))
		return Unavailable
	}

	titles := make([]string, 0, len(list))
	for _, t := range list {
		titles = append(titles, t.Content)
	}
	return "Aqui estão suas tarefas abertas: " + strings.Join(titles, ", ")
}
