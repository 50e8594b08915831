// Package news fetches the latest technology headlines from the mediastack API
// and renders them as plain text for the briefing.
package news

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const (
	DefaultEndpoint  = "https://api.mediastack.com/v1/news"
	DefaultKeywords  = "tecnologia"
	DefaultLanguages = "pt"
	DefaultSort      = "published_desc"
	DefaultLimit     = 3

	missingTitle       = "No title provided"
	missingDescription = "No description provided"
	missingURL         = "No URL provided"

	unavailableFormat = "As informações de notícias estão indisponíveis no momento. Error: %v"
)

// Getter is the HTTP surface the fetcher needs.
type Getter interface {
	GetJSON(ctx context.Context, endpoint string, query url.Values, headers map[string]string, out any) error
}

// Article is a single headline. Nil fields were absent or null upstream.
type Article struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	URL         *string `json:"url"`
}

// Query selects which articles are requested.
type Query struct {
	Keywords  string
	Languages string
	Sort      string
	Limit     int
}

// DefaultQuery returns the query the briefing uses out of the box.
func DefaultQuery() Query {
	return Query{
		Keywords:  DefaultKeywords,
		Languages: DefaultLanguages,
		Sort:      DefaultSort,
		Limit:     DefaultLimit,
	}
}

type response struct {
	Data *[]Article `json:"data"`
}

// Fetcher retrieves articles for a fixed query.
type Fetcher struct {
	getter   Getter
	endpoint string
	apiKey   string
	query    Query
	logger   *zap.Logger
}

// NewFetcher builds a Fetcher. An empty endpoint falls back to DefaultEndpoint.
func NewFetcher(getter Getter, endpoint, apiKey string, query Query, logger *zap.Logger) *Fetcher {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		getter:   getter,
		endpoint: endpoint,
		apiKey:   apiKey,
		query:    query,
		logger:   logger,
	}
}

// Fetch returns at most Query.Limit articles.
func (f *Fetcher) Fetch(ctx context.Context) ([]Article, error) {
	params := url.Values{}
	params.Set("access_key", f.apiKey)
	params.Set("keywords", f.query.Keywords)
	params.Set("languages", f.query.Languages)
	params.Set("sort", f.query.Sort)
	params.Set("limit", strconv.Itoa(f.query.Limit))

	var resp response
	if err := f.getter.GetJSON(ctx, f.endpoint, params, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch news: %w", err)
	}
	if resp.Data == nil {
		return nil, ErrMalformedResponse
	}

	articles := *resp.Data
	if f.query.Limit > 0 && len(articles) > f.query.Limit {
		articles = articles[:f.query.Limit]
	}
	return articles, nil
}

// Summary renders the articles, or a placeholder sentence carrying the error
// when they cannot be fetched.
func (f *Fetcher) Summary(ctx context.Context) string {
	articles, err := f.Fetch(ctx)
	if err != nil {
		f.logger.Warn("news unavailable", zap.Error(err))
		return fmt.Sprintf(unavailableFormat, err)
	}
	f.logger.Debug("news fetched", zap.Int("articles", len(articles)))
	return Format(articles)
}

// Format joins the article blocks with a blank line.
func Format(articles []Article) string {
	blocks := make([]string, 0, len(articles))
	for _, a := range articles {
		blocks = append(blocks, fmt.Sprintf("Titulo: %s\nDescrição: %s\nURL: %s",
			valueOr(a.Title, missingTitle),
			valueOr(a.Description, missingDescription),
			valueOr(a.URL, missingURL),
		))
	}
	return strings.Join(blocks, "\n\n")
}

func valueOr(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}
