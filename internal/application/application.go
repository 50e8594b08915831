package application

import (
	"context"

	"go.uber.org/zap"

	"github.com/eugenenazirov/morning-briefing/internal/briefing"
	"github.com/eugenenazirov/morning-briefing/internal/config"
	"github.com/eugenenazirov/morning-briefing/internal/httpclient"
	"github.com/eugenenazirov/morning-briefing/internal/mailer"
	"github.com/eugenenazirov/morning-briefing/internal/news"
	"github.com/eugenenazirov/morning-briefing/internal/tasks"
	"github.com/eugenenazirov/morning-briefing/internal/weather"
)

// Summarizer renders one briefing section, degrading to a placeholder on failure.
type Summarizer interface {
	Summary(ctx context.Context) string
}

// Deliverer sends a message and reports the outcome as a sentence.
type Deliverer interface {
	Deliver(ctx context.Context, msg mailer.Message) string
}

// App encapsulates the briefing dependencies.
type App struct {
	news    Summarizer
	weather Summarizer
	tasks   Summarizer
	mailer  Deliverer
	logger  *zap.Logger

	includeTasks bool
	sender       string
	subject      string
}

// Option configures App construction.
type Option func(*options)

type options struct {
	httpOpts   []httpclient.Option
	mailerOpts []mailer.Option
}

// WithHTTPOptions forwards options to the shared HTTP client.
func WithHTTPOptions(opts ...httpclient.Option) Option {
	return func(o *options) {
		o.httpOpts = append(o.httpOpts, opts...)
	}
}

// WithMailerOptions forwards options to the mailer.
func WithMailerOptions(opts ...mailer.Option) Option {
	return func(o *options) {
		o.mailerOpts = append(o.mailerOpts, opts...)
	}
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger, opts ...Option) *App {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	httpOpts := append([]httpclient.Option{
		httpclient.WithLimiter(httpclient.NewTokenBucketLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)),
	}, o.httpOpts...)
	client := httpclient.New(cfg.RequestTimeout, httpOpts...)

	query := news.Query{
		Keywords:  cfg.NewsKeywords,
		Languages: cfg.NewsLanguages,
		Sort:      cfg.NewsSort,
		Limit:     cfg.NewsLimit,
	}

	return &App{
		news:    news.NewFetcher(client, cfg.NewsEndpoint, cfg.Secrets.NewsAPIKey, query, logger.Named("news")),
		weather: weather.NewFetcher(client, cfg.WeatherEndpoint, cfg.Secrets.WeatherAPIKey, cfg.City, cfg.Country, logger.Named("weather")),
		tasks:   tasks.NewFetcher(client, cfg.TasksEndpoint, cfg.Secrets.TodoistAPIKey, logger.Named("tasks")),
		mailer: mailer.New(mailer.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Password: cfg.Secrets.EmailPassword,
			Timeout:  cfg.RequestTimeout,
		}, logger.Named("mailer"), o.mailerOpts...),
		logger:       logger,
		includeTasks: cfg.IncludeTasks,
		sender:       cfg.Secrets.EmailSender,
		subject:      cfg.Subject,
	}
}

// Compose fetches every section in order and returns the email body.
func (a *App) Compose(ctx context.Context) string {
	sections := briefing.Sections{
		News:         a.news.Summary(ctx),
		Weather:      a.weather.Summary(ctx),
		IncludeTasks: a.includeTasks,
	}
	if a.includeTasks {
		sections.Tasks = a.tasks.Summary(ctx)
	}
	return sections.Body()
}

// Run composes the briefing and mails it to the sender's own address.
// The returned sentence reports whether delivery succeeded.
func (a *App) Run(ctx context.Context) string {
	body := a.Compose(ctx)

	a.logger.Info("sending briefing", zap.Bool("include_tasks", a.includeTasks))
	return a.mailer.Deliver(ctx, mailer.Message{
		From:    a.sender,
		To:      a.sender,
		Subject: a.subject,
		Body:    body,
	})
}

// Preview composes the briefing without sending it.
func (a *App) Preview(ctx context.Context) string {
	return a.Compose(ctx)
}
