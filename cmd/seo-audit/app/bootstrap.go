package app

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"google.golang.org/api/option"

	"seoaudit/internal/analytics"
	"seoaudit/internal/config"
	"seoaudit/internal/leads"
	"seoaudit/internal/limiter"
	"seoaudit/internal/recommend"
)

// Bootstrap constructs the collaborators described by cfg. The returned func releases them.
// Analytics providers exist only with a credentials file and the lead store only with a DSN.
func Bootstrap(ctx context.Context, cfg config.Config, logger *zap.Logger) (Env, func(), error) {
	env := Env{
		HTTPClient: &http.Client{},
		Clock:      limiter.NewClock(),
		Config:     cfg,
		Logger:     logger,
		Leads:      leads.Nop{},
	}
	closers := []func(){}
	closeAll := func() {
		for _, closeFn := range closers {
			closeFn()
		}
		closers = nil
	}

	if cfg.GoogleCredentialsFile != "" {
		credentials := option.WithCredentialsFile(cfg.GoogleCredentialsFile)

		search, err := analytics.NewSearchConsole(ctx, credentials)
		if err != nil {
			return Env{}, closeAll, err
		}

		traffic, err := analytics.NewGA4(ctx, credentials)
		if err != nil {
			return Env{}, closeAll, err
		}

		env.Search = search
		env.Traffic = traffic
	}

	if cfg.LeadsDSN != "" {
		store, err := leads.Open(ctx, cfg.LeadsDSN)
		if err != nil {
			return Env{}, closeAll, err
		}
		closers = append(closers, func() { _ = store.Close() })

		if err := store.EnsureSchema(ctx); err != nil {
			closeAll()
			return Env{}, func() {}, fmt.Errorf("prepare lead store: %w", err)
		}

		env.Leads = store
	}

	env.Generator = recommend.New(nil, recommend.Config{
		APIKey:    cfg.AnthropicAPIKey,
		Model:     cfg.AnthropicModel,
		MaxTokens: cfg.AnthropicMaxTokens,
		BaseURL:   cfg.AnthropicBaseURL,
	}, logger)

	return env, closeAll, nil
}
