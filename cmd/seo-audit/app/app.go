package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/urfave/cli"
	"go.uber.org/zap"

	"seoaudit/audit"
	"seoaudit/internal/analytics"
	"seoaudit/internal/config"
	"seoaudit/internal/leads"
	"seoaudit/internal/limiter"
	"seoaudit/internal/pipeline"
	"seoaudit/internal/recommend"
	"seoaudit/internal/render"
	"seoaudit/internal/server"
)

// Env is everything a command needs besides its flags.
type Env struct {
	HTTPClient *http.Client
	Clock      limiter.Timer
	Config     config.Config
	Logger     *zap.Logger
	Search     analytics.SearchProvider
	Traffic    analytics.TrafficProvider
	Generator  recommend.Generator
	Leads      leads.Recorder
}

// UserError carries the message shown for a failed audit; Err keeps the cause.
type UserError struct {
	Err error
}

func (e *UserError) Error() string { return audit.UserMessage(e.Err) }

func (e *UserError) Unwrap() error { return e.Err }

// Run executes the CLI. The report goes to stdout in the chosen format.
// If URL is missing, it prints help and returns nil.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer, env Env) error {
	if env.Logger == nil {
		env.Logger = zap.NewNop()
	}
	if env.Clock == nil {
		env.Clock = limiter.NewClock()
	}

	app := cli.NewApp()
	app.Name = "seo-audit"
	app.Usage = "audit the on-page SEO of a website"
	app.UsageText = "seo-audit [global options] <url>\n   seo-audit serve [--addr :8082]"
	app.Writer = stdout
	app.ErrWriter = stderr
	app.Flags = auditFlags(env.Config)
	app.Action = func(c *cli.Context) error {
		rawURL := strings.TrimSpace(c.Args().First())
		if rawURL == "" {
			_ = cli.ShowAppHelp(c)

			return nil
		}

		return runAudit(ctx, c, rawURL, stdout, env)
	}
	app.Commands = []cli.Command{
		{
			Name:  "serve",
			Usage: "serve audits over HTTP",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "addr",
					Usage: "listen address",
					Value: env.Config.ServerAddr,
				},
			},
			Action: func(c *cli.Context) error {
				return serve(ctx, c.String("addr"), env)
			},
		},
	}

	return app.Run(args)
}

func auditFlags(cfg config.Config) []cli.Flag {
	return []cli.Flag{
		cli.DurationFlag{
			Name:  "timeout",
			Usage: "per-page timeout",
			Value: orDefault(cfg.PageTimeout, audit.DefaultPageTimeout),
		},
		cli.DurationFlag{
			Name:  "check-timeout",
			Usage: "timeout for the robots.txt and sitemap.xml probes",
			Value: orDefault(cfg.CheckTimeout, audit.DefaultCheckTimeout),
		},
		cli.StringFlag{
			Name:  "user-agent",
			Usage: "custom user agent",
			Value: cfg.UserAgent,
		},
		cli.DurationFlag{
			Name:  "delay",
			Usage: "delay between page requests (example: 200ms, 1s)",
		},
		cli.StringFlag{
			Name:  "gsc-site",
			Usage: "Search Console property (https://example.com/ or sc-domain:example.com)",
		},
		cli.StringFlag{
			Name:  "ga4-property",
			Usage: "GA4 property id",
		},
		cli.StringFlag{Name: "name", Usage: "requester name"},
		cli.StringFlag{Name: "email", Usage: "requester email"},
		cli.StringFlag{Name: "company", Usage: "requester company"},
		cli.StringFlag{
			Name:  "format",
			Usage: "output format: json, text or table",
			Value: string(render.FormatJSON),
		},
		cli.StringFlag{
			Name:  "html-report",
			Usage: "also write a standalone HTML report to this path",
		},
		cli.BoolFlag{
			Name:  "no-recommendations",
			Usage: "skip the AI recommendations",
		},
	}
}

func runAudit(ctx context.Context, c *cli.Context, rawURL string, stdout io.Writer, env Env) error {
	format, err := render.ParseFormat(c.String("format"))
	if err != nil {
		return err
	}

	p := pipeline.New(baseOptions(env, c), env.Generator, env.Leads, env.Logger)

	outcome, err := p.Run(ctx, pipeline.Request{
		URL:             rawURL,
		Name:            c.String("name"),
		Email:           c.String("email"),
		Company:         c.String("company"),
		SearchSite:      c.String("gsc-site"),
		TrafficProperty: c.String("ga4-property"),
		Recommendations: !c.Bool("no-recommendations"),
	})
	if err != nil {
		return &UserError{Err: err}
	}

	if path := c.String("html-report"); path != "" {
		if err := writeHTMLReport(path, outcome, preparedFor(c.String("name"), c.String("company"))); err != nil {
			return err
		}
	}

	return render.Write(stdout, format, outcome)
}

func baseOptions(env Env, c *cli.Context) audit.Options {
	return audit.Options{
		UserAgent:     c.String("user-agent"),
		PageTimeout:   c.Duration("timeout"),
		CheckTimeout:  c.Duration("check-timeout"),
		Delay:         c.Duration("delay"),
		HTTPClient:    env.HTTPClient,
		Clock:         env.Clock,
		Search:        env.Search,
		Traffic:       env.Traffic,
		AnalyticsDays: env.Config.AnalyticsDays,
	}
}

func serve(ctx context.Context, addr string, env Env) error {
	base := audit.Options{
		UserAgent:     env.Config.UserAgent,
		PageTimeout:   env.Config.PageTimeout,
		CheckTimeout:  env.Config.CheckTimeout,
		HTTPClient:    env.HTTPClient,
		Clock:         env.Clock,
		Search:        env.Search,
		Traffic:       env.Traffic,
		AnalyticsDays: env.Config.AnalyticsDays,
	}

	p := pipeline.New(base, env.Generator, env.Leads, env.Logger, pipeline.WithResultCache(env.Config.CacheTTL))

	srv := server.New(p, server.Config{
		RateLimitRPS:   env.Config.RateLimitRPS,
		RateLimitBurst: env.Config.RateLimitBurst,
		Clock:          env.Clock,
	}, env.Logger)

	return srv.ListenAndServe(ctx, addr)
}

func writeHTMLReport(path string, outcome *pipeline.Outcome, preparedFor string) error {
	var buf bytes.Buffer
	if err := render.HTML(&buf, outcome, preparedFor); err != nil {
		return err
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write html report: %w", err)
	}

	return nil
}

func preparedFor(name, company string) string {
	name, company = strings.TrimSpace(name), strings.TrimSpace(company)

	switch {
	case name != "" && company != "":
		return name + ", " + company
	case name != "":
		return name
	default:
		return company
	}
}

func orDefault[T comparable](value, fallback T) T {
	var zero T
	if value == zero {
		return fallback
	}

	return value
}
