package main

import (
	"log/slog"
	"time"

	"github.com/fwojciec/parsekit"
	"github.com/fwojciec/parsekit/gofeed"
	"github.com/fwojciec/parsekit/goquery"
	"github.com/fwojciec/parsekit/htmlquery"
	"github.com/fwojciec/parsekit/htmltomarkdown"
	parsekithttp "github.com/fwojciec/parsekit/http"
	"github.com/fwojciec/parsekit/pipeline"
	"github.com/fwojciec/parsekit/ratelimit"
	"github.com/fwojciec/parsekit/readability"
	"github.com/fwojciec/parsekit/reddit"
	pkslog "github.com/fwojciec/parsekit/slog"
	"github.com/fwojciec/parsekit/trafilatura"
)

// Services are the entry points used by the commands.
type Services struct {
	Parse parsekit.ParseService
	Batch parsekit.BatchService
}

// Wire builds the parse and batch services described by cfg.
// Strategies are registered in a fixed order; disabled ones are skipped.
func Wire(cfg *parsekit.Config, logger *slog.Logger) *Services {
	opts := []parsekithttp.Option{
		parsekithttp.WithTimeout(cfg.HTTP.Timeout),
		parsekithttp.WithMaxAttempts(cfg.HTTP.MaxAttempts),
		parsekithttp.WithBackoff(cfg.HTTP.BackoffBaseDelay, cfg.HTTP.BackoffMultiplier),
		parsekithttp.WithRetryableStatuses(cfg.HTTP.RetryableStatuses...),
		parsekithttp.WithUserAgents(cfg.HTTP.UserAgents),
		parsekithttp.WithDefaultHeaders(cfg.HTTP.DefaultHeaders),
		parsekithttp.WithRetryObserver(func(url string, attempt int, delay time.Duration, cause error) {
			logger.Warn("fetch retry", "url", url, "attempt", attempt, "delay", delay, "err", cause)
		}),
	}
	if cfg.HTTP.HostRate > 0 {
		opts = append(opts, parsekithttp.WithHostPacer(ratelimit.NewHostPacer(cfg.HTTP.HostRate, 1)))
	}
	fetcher := pkslog.NewLoggingFetcher(parsekithttp.NewFetcher(opts...), logger)

	toolkit := goquery.NewToolkit(cfg.Extraction)
	xpath := htmlquery.NewSelector()
	sitemaps := pkslog.NewLoggingSitemapService(parsekithttp.NewSitemapService(fetcher), logger)

	feeds := gofeed.NewFeedsParser(fetcher, toolkit)

	single := goquery.NewSinglePageParser(fetcher, toolkit)
	single.Articles = articleExtractor(cfg.Extraction.ArticleExtractor)
	single.XPath = xpath
	single.Converter = htmltomarkdown.NewConverter()

	medium := goquery.NewMediumParser(fetcher, toolkit)
	medium.Feeds = feeds

	multi := goquery.NewMultiParser(fetcher, toolkit, single)
	multi.XPath = xpath
	multi.Sitemaps = sitemaps

	strategies := []struct {
		name   string
		parser parsekit.Parser
	}{
		{"feeds", feeds},
		{"reddit", reddit.NewParser(fetcher)},
		{"single_page", single},
		{"telegram", goquery.NewTelegramParser(fetcher, toolkit)},
		{"medium", medium},
		{"bing", goquery.NewBingParser(fetcher, toolkit)},
		{"multi", multi},
		{"craigslist", goquery.NewCraigslistParser(fetcher, toolkit)},
	}

	registry := pipeline.NewRegistry()
	for _, s := range strategies {
		if cfg.ParserEnabled(s.name) {
			registry.MustRegister(s.name, pkslog.NewLoggingParser(s.name, s.parser, logger))
		}
	}

	p := &pipeline.Pipeline{
		Registry:   registry,
		RateLimits: cfg.RateLimit.Policy(),
	}
	if cfg.RateLimit.Enabled {
		p.RateLimiter = ratelimit.NewWindowLimiter()
	}
	parse := pkslog.NewLoggingService(p, logger)

	batch := &pipeline.Batch{
		Service:     parse,
		Concurrency: cfg.Batch.Concurrency,
		ItemTimeout: cfg.Batch.ItemTimeout,
	}

	return &Services{
		Parse: parse,
		Batch: pkslog.NewLoggingBatchService(batch, logger),
	}
}

// articleExtractor returns the configured main-content extractor, or nil.
func articleExtractor(name string) parsekit.ArticleExtractor {
	switch name {
	case "readability":
		return readability.NewExtractor()
	case "none":
		return nil
	default:
		return trafilatura.NewExtractor()
	}
}
