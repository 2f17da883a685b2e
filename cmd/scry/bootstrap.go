package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/scrylabs/scry/internal/analysis"
	"github.com/scrylabs/scry/internal/collector"
	"github.com/scrylabs/scry/internal/collector/finnhub"
	"github.com/scrylabs/scry/internal/collector/marketstack"
	"github.com/scrylabs/scry/internal/collector/twelvedata"
	"github.com/scrylabs/scry/internal/config"
	"github.com/scrylabs/scry/internal/llm/factory"
	"github.com/scrylabs/scry/internal/metrics"
	"github.com/scrylabs/scry/internal/narrative"
	"github.com/scrylabs/scry/internal/service"
	"github.com/scrylabs/scry/internal/storage/result"
)

// loadConfig reads the file named by --config, falling back to the
// built-in defaults, and validates the result.
func loadConfig(log *zap.Logger) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
		log.Warn("no config file specified, using defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// buildAnalyzer assembles the application stack from config: the
// provider registry, the LLM narrator and the result cache. The
// returned metrics registry is nil when metrics are disabled.
func buildAnalyzer(cfg *config.Config, log *zap.Logger) (*service.Analyzer, *metrics.Registry, error) {
	var metricsReg *metrics.Registry
	if cfg.Metrics.Enabled {
		metricsReg = metrics.NewRegistry()
	}

	collectors, err := buildCollectors(cfg, metricsReg, log)
	if err != nil {
		return nil, nil, err
	}

	var narrator *narrative.Generator
	if cfg.LLM.Provider != "" {
		provider, err := factory.New(cfg.LLM)
		if err != nil {
			return nil, nil, fmt.Errorf("creating LLM provider: %w", err)
		}
		narrator = narrative.NewGenerator(provider, narrative.Config{
			Timeout:     cfg.Narrative.Timeout,
			MaxTokens:   cfg.Narrative.MaxTokens,
			Temperature: cfg.Narrative.Temperature,
		}, log)
		log.Info("LLM narrator enabled", zap.String("provider", cfg.LLM.Provider))
	}

	var cache *result.Store
	if cfg.Cache.TTL > 0 {
		cache = result.New(cfg.Cache.TTL, cfg.Cache.Capacity)
	}

	analyzer := service.NewAnalyzer(service.Config{
		Registry:    collectors,
		Narrator:    narrator,
		BlendPolicy: analysis.PolicyFromConfig(cfg.Blend.Penalty, cfg.Blend.Grading),
		Cache:       cache,
		Metrics:     metricsReg,
		DefaultDays: cfg.Market.HistoryDays,
	}, log)

	return analyzer, metricsReg, nil
}

// buildCollectors registers the enabled vendors. Registration order
// follows market.provider_order, which is both the quote tie-break
// rank and the history fallback priority.
func buildCollectors(cfg *config.Config, metricsReg *metrics.Registry, log *zap.Logger) (*collector.Registry, error) {
	reg := collector.NewRegistry()
	registered := 0

	for _, name := range cfg.Market.ProviderOrder {
		pcfg, ok := cfg.Providers[name]
		if !ok || !pcfg.Enabled {
			log.Debug("provider not enabled", zap.String("provider", name))
			continue
		}
		if pcfg.APIKey == "" {
			log.Warn("provider enabled without api key, skipping", zap.String("provider", name))
			continue
		}

		switch name {
		case "finnhub":
			var c *finnhub.Finnhub
			if pcfg.BaseURL != "" {
				c = finnhub.NewWithBaseURL(pcfg.APIKey, pcfg.BaseURL)
			} else {
				c = finnhub.New(pcfg.APIKey)
			}
			reg.RegisterQuote(instrumentQuote(c, metricsReg))
			reg.RegisterProfile(instrumentProfile(c, metricsReg))
		case "twelvedata":
			var c *twelvedata.TwelveData
			if pcfg.BaseURL != "" {
				c = twelvedata.NewWithBaseURL(pcfg.APIKey, pcfg.BaseURL)
			} else {
				c = twelvedata.New(pcfg.APIKey)
			}
			reg.RegisterQuote(instrumentQuote(c, metricsReg))
			reg.RegisterHistory(instrumentHistory(c, metricsReg))
			reg.RegisterIndicators(instrumentIndicators(c, metricsReg))
		case "marketstack":
			var c *marketstack.Marketstack
			if pcfg.BaseURL != "" {
				c = marketstack.NewWithBaseURL(pcfg.APIKey, pcfg.BaseURL)
			} else {
				c = marketstack.New(pcfg.APIKey)
			}
			reg.RegisterQuote(instrumentQuote(c, metricsReg))
			reg.RegisterHistory(instrumentHistory(c, metricsReg))
		default:
			return nil, fmt.Errorf("unknown provider in provider_order: %s", name)
		}

		registered++
		log.Info("provider registered", zap.String("provider", name))
	}

	if registered == 0 {
		log.Warn("no market data providers enabled; analyses will return NO_DATA")
	}

	return reg, nil
}

func instrumentQuote(p collector.QuoteProvider, reg *metrics.Registry) collector.QuoteProvider {
	if reg == nil {
		return p
	}
	return metrics.InstrumentQuote(p, reg)
}

func instrumentHistory(p collector.HistoryProvider, reg *metrics.Registry) collector.HistoryProvider {
	if reg == nil {
		return p
	}
	return metrics.InstrumentHistory(p, reg)
}

func instrumentProfile(p collector.ProfileProvider, reg *metrics.Registry) collector.ProfileProvider {
	if reg == nil {
		return p
	}
	return metrics.InstrumentProfile(p, reg)
}

func instrumentIndicators(s collector.IndicatorSource, reg *metrics.Registry) collector.IndicatorSource {
	if reg == nil {
		return s
	}
	return metrics.InstrumentIndicators(s, reg)
}
