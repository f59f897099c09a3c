package extractor

import (
	"context"
	"net/url"

	"igfetch/pkg/errors"
	"igfetch/pkg/logger"
)

// Registry holds strategies in fixed specificity order: more specific URL
// shapes before the generic profile strategy. The first match wins; two
// strategies may legitimately match the same URL (a profile's reels tab
// also parses as a profile path), so construction order is the precedence
// rule.
type Registry struct {
	strategies []Strategy
	logger     logger.Logger
}

// NewRegistry builds the standard registry over a client.
func NewRegistry(client Client, opts Options, log logger.Logger) *Registry {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Registry{
		strategies: []Strategy{
			&PostStrategy{client: client, opts: opts},
			&HighlightStrategy{client: client, opts: opts},
			&StoriesStrategy{client: client, opts: opts},
			&CollectionStrategy{client: client, opts: opts},
			&SavedStrategy{client: client, opts: opts},
			&UserReelsStrategy{client: client, opts: opts},
			&UserTaggedStrategy{client: client, opts: opts},
			&ProfileStrategy{client: client, opts: opts},
		},
		logger: log,
	}
}

// NewRegistryWith builds a registry from an explicit ordered strategy list.
func NewRegistryWith(log logger.Logger, strategies ...Strategy) *Registry {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Registry{strategies: strategies, logger: log}
}

// Lookup returns the first strategy matching the URL.
func (r *Registry) Lookup(u *url.URL) (Strategy, error) {
	if !instagramHost(u) {
		return nil, errors.Newf(errors.KindInvalidURL, "not an Instagram URL: %s", u.Host)
	}
	for _, s := range r.strategies {
		if s.Match(u) {
			return s, nil
		}
	}
	return nil, errors.Newf(errors.KindNoMatchingStrategy, "no extractor matches %s", u.Path)
}

// Extract parses rawURL, selects a strategy and opens its sequence. No
// match is an explicit error, never a silent empty result.
func (r *Registry) Extract(ctx context.Context, rawURL string) (*Stream, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil, errors.Newf(errors.KindInvalidURL, "cannot parse URL %q", rawURL)
	}

	strategy, err := r.Lookup(u)
	if err != nil {
		return nil, err
	}

	r.logger.DebugWithFields("strategy selected", map[string]interface{}{
		"strategy": strategy.Name(),
		"url":      rawURL,
	})
	return strategy.Extract(ctx, u)
}
