package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vestige-bot/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ErrTickerNotFound means no search candidate matched the symbol exactly.
var ErrTickerNotFound = errors.New("ticker not found")

type AssetSearcher interface {
	SearchAssets(ctx context.Context, query string) ([]domain.Asset, error)
}

// Resolver turns a free-text ticker into a canonical asset.
type Resolver struct {
	tracer trace.Tracer
	search AssetSearcher
}

func NewResolver(tracer trace.Tracer, search AssetSearcher) *Resolver {
	return &Resolver{tracer: tracer, search: search}
}

// Resolve searches upstream for symbol and returns the most prominent exact
// match. "abc" matches tickers "ABC" and "$abc" but never "abcd".
func (r *Resolver) Resolve(ctx context.Context, symbol string) (*domain.Asset, error) {
	ctx, span := r.tracer.Start(ctx, "resolver.resolve")
	defer span.End()

	query := strings.ToLower(strings.TrimSpace(symbol))
	span.SetAttributes(attribute.String("symbol", query))

	candidates, err := r.search.SearchAssets(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	return pickExactMatch(query, candidates)
}

func pickExactMatch(query string, candidates []domain.Asset) (*domain.Asset, error) {
	cashtag := "$" + query

	var best *domain.Asset
	for i := range candidates {
		ticker := strings.ToLower(strings.TrimSpace(candidates[i].Ticker))
		if ticker != query && ticker != cashtag {
			continue
		}
		if best == nil || candidates[i].Rank < best.Rank {
			best = &candidates[i]
		}
	}
	if best == nil {
		return nil, ErrTickerNotFound
	}
	out := *best
	return &out, nil
}
