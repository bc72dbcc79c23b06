package service

import (
	"context"
	"errors"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/nikhil-rg/salespipe/internal/domain/entity"
	domainservice "github.com/nikhil-rg/salespipe/internal/domain/service"
	"github.com/nikhil-rg/salespipe/internal/infrastructure/cache"
	"github.com/nikhil-rg/salespipe/internal/infrastructure/logger"
)

// EnrichmentService joins filtered transactions against the external
// catalog. Each distinct product key is fetched at most once per run;
// per-key failures degrade that key's transactions instead of aborting.
type EnrichmentService struct {
	api           domainservice.CatalogAPI
	maxConcurrent int
	log           logger.Logger
}

// NewEnrichmentService creates an enrichment service fanning out at most
// maxConcurrent catalog calls at a time.
func NewEnrichmentService(api domainservice.CatalogAPI, maxConcurrent int, log logger.Logger) *EnrichmentService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &EnrichmentService{
		api:           api,
		maxConcurrent: maxConcurrent,
		log:           log,
	}
}

// Enrich resolves the distinct catalog keys referenced by txns and merges
// the results into one EnrichedTransaction per input, in input order.
// The run completes even when the catalog is entirely unreachable; the
// stats then report zero successful enrichments.
func (s *EnrichmentService) Enrich(ctx context.Context, txns []entity.Transaction) ([]entity.EnrichedTransaction, entity.EnrichmentStats) {
	// The cache lives exactly as long as one run.
	catalogCache := cache.NewCatalogCache()

	keys := distinctKeys(txns)
	s.resolveKeys(ctx, keys, catalogCache)

	stats := entity.EnrichmentStats{
		DistinctKeys: len(keys),
		ResolvedKeys: catalogCache.Resolved(),
	}
	stats.UnresolvedKeys = stats.DistinctKeys - stats.ResolvedKeys

	enriched := make([]entity.EnrichedTransaction, 0, len(txns))
	unmatchedIDs := make(map[string]struct{})

	for _, tx := range txns {
		e := entity.EnrichedTransaction{Transaction: tx}
		if entry, ok := catalogCache.Get(entity.CatalogKey(tx.ProductID)); ok && entry != nil {
			e.Catalog = entry
			stats.Matched++
		} else {
			stats.Unmatched++
			unmatchedIDs[tx.ProductID] = struct{}{}
		}
		enriched = append(enriched, e)
	}

	for id := range unmatchedIDs {
		stats.UnmatchedIDs = append(stats.UnmatchedIDs, id)
	}
	sort.Strings(stats.UnmatchedIDs)

	s.log.Info("enrichment complete", map[string]interface{}{
		"distinct_keys": stats.DistinctKeys,
		"resolved":      stats.ResolvedKeys,
		"matched":       stats.Matched,
		"unmatched":     stats.Unmatched,
	})
	return enriched, stats
}

// resolveKeys fetches every key with bounded concurrency. Completion
// order does not matter: results land in the cache keyed by product key,
// and the merge step reads the cache only after Wait returns.
func (s *EnrichmentService) resolveKeys(ctx context.Context, keys []string, catalogCache *cache.CatalogCache) {
	var g errgroup.Group
	g.SetLimit(s.maxConcurrent)

	for _, key := range keys {
		key := key
		g.Go(func() error {
			entry, err := s.api.FetchProduct(ctx, key)
			if err != nil {
				catalogCache.PutUnresolved(key)
				fields := map[string]interface{}{"key": key, "error": err.Error()}
				if errors.Is(err, entity.ErrProductNotFound) {
					s.log.Debug("product not in catalog", fields)
				} else {
					s.log.Warn("catalog lookup failed", fields)
				}
				return nil
			}
			catalogCache.Put(entry)
			return nil
		})
	}

	// Goroutines never return errors; Wait only synchronizes.
	_ = g.Wait()
}

// distinctKeys returns the sorted set of catalog keys referenced by txns.
func distinctKeys(txns []entity.Transaction) []string {
	seen := make(map[string]struct{})
	for _, tx := range txns {
		key := entity.CatalogKey(tx.ProductID)
		if key == "" {
			continue
		}
		seen[key] = struct{}{}
	}

	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
