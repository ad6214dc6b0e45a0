// Package resolver is the facade over the three recipe sources: the
// local store, the paid catalog and the generation pipeline.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/forkful/backend/internal/dedupe"
	"github.com/forkful/backend/internal/filter"
	"github.com/forkful/backend/internal/models"
	"github.com/forkful/backend/internal/pool"
	"github.com/forkful/backend/internal/recipeid"
	"github.com/forkful/backend/internal/seed"
	"github.com/forkful/backend/internal/store"
)

// systemOwner marks recipes the resolver persisted on behalf of the
// system rather than a user.
const systemOwner = "system:resolver"

// seedBatchSize bounds how many seed records one search will generate
// candidates from.
const seedBatchSize = 5

// seedFetchDelay spaces out consecutive calls to the free seed source
// during bulk generation.
const seedFetchDelay = 200 * time.Millisecond

// Resolver implements the two public operations of the resolution
// subsystem, ResolveByID and Search.
type Resolver struct {
	store     *store.Store
	pool      *pool.Manager
	catalog   CatalogSource
	seeds     SeedSource
	generator Generator
	logger    *zap.Logger
	seedDelay time.Duration
}

// New creates a Resolver.
func New(s *store.Store, p *pool.Manager, c CatalogSource, seeds SeedSource, g Generator, logger *zap.Logger) *Resolver {
	return &Resolver{
		store:     s,
		pool:      p,
		catalog:   c,
		seeds:     seeds,
		generator: g,
		logger:    logger,
		seedDelay: seedFetchDelay,
	}
}

// ResolveByID routes an identifier to the single source that owns it.
// Local misses are terminal; catalog and generated misses trigger an
// on-demand fetch-and-persist.
func (r *Resolver) ResolveByID(ctx context.Context, id string) (*models.Recipe, error) {
	prov, key := recipeid.Decode(id)
	switch prov {
	case models.ProvenanceCatalog:
		return r.resolveCatalog(ctx, key)
	case models.ProvenanceGenerated:
		return r.resolveGenerated(ctx, id, key)
	default:
		return r.store.GetByID(ctx, id)
	}
}

// resolveCatalog consults the mapping table before touching the paid
// API so a catalog id is imported at most once.
func (r *Resolver) resolveCatalog(ctx context.Context, externalID string) (*models.Recipe, error) {
	internalID, err := r.store.FindMappingByExternalID(ctx, externalID)
	if err == nil {
		return r.store.GetByID(ctx, internalID)
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	recipe, err := r.catalog.FetchByID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	recipe.OwnerRef = systemOwner

	if err := r.store.Insert(ctx, recipe); err != nil {
		return nil, err
	}
	if err := r.store.RecordMapping(ctx, recipe.ID, externalID); err != nil {
		return nil, err
	}
	r.logger.Info("imported catalog recipe",
		zap.String("external_id", externalID), zap.String("id", recipe.ID))
	return recipe, nil
}

// resolveGenerated returns the persisted entry when one exists,
// otherwise generates from the seed and admits the result into the
// bounded pool.
func (r *Resolver) resolveGenerated(ctx context.Context, id, key string) (*models.Recipe, error) {
	recipe, err := r.store.GetByID(ctx, id)
	if err == nil {
		return recipe, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	record, err := r.fetchSeed(ctx, recipeid.SeedID(key))
	if err != nil {
		return nil, err
	}

	candidate := r.generator.FromSeed(ctx, record)
	candidate.ID = id
	candidate.OwnerRef = systemOwner
	return r.pool.Admit(ctx, &candidate)
}

// fetchSeed looks up a seed record with a single bounded retry; a
// missing record is permanent and not retried.
func (r *Resolver) fetchSeed(ctx context.Context, seedID string) (*seed.Record, error) {
	var record *seed.Record
	op := func() error {
		rec, err := r.seeds.LookupByID(ctx, seedID)
		if err != nil {
			if errors.Is(err, seed.ErrNotFound) {
				return backoff.Permanent(err)
			}
			return err
		}
		record = rec
		return nil
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(r.seedDelay), 1), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return record, nil
}

// Generate runs freeform generation for a user prompt and admits the
// result into the bounded pool. Malformed model output surfaces as
// generate.ErrGenerationInvalid and is not retried.
func (r *Resolver) Generate(ctx context.Context, prompt string) (*models.Recipe, error) {
	recipe, err := r.generator.Freeform(ctx, prompt)
	if err != nil {
		return nil, err
	}
	recipe.OwnerRef = systemOwner
	return r.pool.Admit(ctx, recipe)
}

// Search fans out to all three sources in parallel, merges and
// deduplicates the results, reconciles fresh generated candidates
// against the bounded pool and applies the filters. A failing catalog or
// seed branch contributes nothing rather than failing the search; only a
// local store outage is fatal.
func (r *Resolver) Search(ctx context.Context, query string, f filter.Filters) ([]models.Recipe, error) {
	var (
		wg         sync.WaitGroup
		localRes   []models.Recipe
		localErr   error
		catalogRes []models.Recipe
		candidates []models.Recipe
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		localRes, localErr = r.store.SearchByText(ctx, query)
	}()
	go func() {
		defer wg.Done()
		results, err := r.catalog.SearchByText(ctx, query, f)
		if err != nil {
			r.logger.Warn("catalog contributed nothing to search",
				zap.String("query", query), zap.Error(err))
			return
		}
		catalogRes = results
	}()
	go func() {
		defer wg.Done()
		candidates = r.generateCandidates(ctx, query)
	}()
	wg.Wait()

	if localErr != nil {
		return nil, fmt.Errorf("local search failed: %w", localErr)
	}

	merged := make([]models.Recipe, 0, len(localRes)+len(catalogRes)+len(candidates))
	merged = append(merged, localRes...)
	merged = append(merged, catalogRes...)
	merged = append(merged, candidates...)
	merged = dedupe.Recipes(merged)

	merged, err := r.reconcileCandidates(ctx, merged, candidateIDs(candidates))
	if err != nil {
		return nil, err
	}

	return capGenerated(f.Apply(merged), r.pool.Capacity()), nil
}

// generateCandidates samples seed records matching the query and runs
// seed-based generation on a bounded batch. Failures degrade to an
// empty contribution.
func (r *Resolver) generateCandidates(ctx context.Context, query string) []models.Recipe {
	records, err := r.seeds.SearchByName(ctx, query)
	if err != nil {
		r.logger.Warn("seed source contributed nothing to search",
			zap.String("query", query), zap.Error(err))
		return nil
	}
	if len(records) == 0 && query == "" {
		if record, err := r.seeds.Random(ctx); err == nil {
			records = []seed.Record{*record}
		}
	}
	if len(records) > seedBatchSize {
		records = records[:seedBatchSize]
	}

	out := make([]models.Recipe, 0, len(records))
	for i := range records {
		if i > 0 && r.seedDelay > 0 {
			// Space out bulk generation against the free source.
			time.Sleep(r.seedDelay)
		}
		candidate := r.generator.FromSeed(ctx, &records[i])
		candidate.OwnerRef = systemOwner
		out = append(out, candidate)
	}
	return out
}

// reconcileCandidates admits freshly generated candidates that are not
// yet in the pool, one at a time in production order, bounded by the
// room left in the pool. Candidates whose title already lives in the
// pool are dropped; the persisted entry represents them. Candidates
// that find no room stay in the result set unpersisted, resolvable
// later through their seed-bearing id.
func (r *Resolver) reconcileCandidates(ctx context.Context, merged []models.Recipe, fresh map[string]struct{}) ([]models.Recipe, error) {
	room, err := r.pool.Remaining(ctx)
	if err != nil {
		return nil, err
	}
	poolTitles, err := r.pool.Titles(ctx)
	if err != nil {
		return nil, err
	}

	out := merged[:0]
	for _, rec := range merged {
		if _, isFresh := fresh[rec.ID]; !isFresh || rec.Provenance != models.ProvenanceGenerated {
			out = append(out, rec)
			continue
		}

		if _, shadowed := poolTitles[dedupe.Key(rec.Title)]; shadowed {
			continue
		}
		if room <= 0 {
			out = append(out, rec)
			continue
		}

		// Suffix the id so repeat searches for the same seed never
		// collide with an earlier admission.
		prov, key := recipeid.Decode(rec.ID)
		rec.ID = recipeid.Encode(prov, key+"-"+uuid.New().String()[:6])

		admitted, err := r.pool.Admit(ctx, &rec)
		if err != nil {
			if errors.Is(err, pool.ErrDuplicateTitle) {
				continue
			}
			return nil, err
		}
		room--
		poolTitles[dedupe.Key(admitted.Title)] = struct{}{}
		out = append(out, *admitted)
	}
	return out, nil
}

func candidateIDs(candidates []models.Recipe) map[string]struct{} {
	ids := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		ids[c.ID] = struct{}{}
	}
	return ids
}

// capGenerated limits the generated slice of a result set to the pool
// capacity while leaving other provenances untouched.
func capGenerated(in []models.Recipe, capacity int) []models.Recipe {
	generated := 0
	out := make([]models.Recipe, 0, len(in))
	for _, r := range in {
		if r.Provenance == models.ProvenanceGenerated {
			if generated >= capacity {
				continue
			}
			generated++
		}
		out = append(out, r)
	}
	return out
}
