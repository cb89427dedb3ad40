package classifier

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	lru "github.com/hashicorp/golang-lru"

	"github.com/okian/birdhunt/internal/domain/catalog"
	"github.com/okian/birdhunt/internal/domain/types"
	"github.com/okian/birdhunt/pkg/logger"
	"github.com/okian/birdhunt/pkg/metrics"
)

const (
	defaultTimeout   = 8 * time.Second
	defaultRetries   = 2
	defaultCacheSize = 512
	initialInterval  = 200 * time.Millisecond
)

// SuggesterOption configures a Suggester.
type SuggesterOption func(*Suggester)

// WithTimeout bounds each Suggest call, retries included.
func WithTimeout(d time.Duration) SuggesterOption {
	return func(s *Suggester) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithRetries sets how many times a failed classifier call is retried.
func WithRetries(n int) SuggesterOption {
	return func(s *Suggester) {
		if n >= 0 {
			s.retries = n
		}
	}
}

// WithCacheSize sets the number of memoised descriptions. Zero disables it.
func WithCacheSize(n int) SuggesterOption {
	return func(s *Suggester) {
		if n >= 0 {
			s.cacheSize = n
		}
	}
}

// WithSuggesterLogger sets the logger.
func WithSuggesterLogger(l logger.Logger) SuggesterOption {
	return func(s *Suggester) {
		if l != nil {
			s.log = l
		}
	}
}

// Suggester wraps a Classifier with a deadline, bounded retries, the domain
// post-filter and a memo of refined results. It never fails: any problem
// reads as "no suggestions".
type Suggester struct {
	cl        Classifier
	cat       *catalog.Catalog
	timeout   time.Duration
	retries   int
	cacheSize int
	cache     *lru.Cache
	log       logger.Logger
}

// NewSuggester creates a Suggester over cl and cat.
func NewSuggester(cl Classifier, cat *catalog.Catalog, opts ...SuggesterOption) (*Suggester, error) {
	s := &Suggester{
		cl:        cl,
		cat:       cat,
		timeout:   defaultTimeout,
		retries:   defaultRetries,
		cacheSize: defaultCacheSize,
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cacheSize > 0 {
		c, err := lru.New(s.cacheSize)
		if err != nil {
			return nil, err
		}
		s.cache = c
	}
	return s, nil
}

// Suggest returns up to MaxCandidates catalog species for description, or
// nil when there is nothing to suggest.
func (s *Suggester) Suggest(ctx context.Context, description string) []types.Suggestion {
	key := cacheKey(description)
	if key == "" {
		return nil
	}
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			metrics.RecordClassifierCache(true)
			return v.([]types.Suggestion)
		}
		metrics.RecordClassifierCache(false)
	}

	raw, err := s.classify(ctx, description)
	if err != nil {
		s.log.Warn(ctx, "classifier failed, no suggestions", logger.Error(err))
		metrics.RecordClassifierError(reason(err))
		return nil
	}

	refined := Refine(description, raw, s.cat)
	if len(refined) == 0 {
		s.log.Info(ctx, "classifier returned no catalog species", logger.Int("raw", len(raw)))
		metrics.RecordClassifierEmpty()
		return nil
	}

	out := s.enrich(ctx, refined)
	if s.cache != nil {
		s.cache.Add(key, out)
	}
	return out
}

func (s *Suggester) classify(ctx context.Context, description string) ([]Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var raw []Candidate
	op := func() error {
		start := time.Now()
		out, err := s.cl.Classify(ctx, description)
		metrics.RecordClassifierLatency(float64(time.Since(start).Milliseconds()))
		if err != nil {
			if errors.Is(err, ErrMalformed) || errors.Is(err, ErrEmpty) {
				return backoff.Permanent(err)
			}
			return err
		}
		raw = out
		return nil
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = initialInterval
	b := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(s.retries)), ctx)
	if err := backoff.Retry(op, b); err != nil {
		return nil, err
	}
	return raw, nil
}

func (s *Suggester) enrich(ctx context.Context, cands []Candidate) []types.Suggestion {
	out := make([]types.Suggestion, 0, len(cands))
	for _, c := range cands {
		sp, _ := s.cat.Lookup(c.Species)
		out = append(out, types.Suggestion{
			Bird:        c.Species,
			Confidence:  c.Confidence,
			Points:      s.cat.PointsFor(ctx, c.Species),
			Tier:        string(sp.Tier),
			Description: sp.Description,
			ImageURL:    catalog.ImageURL(c.Species),
		})
	}
	return out
}

func cacheKey(description string) string {
	return strings.ToLower(strings.Join(strings.Fields(description), " "))
}

func reason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	case errors.Is(err, ErrEmpty):
		return "empty"
	default:
		return "unavailable"
	}
}
