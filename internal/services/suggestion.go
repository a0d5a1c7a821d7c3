package services

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/astrovows/starlight-backend/internal/catalog"
	"github.com/astrovows/starlight-backend/internal/logger"
)

// SuggestionSource identifies which pipeline stage produced a suggestion.
type SuggestionSource string

const (
	SourceAI       SuggestionSource = "ai"
	SourceCatalog  SuggestionSource = "catalog"
	SourceFallback SuggestionSource = "fallback"
)

// Confidence is fixed per source tier and strictly decreasing.
const (
	confidenceAI       = 0.9
	confidenceCatalog  = 0.8
	confidenceFallback = 0.5
)

const DefaultSuggestionCount = 5

// emotionCategories is the fixed, ordered category set used to partition
// named stars. Position in this slice drives the round-robin assignment,
// so the order is part of the product's behavior and must not be shuffled.
var emotionCategories = []string{
	"love", "friendship", "family", "memorial",
	"hope", "achievement", "gratitude", "adventure",
}

// EmotionSuggestion is one ranked candidate star. CatalogRef is always a
// real or synthesized record; a suggestion never ships without one.
type EmotionSuggestion struct {
	ID          string           `json:"id"`
	DisplayName string           `json:"display_name"`
	Description string           `json:"description"`
	Confidence  float64          `json:"confidence"`
	Source      SuggestionSource `json:"source"`
	CatalogRef  catalog.Record   `json:"catalog_ref"`
}

// IndexProvider hands out the current catalog index, if one is loaded.
// *CatalogService satisfies it; tests substitute fakes.
type IndexProvider interface {
	Index() (*catalog.Index, bool)
}

// SuggestionService resolves ranked star suggestions for an emotion.
// Resolve never fails: generator and catalog trouble degrade the result
// tier instead of surfacing as errors.
type SuggestionService interface {
	Resolve(ctx context.Context, emotionKey string, count int) []EmotionSuggestion
}

type suggestionService struct {
	index     IndexProvider
	stargen   StarGenClient
	pools     templatePools
	newRand   func() *rand.Rand
	aiTimeout time.Duration
	sf        singleflight.Group
	log       *logger.Logger
}

// NewSuggestionService wires the resolver. stargen may be nil, in which
// case the AI stage is permanently skipped.
func NewSuggestionService(index IndexProvider, stargen StarGenClient, log *logger.Logger) (SuggestionService, error) {
	return newSuggestionService(index, stargen, log, func() *rand.Rand {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	})
}

// newSuggestionService additionally takes the random-source factory so
// tests can pin a seed and assert exact descriptions.
func newSuggestionService(index IndexProvider, stargen StarGenClient, log *logger.Logger, newRand func() *rand.Rand) (SuggestionService, error) {
	pools, err := loadTemplatePools()
	if err != nil {
		return nil, err
	}
	return &suggestionService{
		index:     index,
		stargen:   stargen,
		pools:     pools,
		newRand:   newRand,
		aiTimeout: 30 * time.Second,
		log:       log.With("service", "SuggestionService"),
	}, nil
}

// Resolve runs the ai -> catalog -> fallback pipeline. A stage's output is
// used only when it satisfies count on its own; a partial stage defers
// entirely to the next one, so results are never mixed across stages.
func (s *suggestionService) Resolve(ctx context.Context, emotionKey string, count int) []EmotionSuggestion {
	if count <= 0 {
		count = DefaultSuggestionCount
	}
	key := strings.ToLower(strings.TrimSpace(emotionKey))

	if idx, ok := s.index.Index(); ok {
		if out := s.resolveAI(ctx, key, idx, count); len(out) >= count {
			return out[:count]
		}
		if out := s.resolveCatalog(key, idx, count); len(out) >= count {
			return out[:count]
		}
		s.log.Debug("catalog stage exhausted, synthesizing fallback stars", "emotion", key)
	} else {
		s.log.Debug("catalog not loaded, synthesizing fallback stars", "emotion", key)
	}
	return s.resolveFallback(key, count)
}

// resolveAI asks the generator for proposals and keeps only those that
// resolve against the catalog. Concurrent calls for the same emotion share
// one in-flight generator request.
func (s *suggestionService) resolveAI(ctx context.Context, emotionKey string, idx *catalog.Index, count int) []EmotionSuggestion {
	if s.stargen == nil {
		return nil
	}
	v, err, _ := s.sf.Do(emotionKey, func() (interface{}, error) {
		callCtx, cancel := context.WithTimeout(ctx, s.aiTimeout)
		defer cancel()
		return s.stargen.GenerateStars(callCtx, emotionKey)
	})
	if err != nil {
		s.log.Warn("star generator failed, degrading to catalog stage", "emotion", emotionKey, "error", err)
		return nil
	}
	proposals := v.([]StarGenStar)

	out := make([]EmotionSuggestion, 0, count)
	for _, p := range proposals {
		matches := idx.SearchByName(p.Name)
		if len(matches) == 0 {
			// Unconfirmed proposals are dropped, never fabricated.
			continue
		}
		rec := matches[0]
		out = append(out, EmotionSuggestion{
			ID:          uuid.NewString(),
			DisplayName: rec.ProperName,
			Description: p.Description,
			Confidence:  confidenceAI,
			Source:      SourceAI,
			CatalogRef:  rec,
		})
		if len(out) == count {
			break
		}
	}
	return out
}

// resolveCatalog partitions named stars round-robin across the category
// list and describes the partition's brightest members from the emotion's
// template pool.
func (s *suggestionService) resolveCatalog(emotionKey string, idx *catalog.Index, count int) []EmotionSuggestion {
	named := idx.NamedStars()
	pos := categoryPosition(emotionKey)
	rnd := s.newRand()

	out := make([]EmotionSuggestion, 0, count)
	for i, rec := range named {
		if i%len(emotionCategories) != pos {
			continue
		}
		out = append(out, EmotionSuggestion{
			ID:          uuid.NewString(),
			DisplayName: rec.ProperName,
			Description: s.pools.pick(emotionKey, rec.ProperName, rnd) + propertyClause(rec),
			Confidence:  confidenceCatalog,
			Source:      SourceCatalog,
			CatalogRef:  rec,
		})
		if len(out) == count {
			break
		}
	}
	if len(out) < count {
		return nil
	}
	return out
}

// resolveFallback synthesizes plausible records. It is the terminal stage
// and cannot fail.
func (s *suggestionService) resolveFallback(emotionKey string, count int) []EmotionSuggestion {
	rnd := s.newRand()
	label := titleCase(emotionKey)
	if label == "" {
		label = "Wishing"
	}

	out := make([]EmotionSuggestion, 0, count)
	for n := 1; n <= count; n++ {
		name := fmt.Sprintf("%s Star %d", label, n)
		rec := catalog.Record{
			// Synthetic ids live far above the real catalog's range.
			ID:         9_000_000 + n,
			ProperName: name,
			RA:         rnd.Float64() * 360 / 15, // degrees scaled to hours
			Dec:        rnd.Float64()*180 - 90,
			Distance:   10 + rnd.Float64()*100,
			Magnitude:  rnd.Float64() * 6,
		}
		out = append(out, EmotionSuggestion{
			ID:          uuid.NewString(),
			DisplayName: name,
			Description: s.pools.pick(emotionKey, name, rnd),
			Confidence:  confidenceFallback,
			Source:      SourceFallback,
			CatalogRef:  rec,
		})
	}
	return out
}

// propertyClause derives at most one flourish from the record, in fixed
// priority order: variability, then brightness, then distance.
func propertyClause(rec catalog.Record) string {
	switch {
	case rec.IsVariable:
		return " Its light pulses in a slow, living rhythm."
	case rec.Magnitude < 2.0:
		return " It blazes bright enough to outshine city lights."
	case rec.Distance > 100:
		return " Its glow crosses more than a century of space to reach you."
	default:
		return ""
	}
}

// categoryPosition maps an emotion key to its round-robin slot. Unknown
// keys hash to a stable slot so repeat queries stay deterministic.
func categoryPosition(emotionKey string) int {
	for i, cat := range emotionCategories {
		if cat == emotionKey {
			return i
		}
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(emotionKey))
	return int(h.Sum32() % uint32(len(emotionCategories)))
}

func titleCase(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
