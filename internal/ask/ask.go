package ask

import (
	"context"
	"errors"
	"fmt"
	"time"

	"codeberg.org/algopatterns/catalog/internal/agent"
	"codeberg.org/algopatterns/catalog/internal/evidence"
	"codeberg.org/algopatterns/catalog/internal/logger"
	"codeberg.org/algopatterns/catalog/internal/metrics"
	"codeberg.org/algopatterns/catalog/internal/retriever"
)

func NewService(lexical LexicalMatcher, vectorizer QueryVectorizer, semantic SemanticMatcher, generator AnswerGenerator, cfg Config) *Service {
	if cfg.MergeCap <= 0 {
		cfg.MergeCap = defaultMergeCap
	}

	return &Service{
		lexical:    lexical,
		vectorizer: vectorizer,
		semantic:   semantic,
		generator:  generator,
		mergeCap:   cfg.MergeCap,
	}
}

// only validation and misconfiguration are returned as errors;
// source failures degrade the result instead
func (s *Service) Ask(ctx context.Context, q Query) (*AnswerResult, error) {
	start := time.Now()

	q, err := q.normalize()
	if err != nil {
		metrics.AskRequestsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	log := logger.FromContext(ctx).With("scope", scopeLabel(q.DatasetScope))

	// in-flight calls finish even if the caller goes away; each component bounds its own calls
	ctx = logger.WithContext(context.WithoutCancel(ctx), log)

	result := &AnswerResult{}

	var lexical []evidence.Row
	observe("lexical", func() {
		lexical = s.lexical.Search(ctx, q.QuestionText, q.DatasetScope, q.ExactLimit)
	})
	metrics.HitsTotal.WithLabelValues("lexical").Add(float64(len(lexical)))

	var semantic []evidence.Row

	// semantic hits can only surface when exact hits leave room under the cap
	if len(lexical) < s.mergeCap {
		var vec []float32
		observe("embed", func() {
			vec, err = s.vectorizer.Embed(ctx, q.QuestionText)
		})

		switch {
		case errors.Is(err, retriever.ErrDimensionMismatch):
			metrics.AskRequestsTotal.WithLabelValues("misconfigured").Inc()
			log.Errorw("embedding does not match corpus, refusing to rank", "error", err)
			return nil, fmt.Errorf("%w: %w", ErrMisconfigured, err)
		case err != nil:
			log.Warnw("embedding unavailable, answering from exact matches only", "error", err)
			result.Degraded = append(result.Degraded, SourceSemantic)
		default:
			observe("semantic", func() {
				semantic = s.semantic.Nearest(ctx, vec, q.DatasetScope, q.SemanticLimit)
			})
			metrics.HitsTotal.WithLabelValues("semantic").Add(float64(len(semantic)))
		}
	}

	observe("merge", func() {
		result.MergedEvidence = retriever.Merge(lexical, semantic, s.mergeCap)
	})
	metrics.HitsTotal.WithLabelValues("merged").Add(float64(len(result.MergedEvidence)))

	if q.WantsGeneratedAnswer {
		answer := s.generate(ctx, q, result.MergedEvidence)

		result.GeneratedAnswer = &answer.Text
		result.Citations = answer.Citations

		if answer.Model != "" {
			result.UsedModel = &answer.Model
		}

		if answer.Failed {
			result.Degraded = append(result.Degraded, SourceGeneration)
		}
	}

	for _, source := range result.Degraded {
		metrics.DegradedTotal.WithLabelValues(source).Inc()
	}

	result.LatencyMs = time.Since(start).Milliseconds()
	metrics.AskRequestsTotal.WithLabelValues("ok").Inc()

	log.Infow("ask completed",
		"lexical_hits", len(lexical),
		"semantic_hits", len(semantic),
		"merged", len(result.MergedEvidence),
		"generated", q.WantsGeneratedAnswer,
		"degraded", result.Degraded,
		"latency_ms", result.LatencyMs,
	)

	return result, nil
}

func (s *Service) generate(ctx context.Context, q Query, merged []evidence.Row) (answer agent.Answer) {
	observe("generate", func() {
		answer = s.generator.Answer(ctx, q.QuestionText, merged, q.DatasetScope)
	})

	return answer
}

func observe(stage string, fn func()) {
	start := time.Now()
	fn()
	metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

func scopeLabel(scope *string) string {
	if scope == nil {
		return "*"
	}

	return *scope
}
