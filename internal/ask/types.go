package ask

import (
	"context"
	"errors"

	"codeberg.org/algopatterns/catalog/internal/agent"
	"codeberg.org/algopatterns/catalog/internal/evidence"
)

var (
	// the query failed validation, maps to a client error
	ErrInvalidQuery = errors.New("invalid query")

	// embedding dimension or metric disagrees with the corpus, maps to a server error
	ErrMisconfigured = errors.New("retrieval misconfigured")
)

const (
	MaxExactLimit    = 10
	MaxSemanticLimit = 50
	MaxQuestionRunes = 2000

	// names reported in AnswerResult.Degraded
	SourceSemantic   = "semantic"
	SourceGeneration = "generation"

	defaultMergeCap = 10
)

type Query struct {
	QuestionText         string
	DatasetScope         *string
	ExactLimit           int
	SemanticLimit        int
	WantsGeneratedAnswer bool
}

type AnswerResult struct {
	MergedEvidence  []evidence.Row
	GeneratedAnswer *string
	UsedModel       *string
	Citations       []evidence.Row
	LatencyMs       int64
	Degraded        []string
}

type LexicalMatcher interface {
	Search(ctx context.Context, query string, scope *string, limit int) []evidence.Row
}

type QueryVectorizer interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type SemanticMatcher interface {
	Nearest(ctx context.Context, vec []float32, scope *string, k int) []evidence.Row
}

type AnswerGenerator interface {
	Answer(ctx context.Context, question string, rows []evidence.Row, scope *string) agent.Answer
}

type Config struct {
	MergeCap int
}

// runs one ask request through retrieval, merge and optional generation
type Service struct {
	lexical    LexicalMatcher
	vectorizer QueryVectorizer
	semantic   SemanticMatcher
	generator  AnswerGenerator
	mergeCap   int
}
