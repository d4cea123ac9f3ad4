package retriever

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/algopatterns/catalog/internal/evidence"
)

// in-memory row store mimicking the ILIKE semantics of the postgres client
type fakeStore struct {
	mu       sync.Mutex
	rows     []evidence.Row
	vectors  map[evidence.Key][]float32
	failOn   map[string]error
	patterns []string
	vecErr   error
}

func (f *fakeStore) SubstringSearch(_ context.Context, pattern string, scope *string, limit int) ([]evidence.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.patterns = append(f.patterns, pattern)

	if err := f.failOn[pattern]; err != nil {
		return nil, err
	}

	var out []evidence.Row

	for _, r := range f.rows {
		if scope != nil && r.DatasetID != *scope {
			continue
		}

		if strings.Contains(strings.ToLower(r.Content), strings.ToLower(pattern)) {
			out = append(out, r)
		}

		if len(out) == limit {
			break
		}
	}

	return out, nil
}

func (f *fakeStore) VectorSearch(_ context.Context, vec []float32, scope *string, k int) ([]evidence.Row, error) {
	if f.vecErr != nil {
		return nil, f.vecErr
	}

	var out []evidence.Row

	for _, r := range f.rows {
		if scope != nil && r.DatasetID != *scope {
			continue
		}

		v, ok := f.vectors[r.Key()]
		if !ok {
			continue
		}

		out = append(out, r.WithDistance(l2(vec, v)))
	}

	// return unsorted on purpose, Nearest must order them
	if len(out) > k {
		sortByDistance(out)
		out = out[:k]
	}

	return out, nil
}

func l2(a, b []float32) float64 {
	var sum float64

	for i := range a {
		d := float64(a[i] - b[i])
		sum += d * d
	}

	return sum
}

func row(ds, pk, content string) evidence.Row {
	return evidence.Row{DatasetID: ds, PrimaryKey: pk, Content: content}
}

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Purple-Elephant-42  ", "purple-elephant-42"},
		{"Is there a blue gorilla?", "is there a blue gorilla"},
		{"amount:   99.50!", "amount 99 50"},
		{"snake_case stays", "snake_case stays"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeQuery(tt.in), tt.in)
	}
}

func TestQueryVariants(t *testing.T) {
	variants := queryVariants("purple-elephant-42")

	assert.Equal(t, []string{
		"purple-elephant-42",
		"purple_elephant_42",
		"purple elephant 42",
		"purpleelephant42",
		"purple",
		"elephant",
		"42",
	}, variants)

	// short hyphenated tokens do not contribute segments
	assert.Equal(t, []string{"x-ray", "x_ray", "x ray", "xray"}, queryVariants("x-ray"))

	// no hyphen, no variants
	assert.Equal(t, []string{"tropical forest"}, queryVariants("tropical forest"))

	// too short or too long variants are dropped
	assert.Empty(t, queryVariants("a"))
	assert.Empty(t, queryVariants(strings.Repeat("x", 101)))

	// the query as typed comes first when punctuation would be normalized away
	assert.Equal(t, []string{"amount: 99.50", "amount 99 50"}, queryVariants("  Amount:  99.50 "))
}

func TestQueryVariants_Bounded(t *testing.T) {
	segments := make([]string, 600)
	for i := range segments {
		segments[i] = fmt.Sprintf("%c%c", 'a'+i/26, 'a'+i%26)
	}

	variants := queryVariants(strings.Join(segments, "-"))

	require.Len(t, variants, MaxVariants)
	assert.Equal(t, segments[:MaxVariants], variants)

	// the typed query and hyphen forms are kept ahead of segments
	variants = queryVariants("Order-Reference-Number-2024: 17")
	require.LessOrEqual(t, len(variants), MaxVariants)
	assert.Equal(t, []string{
		"order-reference-number-2024: 17",
		"order-reference-number-2024 17",
		"order_reference_number_2024 17",
		"order reference number 2024 17",
		"orderreferencenumber2024 17",
	}, variants[:5])
}

func TestLexical_ScenarioUnderscoreVariant(t *testing.T) {
	store := &fakeStore{rows: []evidence.Row{
		row("ds1", "pk1", "label purple_elephant_42 tagged"),
		row("ds1", "pk2", "unrelated content"),
	}}

	hits := NewLexical(store, time.Second).Search(context.Background(), "purple-elephant-42", nil, 3)

	require.Len(t, hits, 1)
	assert.Equal(t, "pk1", hits[0].PrimaryKey)
	require.NotNil(t, hits[0].Distance)
	assert.Zero(t, *hits[0].Distance)
	assert.Equal(t, []string{"purple-elephant-42", "purple_elephant_42"}, store.patterns[:2])
}

func TestLexical_UnionDedupAndLimit(t *testing.T) {
	store := &fakeStore{rows: []evidence.Row{
		row("ds1", "pk1", "purple elephant 42"),
		row("ds1", "pk2", "purpleelephant42 and purple elephant 42"),
		row("ds1", "pk3", "purpleelephant42"),
		row("ds2", "pk1", "purple elephant 42 elsewhere"),
	}}

	hits := NewLexical(store, 0).Search(context.Background(), "purple-elephant-42", nil, 3)

	require.Len(t, hits, 3)
	keys := make(map[evidence.Key]bool)

	for _, h := range hits {
		assert.False(t, keys[h.Key()], "duplicate %s", h.Key())
		keys[h.Key()] = true
	}

	// first-seen order: the space variant finds pk1, pk2, ds2/pk1 before the removed-hyphen variant
	assert.Equal(t, "ds1/pk1", hits[0].Key().String())
	assert.Equal(t, "ds1/pk2", hits[1].Key().String())
	assert.Equal(t, "ds2/pk1", hits[2].Key().String())
}

func TestLexical_ExactValueWithPunctuation(t *testing.T) {
	store := &fakeStore{rows: []evidence.Row{
		row("ds1", "pk1", "amount: 99.50"),
		row("ds1", "pk2", "amount: 101.00"),
	}}

	hits := NewLexical(store, time.Second).Search(context.Background(), "amount: 99.50", nil, 3)

	require.Len(t, hits, 1)
	assert.Equal(t, "pk1", hits[0].PrimaryKey)
	assert.Equal(t, "amount: 99.50", store.patterns[0])
}

func TestLexical_LookupsAreBounded(t *testing.T) {
	segments := make([]string, 600)
	for i := range segments {
		segments[i] = fmt.Sprintf("%c%c", 'a'+i/26, 'a'+i%26)
	}

	store := &fakeStore{}
	hits := NewLexical(store, time.Second).Search(context.Background(), strings.Join(segments, "-"), nil, 3)

	assert.Empty(t, hits)
	assert.LessOrEqual(t, len(store.patterns), MaxVariants)
}

func TestLexical_Scope(t *testing.T) {
	store := &fakeStore{rows: []evidence.Row{
		row("ds1", "pk1", "kapok tree"),
		row("ds2", "pk1", "kapok tree"),
	}}

	scope := "ds2"
	hits := NewLexical(store, 0).Search(context.Background(), "Kapok", &scope, 5)

	require.Len(t, hits, 1)
	assert.Equal(t, "ds2", hits[0].DatasetID)
}

func TestLexical_FailingVariantIsSkipped(t *testing.T) {
	store := &fakeStore{
		rows:   []evidence.Row{row("ds1", "pk1", "purple_elephant_42")},
		failOn: map[string]error{"purple-elephant-42": errors.New("connection reset")},
	}

	hits := NewLexical(store, 0).Search(context.Background(), "purple-elephant-42", nil, 3)

	require.Len(t, hits, 1)
	assert.Equal(t, "pk1", hits[0].PrimaryKey)
}

func TestLexical_AllVariantsFail(t *testing.T) {
	store := &fakeStore{failOn: map[string]error{
		"gorilla": errors.New("down"),
	}}

	assert.Empty(t, NewLexical(store, 0).Search(context.Background(), "gorilla", nil, 3))
}

func TestLexical_ZeroLimitSkipsStore(t *testing.T) {
	store := &fakeStore{}

	assert.Empty(t, NewLexical(store, 0).Search(context.Background(), "anything", nil, 0))
	assert.Empty(t, store.patterns)
}

type stubEmbedder struct {
	vec   []float32
	err   error
	input string
}

func (s *stubEmbedder) GenerateEmbedding(_ context.Context, text string) ([]float32, error) {
	s.input = text
	return s.vec, s.err
}

func (s *stubEmbedder) Model() string { return "stub" }

func TestVectorizer_Embed(t *testing.T) {
	emb := &stubEmbedder{vec: []float32{1, 2, 3}}
	v := NewVectorizer(emb, 3, 5, time.Second)

	vec, err := v.Embed(context.Background(), "héllo wörld")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3}, vec)
	assert.Equal(t, "héllo", emb.input)
}

func TestVectorizer_DimensionMismatch(t *testing.T) {
	v := NewVectorizer(&stubEmbedder{vec: []float32{1, 2}}, 3, 0, 0)

	_, err := v.Embed(context.Background(), "q")
	require.ErrorIs(t, err, ErrDimensionMismatch)
	assert.NotErrorIs(t, err, ErrProviderFailure)
}

func TestVectorizer_ProviderFailure(t *testing.T) {
	cause := errors.New("503 from provider")
	v := NewVectorizer(&stubEmbedder{err: cause}, 3, 0, 0)

	_, err := v.Embed(context.Background(), "q")
	require.ErrorIs(t, err, ErrProviderFailure)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrDimensionMismatch)
}

func TestSemantic_ScenarioNearestFirst(t *testing.T) {
	store := &fakeStore{
		rows: []evidence.Row{
			row("ds1", "pk2", "amount: 101.00"),
			row("ds1", "pk1", "amount: 99.50"),
		},
		vectors: map[evidence.Key][]float32{
			{DatasetID: "ds1", PrimaryKey: "pk1"}: {0.99, 0.1},
			{DatasetID: "ds1", PrimaryKey: "pk2"}: {0.2, 0.9},
		},
	}

	hits := NewSemantic(store, time.Second).Nearest(context.Background(), []float32{1, 0}, nil, 5)

	require.Len(t, hits, 2)
	assert.Equal(t, "pk1", hits[0].PrimaryKey)
	assert.Equal(t, "pk2", hits[1].PrimaryKey)
	assert.Less(t, *hits[0].Distance, *hits[1].Distance)
}

func TestSemantic_TiesBrokenByPrimaryKey(t *testing.T) {
	same := []float32{1, 0}
	store := &fakeStore{
		rows: []evidence.Row{row("ds1", "c", "x"), row("ds1", "a", "x"), row("ds1", "b", "x")},
		vectors: map[evidence.Key][]float32{
			{DatasetID: "ds1", PrimaryKey: "a"}: same,
			{DatasetID: "ds1", PrimaryKey: "b"}: same,
			{DatasetID: "ds1", PrimaryKey: "c"}: same,
		},
	}

	hits := NewSemantic(store, 0).Nearest(context.Background(), same, nil, 3)

	require.Len(t, hits, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{hits[0].PrimaryKey, hits[1].PrimaryKey, hits[2].PrimaryKey})
}

func TestSortByDistance_MissingDistanceLast(t *testing.T) {
	rows := []evidence.Row{
		row("ds1", "unscored", "x"),
		dist(row("ds1", "far", "x"), 0.9),
		dist(row("ds1", "near", "x"), 0.1),
	}

	sortByDistance(rows)

	assert.Equal(t, []string{"near", "far", "unscored"},
		[]string{rows[0].PrimaryKey, rows[1].PrimaryKey, rows[2].PrimaryKey})
}

func TestSemantic_StoreFailureYieldsEmpty(t *testing.T) {
	store := &fakeStore{vecErr: errors.New("relation does not exist")}

	assert.Empty(t, NewSemantic(store, 0).Nearest(context.Background(), []float32{1}, nil, 5))
}

func dist(r evidence.Row, d float64) evidence.Row {
	return r.WithDistance(d)
}

func TestMerge_ScenarioLexicalPrecedence(t *testing.T) {
	lexical := []evidence.Row{dist(row("ds", "pkA", "a"), 0)}
	semantic := []evidence.Row{
		dist(row("ds", "pkA", "a"), 0.1),
		dist(row("ds", "pkB", "b"), 0.2),
		dist(row("ds", "pkC", "c"), 0.3),
	}

	merged := Merge(lexical, semantic, 10)

	require.Len(t, merged, 3)
	assert.Equal(t, "pkA", merged[0].PrimaryKey)
	assert.Zero(t, *merged[0].Distance)
	assert.Equal(t, "pkB", merged[1].PrimaryKey)
	assert.Equal(t, "pkC", merged[2].PrimaryKey)
}

func TestMerge_Invariants(t *testing.T) {
	var lexical, semantic []evidence.Row

	for i := range 8 {
		lexical = append(lexical, dist(row("ds", fmt.Sprintf("pk%d", i*2), "l"), 0))
	}

	for i := range 12 {
		semantic = append(semantic, dist(row("ds", fmt.Sprintf("pk%d", i), "s"), float64(i)/10))
	}

	for _, limit := range []int{0, 1, 5, 10, 50} {
		merged := Merge(lexical, semantic, limit)

		assert.LessOrEqual(t, len(merged), max(limit, 0))

		seen := make(map[evidence.Key]bool)
		for _, r := range merged {
			assert.False(t, seen[r.Key()], "duplicate %s at limit %d", r.Key(), limit)
			seen[r.Key()] = true
		}

		// every row that is also a lexical hit keeps distance 0
		for _, r := range merged {
			for _, l := range lexical {
				if l.Key() == r.Key() {
					assert.Zero(t, *r.Distance)
				}
			}
		}
	}

	assert.Len(t, Merge(lexical, semantic, 50), 14)
	assert.Empty(t, Merge(lexical, semantic, -1))
	assert.Empty(t, Merge(nil, nil, 10))
}
