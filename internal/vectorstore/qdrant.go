package vectorstore

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/qdrant/go-client/qdrant"

	"codeberg.org/algopatterns/catalog/internal/evidence"
	"codeberg.org/algopatterns/catalog/internal/logger"
)

// payload fields written by the publisher
const (
	fieldDatasetID  = "dataset_id"
	fieldPrimaryKey = "primary_key"
	fieldContent    = "content"
)

// implements vector search over a Qdrant collection
type QdrantStore struct {
	client     *qdrant.Client
	collection string
	metric     evidence.Metric
}

// urlStr is either "http://host:6333" (gRPC port derived as HTTP port + 1) or "host:6334"
func NewQdrantStore(urlStr, collection string, metric evidence.Metric) (*QdrantStore, error) {
	host, port, err := parseAddress(urlStr)
	if err != nil {
		return nil, err
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}

	return &QdrantStore{
		client:     client,
		collection: collection,
		metric:     metric,
	}, nil
}

func parseAddress(urlStr string) (string, int, error) {
	if !strings.Contains(urlStr, "://") {
		host, portStr, found := strings.Cut(urlStr, ":")
		if !found {
			return host, 6334, nil
		}

		port, err := strconv.Atoi(portStr)
		if err != nil {
			return "", 0, fmt.Errorf("invalid Qdrant port %q: %w", portStr, err)
		}

		return host, port, nil
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsedURL.Hostname()
	if host == "" {
		host = "localhost"
	}

	port := 6334
	if parsedURL.Port() != "" {
		httpPort, err := strconv.Atoi(parsedURL.Port())
		if err != nil {
			return "", 0, fmt.Errorf("invalid Qdrant port: %w", err)
		}

		// gRPC port is typically HTTP port + 1
		port = httpPort + 1
	}

	return host, port, nil
}

// returns the k nearest rows with distances in the configured metric's convention
func (s *QdrantStore) VectorSearch(ctx context.Context, vec []float32, scope *string, k int) ([]evidence.Row, error) {
	if k <= 0 {
		return nil, nil
	}

	limit := uint64(k)
	req := &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(vec...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	}

	if scope != nil {
		req.Filter = &qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatch(fieldDatasetID, *scope)},
		}
	}

	points, err := s.client.Query(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to search points: %w", err)
	}

	rows := make([]evidence.Row, 0, len(points))

	for _, p := range points {
		row, ok := rowFromPayload(p.Payload)
		if !ok {
			logger.FromContext(ctx).Warnw("skipping point without row identity",
				"collection", s.collection,
				"point_id", p.GetId(),
			)
			continue
		}

		rows = append(rows, row.WithDistance(scoreToDistance(s.metric, p.Score)))
	}

	return rows, nil
}

// verifies the collection matches the configured dimension and metric
func (s *QdrantStore) Check(ctx context.Context, dims int) error {
	info, err := s.client.GetCollectionInfo(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to get collection info: %w", err)
	}

	cfg := info.GetConfig()
	if cfg == nil || cfg.GetParams() == nil {
		return fmt.Errorf("collection config is invalid")
	}

	params := cfg.GetParams().GetVectorsConfig().GetParams()
	if params == nil {
		return fmt.Errorf("collection vector params are invalid")
	}

	if int(params.GetSize()) != dims {
		return fmt.Errorf("collection vector size mismatch: expected %d, got %d", dims, params.GetSize())
	}

	if want := metricToDistance(s.metric); params.GetDistance() != want {
		return fmt.Errorf("collection distance mismatch: expected %s, got %s", want, params.GetDistance())
	}

	return nil
}

func (s *QdrantStore) Ping(ctx context.Context) error {
	if _, err := s.client.HealthCheck(ctx); err != nil {
		return fmt.Errorf("qdrant health check: %w", err)
	}

	return nil
}

func (s *QdrantStore) Close() error {
	return s.client.Close()
}
