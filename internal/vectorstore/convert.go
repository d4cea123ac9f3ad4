package vectorstore

import (
	"github.com/qdrant/go-client/qdrant"

	"codeberg.org/algopatterns/catalog/internal/evidence"
)

// qdrant scores similarity for cosine and dot, so flip those into ascending distances
func scoreToDistance(metric evidence.Metric, score float32) float64 {
	switch metric {
	case evidence.MetricL2:
		return float64(score)
	case evidence.MetricInnerProduct:
		return -float64(score)
	default:
		return 1 - float64(score)
	}
}

func metricToDistance(metric evidence.Metric) qdrant.Distance {
	switch metric {
	case evidence.MetricL2:
		return qdrant.Distance_Euclid
	case evidence.MetricInnerProduct:
		return qdrant.Distance_Dot
	default:
		return qdrant.Distance_Cosine
	}
}

// splits the identity fields out of a payload, the rest becomes opaque attributes
func rowFromPayload(payload map[string]*qdrant.Value) (evidence.Row, bool) {
	var row evidence.Row

	attrs := make(map[string]any, len(payload))

	for k, v := range payload {
		if v == nil {
			continue
		}

		switch k {
		case fieldDatasetID:
			row.DatasetID = v.GetStringValue()
		case fieldPrimaryKey:
			row.PrimaryKey = v.GetStringValue()
		case fieldContent:
			row.Content = v.GetStringValue()
		default:
			attrs[k] = convertValue(v)
		}
	}

	row.Attributes = attrs

	return row, row.DatasetID != "" && row.PrimaryKey != ""
}

func convertValue(v *qdrant.Value) any {
	switch val := v.Kind.(type) {
	case *qdrant.Value_BoolValue:
		return val.BoolValue
	case *qdrant.Value_IntegerValue:
		return val.IntegerValue
	case *qdrant.Value_DoubleValue:
		return val.DoubleValue
	case *qdrant.Value_StringValue:
		return val.StringValue
	case *qdrant.Value_ListValue:
		list := make([]any, len(val.ListValue.Values))
		for i, item := range val.ListValue.Values {
			list[i] = convertValue(item)
		}
		return list
	case *qdrant.Value_StructValue:
		out := make(map[string]any, len(val.StructValue.Fields))
		for k, f := range val.StructValue.Fields {
			out[k] = convertValue(f)
		}
		return out
	default:
		return nil
	}
}
