package ask

const (
	defaultK          = 5
	defaultExactLimit = 3
	previewRunes      = 200
)

// request payload for a catalog question
type AskRequest struct {
	Question           string  `json:"question" binding:"required"`
	DatasetID          *string `json:"datasetId,omitempty"`
	K                  *int    `json:"k,omitempty"`
	ExactLimit         *int    `json:"exactLimit,omitempty"`
	UseGeneratedAnswer bool    `json:"useGeneratedAnswer"`
}

// one retrieved row as shown to callers, content is always previewed
type EvidenceItem struct {
	DatasetID  string   `json:"datasetId"`
	PrimaryKey string   `json:"primaryKey"`
	Preview    string   `json:"preview"`
	Distance   *float64 `json:"distance"`
}

type Citation struct {
	DatasetID  string `json:"datasetId"`
	PrimaryKey string `json:"primaryKey"`
}

// response payload for a catalog question
type AskResponse struct {
	Answer    *string        `json:"answer,omitempty"`
	Model     *string        `json:"model,omitempty"`
	Evidence  []EvidenceItem `json:"evidence"`
	Citations []Citation     `json:"citations,omitempty"`
	Degraded  []string       `json:"degraded,omitempty"`
	LatencyMs int64          `json:"latencyMs"`
}
