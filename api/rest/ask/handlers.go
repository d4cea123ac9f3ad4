package ask

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	askcore "codeberg.org/algopatterns/catalog/internal/ask"
	"codeberg.org/algopatterns/catalog/internal/errors"
	"codeberg.org/algopatterns/catalog/internal/evidence"
)

// implemented by *askcore.Service
type Asker interface {
	Ask(ctx context.Context, q askcore.Query) (*askcore.AnswerResult, error)
}

// AskHandler godoc
// @Summary Ask the catalog
// @Description Retrieve matching rows for a question and optionally a grounded answer
// @Tags ask
// @Accept json
// @Produce json
// @Param request body AskRequest true "Question"
// @Success 200 {object} AskResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/ask [post]
func AskHandler(service Asker) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		result, err := service.Ask(c.Request.Context(), req.toQuery())
		if err != nil {
			switch {
			case stderrors.Is(err, askcore.ErrInvalidQuery):
				// validation messages describe the request and are safe to return
				errors.BadRequest(c, err.Error(), nil)
			case stderrors.Is(err, askcore.ErrMisconfigured):
				errors.InternalError(c, "retrieval is misconfigured", err)
			default:
				errors.InternalError(c, "failed to answer question", err)
			}

			return
		}

		c.JSON(http.StatusOK, toResponse(result))
	}
}

func (r AskRequest) toQuery() askcore.Query {
	k := defaultK
	if r.K != nil {
		k = *r.K
	}

	exactLimit := defaultExactLimit
	if r.ExactLimit != nil {
		exactLimit = *r.ExactLimit
	}

	return askcore.Query{
		QuestionText:         r.Question,
		DatasetScope:         r.DatasetID,
		ExactLimit:           exactLimit,
		SemanticLimit:        k,
		WantsGeneratedAnswer: r.UseGeneratedAnswer,
	}
}

func toResponse(result *askcore.AnswerResult) AskResponse {
	items := make([]EvidenceItem, len(result.MergedEvidence))
	for i, row := range result.MergedEvidence {
		items[i] = EvidenceItem{
			DatasetID:  row.DatasetID,
			PrimaryKey: row.PrimaryKey,
			Preview:    row.Preview(previewRunes),
			Distance:   row.Distance,
		}
	}

	return AskResponse{
		Answer:    result.GeneratedAnswer,
		Model:     result.UsedModel,
		Evidence:  items,
		Citations: toCitations(result.Citations),
		Degraded:  result.Degraded,
		LatencyMs: result.LatencyMs,
	}
}

func toCitations(rows []evidence.Row) []Citation {
	if len(rows) == 0 {
		return nil
	}

	citations := make([]Citation, len(rows))
	for i, row := range rows {
		citations[i] = Citation{DatasetID: row.DatasetID, PrimaryKey: row.PrimaryKey}
	}

	return citations
}
