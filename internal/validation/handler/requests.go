package handler

import (
	"errors"
	"fmt"

	"fiscalcheck/internal/validation/models"
	dErrors "fiscalcheck/pkg/domain-errors"
)

// ValidateRequest is the body of POST /v1/validate.
type ValidateRequest struct {
	Document models.Document `json:"document"`
	Options  models.Options  `json:"options"`
}

// Validate only rejects requests the engine cannot even look at. Missing
// payload fields are the engine's business and end up in the report.
func (r *ValidateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	opts, err := r.Options.Normalize()
	if err != nil {
		return err
	}
	r.Options = opts
	return nil
}

// BatchRequest is the body of POST /v1/validate/batch.
type BatchRequest struct {
	Items []ValidateRequest `json:"items"`
}

func (r *BatchRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if len(r.Items) == 0 {
		return dErrors.New(dErrors.CodeValidation, "items must not be empty")
	}
	for i := range r.Items {
		if err := r.Items[i].Validate(); err != nil {
			msg := err.Error()
			var de *dErrors.Error
			if errors.As(err, &de) {
				msg = de.Message
			}
			return dErrors.Wrap(err, dErrors.CodeOf(err), fmt.Sprintf("items[%d]: %s", i, msg))
		}
	}
	return nil
}
