// Package survey stores participants' survey responses.
package survey

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"cohort/pkg/domain"
)

// Response is one completed or partially completed survey.
type Response struct {
	ID         uuid.UUID
	HealthCode domain.HealthCode
	SurveyGUID string
	Identifier string
	Answers    json.RawMessage
	CreatedOn  time.Time
}
