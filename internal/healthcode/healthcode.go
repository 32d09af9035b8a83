// Package healthcode maps an account's health ID to the pseudonymous health
// code that keys all of its health data. A mapping is created once and never
// changes.
package healthcode

import (
	"github.com/google/uuid"

	"cohort/pkg/domain"
)

func newHealthCode() domain.HealthCode {
	return domain.HealthCode(uuid.NewString())
}
