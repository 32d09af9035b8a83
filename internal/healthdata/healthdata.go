// Package healthdata stores uploaded health data records under the
// participant's health code and removes them on account teardown.
package healthdata

import (
	"strings"

	"cohort/pkg/domain"
)

// recordPrefix is the key prefix shared by every record of one participant.
func recordPrefix(root string, healthCode domain.HealthCode) string {
	return root + string(healthCode) + "/"
}

func recordKey(root string, healthCode domain.HealthCode, recordID string) string {
	return recordPrefix(root, healthCode) + strings.TrimPrefix(recordID, "/")
}
