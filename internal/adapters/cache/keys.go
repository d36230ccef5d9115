package cache

import (
	"fmt"

	"meetpoint-service/internal/domain"
)

// Cache keys are 6-decimal coordinate strings. Callers round before lookup,
// so identical candidate points always produce identical keys.
func coordKey(p domain.Point) string {
	return fmt.Sprintf("%.6f,%.6f", p.Lat, p.Lng)
}
