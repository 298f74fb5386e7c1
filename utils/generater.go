package utils

import (
	"fmt"

	"github.com/google/uuid"
)

// PhotoPublicID names an uploaded service photo; the suffix keeps re-uploads
// from overwriting each other in the CDN cache.
func PhotoPublicID(serviceID uint) string {
	return fmt.Sprintf("servicio-%d-%s", serviceID, uuid.NewString()[:8])
}
