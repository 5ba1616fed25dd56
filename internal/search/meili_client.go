// Package search keeps a Meilisearch index of centers for name suggestions.
package search

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	ms "github.com/meilisearch/meilisearch-go"

	"github.com/centros-finder/internal/normalizer"
)

// newClient creates a Meilisearch client with a request timeout.
func newClient(host, key string, timeout time.Duration) ms.ServiceManager {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return ms.New(host,
		ms.WithAPIKey(key),
		ms.WithCustomClient(&http.Client{Timeout: timeout}))
}

// FilterProvince filters documents by folded province name.
func FilterProvince(province string) string {
	if strings.TrimSpace(province) == "" {
		return ""
	}
	return fmt.Sprintf("province_normalized = %q", normalizer.Fold(province))
}

// FilterCenterType filters documents by exact center type.
func FilterCenterType(centerType string) string {
	if centerType == "" {
		return ""
	}
	return fmt.Sprintf("center_type = %q", centerType)
}

// And joins non-empty filter expressions.
func And(filters ...string) string {
	parts := make([]string, 0, len(filters))
	for _, f := range filters {
		if f != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, " AND ")
}
