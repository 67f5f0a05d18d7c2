package ingestion

import (
	"strings"

	"github.com/sentimentiq/backend/internal/models"
)

// columnRole lists header fragments in priority order and the key used when
// none of them match.
type columnRole struct {
	fragments []string
	fallback  string
}

var (
	reviewTextRole = columnRole{fragments: []string{"review_text", "review", "text", "comment"}, fallback: "review_text"}
	productRole    = columnRole{fragments: []string{"product_name", "product", "item", "name"}, fallback: "product_name"}
	dateRole       = columnRole{fragments: []string{"review_date", "date", "time", "created"}, fallback: "review_date"}
	ratingRole     = columnRole{fragments: []string{"rating", "score", "stars"}, fallback: "rating"}
)

// reviewIDKeys must match a header exactly; "id" as a fragment would also
// catch product_id.
var reviewIDKeys = []string{"review_id", "id"}

// ResolveColumns picks a key for each role from keys, which must be in header
// order. The first fragment that any key contains wins; a role with no match
// resolves to its default key, which may be absent from the records.
func ResolveColumns(keys []string) models.ResolvedColumns {
	return models.ResolvedColumns{
		ReviewID:   resolveExact(keys, reviewIDKeys),
		ReviewText: reviewTextRole.resolve(keys),
		Product:    productRole.resolve(keys),
		Date:       dateRole.resolve(keys),
		Rating:     ratingRole.resolve(keys),
	}
}

func (r columnRole) resolve(keys []string) string {
	for _, fragment := range r.fragments {
		for _, key := range keys {
			if strings.Contains(key, fragment) {
				return key
			}
		}
	}
	return r.fallback
}

func resolveExact(keys, candidates []string) string {
	for _, candidate := range candidates {
		for _, key := range keys {
			if key == candidate {
				return key
			}
		}
	}
	return ""
}
