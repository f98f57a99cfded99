package listing

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/FACorreiaa/apuntes-marketplace/internal/types"
)

// QueryLimits bounds the page size accepted from clients.
type QueryLimits struct {
	DefaultLimit int
	MaxLimit     int
}

var sortKeys = map[string]types.ListingSort{
	"createdat": types.SortCreatedAt,
	"updatedat": types.SortUpdatedAt,
	"price":     types.SortPrice,
	"name":      types.SortName,
}

// ParseListingQuery normalizes the search query string. Unknown sort keys fall
// back to createdAt, any order other than "asc" is descending, and unusable
// limit/startIndex values fall back to their defaults. Only a semester that
// cannot be read is an error.
func ParseListingQuery(values url.Values, limits QueryLimits) (types.ListingQuery, error) {
	q := types.ListingQuery{
		SearchTerm: strings.TrimSpace(values.Get("searchTerm")),
		Sort:       types.SortCreatedAt,
		Ascending:  strings.EqualFold(strings.TrimSpace(values.Get("order")), "asc"),
		Limit:      limits.DefaultLimit,
	}

	if key, ok := sortKeys[strings.ToLower(strings.TrimSpace(values.Get("sort")))]; ok {
		q.Sort = key
	}

	if raw := strings.TrimSpace(values.Get("semester")); raw != "" && !strings.EqualFold(raw, "all") {
		// The search page sends values such as "IV" or "IV_semester".
		raw, _, _ = strings.Cut(raw, "_")
		sem, err := types.ParseSemester(raw)
		if err != nil {
			return types.ListingQuery{}, types.NewAPIError(types.ErrInvalidInput, "semester must be 1-10 or I-X")
		}
		q.Semester = &sem
	}

	if n, err := strconv.Atoi(values.Get("limit")); err == nil && n > 0 {
		q.Limit = n
	}
	if limits.MaxLimit > 0 && q.Limit > limits.MaxLimit {
		q.Limit = limits.MaxLimit
	}
	if q.Limit <= 0 {
		q.Limit = 10
	}

	if n, err := strconv.Atoi(values.Get("startIndex")); err == nil && n > 0 {
		q.StartIndex = n
	}

	return q, nil
}

// escapeLike makes s match literally inside an ILIKE pattern using the default escape character.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
