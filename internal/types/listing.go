package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MinImageURLs = 1
	MaxImageURLs = 6
)

// Listing is a set of course notes offered for sale.
type Listing struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name" example:"Calculo I - apuntes completos"`
	Description string    `json:"description"`
	Course      string    `json:"course" example:"Ingenieria Informatica"`
	Semester    Semester  `json:"semester" swaggertype:"integer" example:"3"`
	Price       float64   `json:"price" example:"12.5"`
	ImageURLs   []string  `json:"imageUrls"`
	UserRef     uuid.UUID `json:"userRef"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Price is a listing price in request bodies. Form inputs often send it as a
// string, so both a JSON number and a numeric string are accepted.
type Price float64

func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: price must be a number", ErrInvalidInput)
		}
		*p = Price(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("%w: price must be a number", ErrInvalidInput)
	}
	*p = Price(f)
	return nil
}

// storedRecordFields are the read-only fields of a Listing. Clients that post
// a fetched record back include them; they are accepted and ignored.
type storedRecordFields struct {
	ID        json.RawMessage `json:"id,omitempty" swaggerignore:"true"`
	CreatedAt json.RawMessage `json:"createdAt,omitempty" swaggerignore:"true"`
	UpdatedAt json.RawMessage `json:"updatedAt,omitempty" swaggerignore:"true"`
}

type CreateListingParams struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Course      string   `json:"course"`
	Semester    Semester `json:"semester" swaggertype:"integer"`
	Price       Price    `json:"price" swaggertype:"number"`
	ImageURLs   []string `json:"imageUrls"`
	// UserRef is accepted for compatibility with older clients and ignored;
	// the owner is always the authenticated caller.
	UserRef string `json:"userRef,omitempty"`

	storedRecordFields
}

// UpdateListingParams carries a partial update. Nil fields are left untouched.
type UpdateListingParams struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	Course      *string   `json:"course,omitempty"`
	Semester    *Semester `json:"semester,omitempty" swaggertype:"integer"`
	Price       *Price    `json:"price,omitempty" swaggertype:"number"`
	ImageURLs   *[]string `json:"imageUrls,omitempty"`
	UserRef     *string   `json:"userRef,omitempty"`

	storedRecordFields
}

// ListingSort is a whitelisted ORDER BY key.
type ListingSort string

const (
	SortCreatedAt ListingSort = "createdAt"
	SortUpdatedAt ListingSort = "updatedAt"
	SortPrice     ListingSort = "price"
	SortName      ListingSort = "name"
)

// ListingQuery is a normalized search request. Zero SearchTerm and nil
// Semester mean "no filter".
type ListingQuery struct {
	SearchTerm string
	Semester   *Semester
	Sort       ListingSort
	Ascending  bool
	Limit      int
	StartIndex int
}

// ListingPage is one page of search results.
type ListingPage struct {
	Listings   []Listing `json:"listings"`
	Total      int       `json:"total"`
	Limit      int       `json:"limit"`
	StartIndex int       `json:"startIndex"`
	HasMore    bool      `json:"hasMore"`
}
