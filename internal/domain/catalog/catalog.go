// Package catalog provides the in-memory, read-only view over the daily
// game dataset. The dataset is loaded wholesale from a static JSON
// document and never mutated afterwards.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/benklinger/kamaole/internal/domain/model"
)

// Store wraps the date-keyed day records. It is safe for concurrent
// reads; a refreshed dataset is loaded into a new Store and swapped in.
type Store struct {
	days map[string]model.DayRecord
}

// amount decodes a price that may be authored either as a JSON number or
// as a numeric string. Unparseable values decode to NaN so the failure
// surfaces where the price is aggregated, not here.
type amount float64

func (a *amount) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		*a = amount(math.NaN())
		return nil
	}
	*a = amount(f)
	return nil
}

type productJSON struct {
	ID       int    `json:"id"`
	Name     string `json:"productName"`
	ImageURL string `json:"imageUrl"`
	Price    amount `json:"productPrice"`
	MinPrice amount `json:"minPrice"`
	MaxPrice amount `json:"maxPrice"`
}

type bundleJSON struct {
	ID         int    `json:"id"`
	BasketName string `json:"basketName"`
	MealName   string `json:"mealName"`
	Products   []int  `json:"products"`
}

func (b bundleJSON) name() string {
	if b.BasketName != "" {
		return b.BasketName
	}
	return b.MealName
}

type dayJSON struct {
	Location string        `json:"location"`
	Products []productJSON `json:"products"`
	Baskets  []bundleJSON  `json:"baskets"`
	Meals    []bundleJSON  `json:"meals"`
}

type rootJSON struct {
	Dates map[string]dayJSON `json:"dates"`
}

// Load decodes the raw dataset into a Store. The root must be a mapping
// with a "dates" object; anything else fails with ErrMalformedCatalog.
// Bundle member ids referencing a product absent from the same day are
// kept as authored and silently dropped at resolve time.
func Load(raw []byte) (*Store, error) {
	var root rootJSON
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedCatalog, err)
	}
	if root.Dates == nil {
		return nil, fmt.Errorf("%w: missing dates mapping", ErrMalformedCatalog)
	}

	days := make(map[string]model.DayRecord, len(root.Dates))
	for key, d := range root.Dates {
		rec := model.DayRecord{Location: d.Location}
		for _, p := range d.Products {
			rec.Products = append(rec.Products, model.Product{
				ID:       p.ID,
				Name:     p.Name,
				ImageRef: p.ImageURL,
				Price:    float64(p.Price),
				MinPrice: float64(p.MinPrice),
				MaxPrice: float64(p.MaxPrice),
			})
		}
		// Both historical bundle spellings feed the one bundle list,
		// baskets first, order preserved within each.
		for _, b := range append(d.Baskets, d.Meals...) {
			rec.Bundles = append(rec.Bundles, model.Bundle{
				ID:        b.ID,
				Name:      b.name(),
				MemberIDs: b.Products,
			})
		}
		days[key] = rec
	}
	return &Store{days: days}, nil
}

// Day returns the record for a DD/MM/YYYY key. Absence of the key means
// no game exists for that day.
func (s *Store) Day(dateKey string) (model.DayRecord, bool) {
	rec, ok := s.days[dateKey]
	return rec, ok
}

// ProductByID finds a product by id within a day's ordered product list.
func (s *Store) ProductByID(day model.DayRecord, id int) (model.Product, bool) {
	for _, p := range day.Products {
		if p.ID == id {
			return p, true
		}
	}
	return model.Product{}, false
}

// BundleByID finds a bundle by id within a day's ordered bundle list.
func (s *Store) BundleByID(day model.DayRecord, id int) (model.Bundle, bool) {
	for _, b := range day.Bundles {
		if b.ID == id {
			return b, true
		}
	}
	return model.Bundle{}, false
}

// BundleMembers maps a bundle's member ids through the day's product
// list, dropping ids with no match and preserving the remaining order.
// An empty result is valid; callers treat it as "bundle unplayable".
func (s *Store) BundleMembers(day model.DayRecord, b model.Bundle) []model.Product {
	members := make([]model.Product, 0, len(b.MemberIDs))
	for _, id := range b.MemberIDs {
		if p, ok := s.ProductByID(day, id); ok {
			members = append(members, p)
		}
	}
	return members
}

// Len returns the number of day records in the store.
func (s *Store) Len() int {
	return len(s.days)
}
