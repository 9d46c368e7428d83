// +build unit
// +build !integration

package feed

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

// catalogOf scripts a backend with n one variant products, all on the
// same sales channel, quantities equal to the product index
func catalogOf(n int) *TestBackend {
	backend := &TestBackend{
		Regions:    []Region{{ID: "r1", CurrencyCode: "usd"}},
		Quantities: map[string]map[string]int{"sc1": {}},
	}
	for i := 0; i < n; i++ {
		amount := int64(100 * (i + 1))
		id := fmt.Sprintf("v%d", i)
		backend.Products = append(backend.Products, Product{
			ID:              fmt.Sprintf("p%d", i),
			Title:           fmt.Sprintf("Product %d", i),
			Handle:          fmt.Sprintf("product-%d", i),
			SalesChannelIDs: []string{"sc1"},
			Variants: []Variant{
				{ID: id, SKU: id, OriginalAmount: &amount},
			},
		})
		backend.Quantities["sc1"][id] = i
	}
	return backend
}

func marshalItems(t *testing.T, items []*Item) string {
	t.Helper()
	out, err := json.Marshal(items)
	if err != nil {
		t.Fatalf("%v", err)
	}
	return string(out)
}

func TestBuildEmptyCatalog(t *testing.T) {
	backend := &TestBackend{Regions: []Region{{ID: "r1", CurrencyCode: "usd"}}}
	b := NewBuilder(backend, testOptions())

	payload, err := b.BuildJSON(Params{})
	if err != nil {
		t.Fatalf("%v", err)
	}
	if string(payload) != "[]" {
		t.Fatalf("Expected an empty array, got %s", payload)
	}

	doc, err := b.BuildXML(Params{NamespacePrefix: true})
	if err != nil {
		t.Fatalf("%v", err)
	}
	if !strings.Contains(string(doc), "<channel>") {
		t.Fatalf("Expected a channel envelope even for an empty catalog")
	}
	if strings.Contains(string(doc), "<item>") {
		t.Fatalf("Expected no items for an empty catalog")
	}
}

func TestRegionNotFoundBeforeAnyFetch(t *testing.T) {
	backend := NewTestBackend()
	b := NewBuilder(backend, testOptions())

	_, err := b.BuildItems(Params{Currency: "eur"})
	if !errors.Is(err, ErrRegionNotFound) {
		t.Fatalf("Expected ErrRegionNotFound, got %v", err)
	}
	if !IsNotFound(err) {
		t.Fatalf("Expected a not-found classification")
	}
	if backend.CountCalls != 0 || backend.FetchCalls != 0 {
		t.Fatalf("Expected no catalog traffic after a failed region match, got %d counts and %d fetches",
			backend.CountCalls, backend.FetchCalls)
	}
}

func TestNoRegionsConfigured(t *testing.T) {
	backend := &TestBackend{}
	b := NewBuilder(backend, testOptions())

	_, err := b.BuildItems(Params{})
	if !errors.Is(err, ErrNoRegions) {
		t.Fatalf("Expected ErrNoRegions, got %v", err)
	}
	if !IsNotFound(err) {
		t.Fatalf("Expected a not-found classification")
	}
}

func TestRegionSelection(t *testing.T) {
	backend := &TestBackend{
		Regions: []Region{
			{ID: "r1", CurrencyCode: "usd", Countries: []string{"us"}},
			{ID: "r2", CurrencyCode: "eur", Countries: []string{"de", "dk"}},
		},
	}
	b := NewBuilder(backend, testOptions())

	var cases = []struct {
		name   string
		params Params
		region string
	}{
		{"firstByDefault", Params{}, "r1"},
		{"byRegionID", Params{RegionID: "r2"}, "r2"},
		{"byCurrencyFold", Params{Currency: "EUR"}, "r2"},
		{"byCountryFold", Params{CountryCode: "DK"}, "r2"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			pc, err := b.ResolvePricingContext(tc.params)
			if err != nil {
				t.Fatalf("%v", err)
			}
			if pc.RegionID != tc.region {
				t.Fatalf("Expected region %s, got %s", tc.region, pc.RegionID)
			}
		})
	}

	t.Run("unknownRegionID", func(t *testing.T) {
		_, err := b.ResolvePricingContext(Params{RegionID: "nope"})
		if !errors.Is(err, ErrRegionNotFound) {
			t.Fatalf("Expected ErrRegionNotFound, got %v", err)
		}
	})

	t.Run("unknownCountry", func(t *testing.T) {
		_, err := b.ResolvePricingContext(Params{CountryCode: "se"})
		if !errors.Is(err, ErrRegionNotFound) {
			t.Fatalf("Expected ErrRegionNotFound, got %v", err)
		}
	})
}

func TestPricingContextHeldAcrossBatches(t *testing.T) {
	backend := catalogOf(5)
	b := NewBuilder(backend, testOptions())

	_, err := b.BuildItems(Params{Mode: ModeJSON, PageSize: 2})
	if err != nil {
		t.Fatalf("%v", err)
	}
	if backend.FetchCalls != 3 {
		t.Fatalf("Expected 3 page fetches for 5 products in pages of 2, got %d", backend.FetchCalls)
	}
	if backend.LastContext.RegionID != "r1" || backend.LastContext.CurrencyCode != "usd" {
		t.Fatalf("Expected the resolved context on every fetch, got %+v", backend.LastContext)
	}
}

func TestBatchInvariance(t *testing.T) {
	whole, err := NewBuilder(catalogOf(5), testOptions()).BuildItems(Params{Mode: ModeJSON})
	if err != nil {
		t.Fatalf("%v", err)
	}
	if len(whole) != 5 {
		t.Fatalf("Expected 5 items, got %d", len(whole))
	}

	split, err := NewBuilder(catalogOf(5), testOptions()).BuildItems(Params{Mode: ModeJSON, PageSize: 2})
	if err != nil {
		t.Fatalf("%v", err)
	}

	if marshalItems(t, whole) != marshalItems(t, split) {
		t.Fatalf("Expected the split build to equal the single page build")
	}
}

func TestSinglePageBuild(t *testing.T) {
	whole, err := NewBuilder(catalogOf(5), testOptions()).BuildItems(Params{Mode: ModeJSON})
	if err != nil {
		t.Fatalf("%v", err)
	}

	page, err := NewBuilder(catalogOf(5), testOptions()).BuildItems(Params{Mode: ModeJSON, Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("%v", err)
	}

	if len(page) != 2 {
		t.Fatalf("Expected 2 items on page 2, got %d", len(page))
	}
	if marshalItems(t, page) != marshalItems(t, whole[2:4]) {
		t.Fatalf("Expected page 2 to equal the matching slice of the full build")
	}

	ids := []string{page[0].GetString("id"), page[1].GetString("id")}
	if !reflect.DeepEqual(ids, []string{"v2", "v3"}) {
		t.Fatalf("Expected catalog order within the page, got %v", ids)
	}
}

func TestBuildFailsOnAvailabilityError(t *testing.T) {
	backend := catalogOf(3)
	backend.AvailErrs = map[string]error{"sc1": errors.New("inventory is down")}
	b := NewBuilder(backend, testOptions())

	items, err := b.BuildItems(Params{Mode: ModeJSON})
	if err == nil {
		t.Fatalf("Expected the build to fail with the availability lookup")
	}
	if items != nil {
		t.Fatalf("Expected no partial feed, got %d items", len(items))
	}

	var availErr *AvailabilityError
	if !errors.As(err, &availErr) {
		t.Fatalf("Expected an AvailabilityError, got %T", err)
	}
}

func TestBuildJSONRendersOrderedObjects(t *testing.T) {
	backend := NewTestBackend()
	b := NewBuilder(backend, testOptions())

	payload, err := b.BuildJSON(Params{})
	if err != nil {
		t.Fatalf("%v", err)
	}

	s := string(payload)
	if !strings.HasPrefix(s, `[{"id":"v1","itemgroup_id":"prod_01"`) {
		t.Fatalf("Expected document order in the rendered JSON, got %s", s)
	}
	if !strings.Contains(s, `"availability":3`) {
		t.Fatalf("Expected a bare integer availability, got %s", s)
	}
}
