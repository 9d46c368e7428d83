// +build unit
// +build !integration

package medusa

import (
	"net/http"
	"net/http/httptest"
	"testing"

	feed "github.com/Oak-Digital/medusa-product-feed/pkg/feedservice/feed"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/store/regions", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(PublishableKeyHeader) != "pk_test" {
			t.Errorf("Failed to send publishable key, got %q", r.Header.Get(PublishableKeyHeader))
		}
		w.Write([]byte(`{
			"regions": [
				{"id": "reg_eu", "currency_code": "eur", "countries": [{"iso_2": "dk"}, {"iso_2": "de"}]},
				{"id": "reg_us", "currency_code": "usd", "countries": [{"iso_2": "us"}]}
			]
		}`))
	})
	mux.HandleFunc("/store/products", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("limit") == "1" {
			w.Write([]byte(`{"products": [{"id": "prod_01"}], "count": 117}`))
			return
		}
		if r.URL.Query().Get("region_id") != "reg_us" {
			t.Errorf("Failed to pass region, got %q", r.URL.Query().Get("region_id"))
		}
		if r.URL.Query().Get("currency_code") != "usd" {
			t.Errorf("Failed to pass currency, got %q", r.URL.Query().Get("currency_code"))
		}
		if r.URL.Query().Get("offset") != "50" {
			t.Errorf("Failed to pass offset, got %q", r.URL.Query().Get("offset"))
		}
		w.Write([]byte(`{
			"products": [{
				"id": "prod_01",
				"title": "Test Jacket",
				"description": "A jacket to test with",
				"handle": "test-jacket",
				"thumbnail": "https://cdn.example.com/jacket.jpg",
				"images": [{"url": "https://cdn.example.com/jacket.jpg"}],
				"material": "Wool",
				"type": {"value": "Jackets"},
				"sales_channels": [{"id": "sc_1"}],
				"variants": [{
					"id": "variant_1",
					"sku": "JCK-001",
					"original_price": 1000,
					"calculated_price": 900,
					"options": [{"value": "Red", "option": {"title": "Color"}}]
				}]
			}],
			"count": 117
		}`))
	})
	mux.HandleFunc("/store/variants", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("sales_channel_id") != "sc_1" {
			t.Errorf("Failed to pass sales channel, got %q", r.URL.Query().Get("sales_channel_id"))
		}
		if r.URL.Query().Get("ids") != "variant_1,variant_2" {
			t.Errorf("Failed to pass variant ids, got %q", r.URL.Query().Get("ids"))
		}
		w.Write([]byte(`{
			"variants": [
				{"id": "variant_1", "inventory_quantity": 3},
				{"id": "variant_2", "inventory_quantity": 0}
			]
		}`))
	})

	return httptest.NewServer(mux)
}

func TestListRegions(t *testing.T) {
	srv := testServer(t)
	defer srv.Close()

	client, err := NewClient(srv.URL, "pk_test")
	if err != nil {
		t.Fatalf("Failed to initialize client: %v", err)
	}

	regions, err := client.ListRegions()
	if err != nil {
		t.Fatalf("Failed to list regions: %v", err)
	}
	if len(regions) != 2 {
		t.Fatalf("Failed to load both regions, got %d", len(regions))
	}
	if regions[0].ID != "reg_eu" || regions[0].CurrencyCode != "eur" {
		t.Fatalf("Failed to convert region: %+v", regions[0])
	}
	if len(regions[0].Countries) != 2 || regions[0].Countries[0] != "dk" {
		t.Fatalf("Failed to convert countries: %+v", regions[0].Countries)
	}
}

func TestCountProducts(t *testing.T) {
	srv := testServer(t)
	defer srv.Close()

	client, err := NewClient(srv.URL, "pk_test")
	if err != nil {
		t.Fatalf("Failed to initialize client: %v", err)
	}

	n, err := client.CountProducts()
	if err != nil {
		t.Fatalf("Failed to count products: %v", err)
	}
	if n != 117 {
		t.Fatalf("Failed to read count, got %d", n)
	}
}

func TestFetchProductPage(t *testing.T) {
	srv := testServer(t)
	defer srv.Close()

	client, err := NewClient(srv.URL, "pk_test")
	if err != nil {
		t.Fatalf("Failed to initialize client: %v", err)
	}

	pc := feed.PricingContext{RegionID: "reg_us", CurrencyCode: "usd"}
	products, err := client.FetchProductPage(pc, 50, 50)
	if err != nil {
		t.Fatalf("Failed to fetch product page: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("Failed to load products, got %d", len(products))
	}

	p := products[0]
	if p.ID != "prod_01" || p.Handle != "test-jacket" || p.TypeLabel != "Jackets" {
		t.Fatalf("Failed to convert product: %+v", p)
	}
	if len(p.SalesChannelIDs) != 1 || p.SalesChannelIDs[0] != "sc_1" {
		t.Fatalf("Failed to convert sales channels: %+v", p.SalesChannelIDs)
	}
	if len(p.Variants) != 1 {
		t.Fatalf("Failed to convert variants: %+v", p.Variants)
	}

	v := p.Variants[0]
	if v.ID != "variant_1" || v.SKU != "JCK-001" {
		t.Fatalf("Failed to convert variant: %+v", v)
	}
	if v.OriginalAmount == nil || *v.OriginalAmount != 1000 {
		t.Fatalf("Failed to convert original price: %+v", v.OriginalAmount)
	}
	if v.CalculatedAmount == nil || *v.CalculatedAmount != 900 {
		t.Fatalf("Failed to convert calculated price: %+v", v.CalculatedAmount)
	}
	if len(v.Options) != 1 || v.Options[0].Title != "Color" || v.Options[0].Value != "Red" {
		t.Fatalf("Failed to convert options: %+v", v.Options)
	}
}

func TestGetAvailability(t *testing.T) {
	srv := testServer(t)
	defer srv.Close()

	client, err := NewClient(srv.URL, "pk_test")
	if err != nil {
		t.Fatalf("Failed to initialize client: %v", err)
	}

	avail, err := client.GetAvailability([]string{"variant_1", "variant_2"}, "sc_1")
	if err != nil {
		t.Fatalf("Failed to get availability: %v", err)
	}
	if avail["variant_1"] != 3 {
		t.Fatalf("Failed to read quantity, got %d", avail["variant_1"])
	}
	if qty, ok := avail["variant_2"]; !ok || qty != 0 {
		t.Fatalf("Failed to keep zero quantity, got %d (%v)", qty, ok)
	}
}

func TestErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message": "A valid publishable key is required"}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "")
	if err != nil {
		t.Fatalf("Failed to initialize client: %v", err)
	}

	if _, err := client.ListRegions(); err == nil {
		t.Fatal("Failed to surface the error status")
	}
}

func TestNewClientRejectsBareHost(t *testing.T) {
	if _, err := NewClient("not a url at all ://", ""); err == nil {
		t.Fatal("Failed to reject malformed url")
	}
	if _, err := NewClient("example.com", ""); err == nil {
		t.Fatal("Failed to reject url without scheme")
	}
}
