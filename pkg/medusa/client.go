package medusa

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	feed "github.com/Oak-Digital/medusa-product-feed/pkg/feedservice/feed"
)

const (
	Version   = "1.0.0"
	UserAgent = "Medusa Product Feed Client-Golang/" + Version

	// PublishableKeyHeader scopes store requests to the sales channels
	// the key was issued for
	PublishableKeyHeader = "x-publishable-api-key"

	storePrefix    = "/store"
	requestTimeout = 2 * time.Minute
)

// Client interfaces with the Medusa store API and satisfies the feed
// pipeline's backend contract
type Client struct {
	initialized    bool
	publishableKey string
	storeURL       *url.URL
	rawClient      *http.Client
}

// NewClient takes the backend base url plus an optional publishable
// key and returns an initialized client
func NewClient(domain, publishableKey string) (m *Client, err error) {
	rawClient := &http.Client{
		Timeout: requestTimeout,
	}
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	rawClient.Jar = jar

	storeURL, err := url.Parse(domain)
	if err != nil {
		return nil, fmt.Errorf("Couldn't parse backend url - %v", err)
	}
	if storeURL.Scheme == "" || storeURL.Host == "" {
		return nil, fmt.Errorf("Backend url needs scheme and host, got %q", domain)
	}
	storeURL.Path = strings.TrimRight(storeURL.Path, "/") + storePrefix

	m = &Client{
		initialized:    true,
		publishableKey: publishableKey,
		storeURL:       storeURL,
		rawClient:      rawClient,
	}

	return m, nil
}

// ListRegions returns the backend's pricing regions
func (m *Client) ListRegions() ([]feed.Region, error) {
	var rsp regionsResponse
	if err := m.get("/regions", nil, &rsp); err != nil {
		return nil, fmt.Errorf("Couldn't load regions - %v", err)
	}

	out := make([]feed.Region, len(rsp.Regions))
	for i := range rsp.Regions {
		out[i] = rsp.Regions[i].ToFeedRegion()
	}
	return out, nil
}

// CountProducts asks for a minimal product page and reads the total
// from the response's count field
func (m *Client) CountProducts() (int, error) {
	params := url.Values{}
	params.Set("limit", "1")
	params.Set("fields", "id")

	var rsp productsResponse
	if err := m.get("/products", params, &rsp); err != nil {
		return 0, fmt.Errorf("Couldn't count products - %v", err)
	}
	return rsp.Count, nil
}

// FetchProductPage loads one catalog page with prices computed for the
// given pricing context
func (m *Client) FetchProductPage(pc feed.PricingContext, offset, take int) ([]feed.Product, error) {
	params := url.Values{}
	params.Set("offset", strconv.Itoa(offset))
	params.Set("limit", strconv.Itoa(take))
	params.Set("region_id", pc.RegionID)
	params.Set("currency_code", pc.CurrencyCode)
	params.Set("expand", "variants,variants.options,images,type,sales_channels")

	var rsp productsResponse
	if err := m.get("/products", params, &rsp); err != nil {
		return nil, fmt.Errorf("Couldn't load product page at offset %d - %v", offset, err)
	}

	out := make([]feed.Product, len(rsp.Products))
	for i := range rsp.Products {
		out[i] = rsp.Products[i].ToFeedProduct()
	}
	return out, nil
}

// GetAvailability returns the stocked quantity per variant for one
// sales channel
func (m *Client) GetAvailability(variantIDs []string, salesChannelID string) (map[string]int, error) {
	params := url.Values{}
	params.Set("ids", strings.Join(variantIDs, ","))
	params.Set("sales_channel_id", salesChannelID)

	var rsp variantsResponse
	if err := m.get("/variants", params, &rsp); err != nil {
		return nil, fmt.Errorf("Couldn't load availability for channel %s - %v", salesChannelID, err)
	}

	out := make(map[string]int, len(rsp.Variants))
	for i := range rsp.Variants {
		out[rsp.Variants[i].ID] = rsp.Variants[i].InventoryQuantity
	}
	return out, nil
}

func (m *Client) get(endpoint string, params url.Values, out interface{}) error {
	if m.initialized == false {
		return fmt.Errorf("Please initialize the client first. medusa.NewClient()")
	}

	reqURL := m.storeURL.String() + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequest("GET", reqURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	if m.publishableKey != "" {
		req.Header.Set(PublishableKeyHeader, m.publishableKey)
	}

	rsp, err := m.rawClient.Do(req)
	if err != nil {
		return err
	}
	defer rsp.Body.Close()

	body, err := ioutil.ReadAll(rsp.Body)
	if err != nil {
		return err
	}
	if rsp.StatusCode != http.StatusOK {
		return fmt.Errorf("Failed: %s - %s", rsp.Status, strings.TrimSpace(string(body)))
	}

	return json.Unmarshal(body, out)
}
