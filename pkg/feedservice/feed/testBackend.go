package feed

import "sync"

// TestBackend is a fully scriptable store backend for tests
type TestBackend struct {
	Regions    []Region
	Products   []Product
	Quantities map[string]map[string]int

	RegionsErr error
	CountErr   error
	FetchErr   error
	AvailErrs  map[string]error

	// Gate blocks a channel's availability lookup until the channel is
	// released, for tests that need a controlled completion order
	Gate map[string]chan struct{}

	mu          sync.Mutex
	CountCalls  int
	FetchCalls  int
	AvailCalls  []string
	LastContext PricingContext
}

// NewTestBackend returns a backend preloaded with a one product
// catalog: a red jacket priced 1000 down to 900 usd, three on stock in
// its only sales channel
func NewTestBackend() *TestBackend {
	original := int64(1000)
	sale := int64(900)

	return &TestBackend{
		Regions: []Region{
			{ID: "r1", CurrencyCode: "usd", Countries: []string{"us"}},
		},
		Products: []Product{
			{
				ID:           "prod_01",
				Title:        "Test Jacket",
				Description:  "A jacket to test with",
				Handle:       "test-jacket",
				ThumbnailURL: "https://cdn.example.com/jacket.jpg",
				ImageURLs: []string{
					"https://cdn.example.com/jacket.jpg",
					"https://cdn.example.com/jacket-back.jpg",
					"https://cdn.example.com/jacket-detail.jpg",
				},
				Material:        "Wool",
				TypeLabel:       "Jackets",
				SalesChannelIDs: []string{"sc1"},
				Variants: []Variant{
					{
						ID:  "v1",
						SKU: "JCK-001",
						Options: []OptionValue{
							{Title: "Color", Value: "Red"},
						},
						OriginalAmount:   &original,
						CalculatedAmount: &sale,
					},
				},
			},
		},
		Quantities: map[string]map[string]int{
			"sc1": {"v1": 3},
		},
	}
}

// ListRegions returns the scripted regions
func (t *TestBackend) ListRegions() ([]Region, error) {
	if t.RegionsErr != nil {
		return nil, t.RegionsErr
	}
	return t.Regions, nil
}

// CountProducts returns the scripted catalog size
func (t *TestBackend) CountProducts() (int, error) {
	t.mu.Lock()
	t.CountCalls++
	t.mu.Unlock()

	if t.CountErr != nil {
		return 0, t.CountErr
	}
	return len(t.Products), nil
}

// FetchProductPage returns one page of the scripted catalog
func (t *TestBackend) FetchProductPage(pc PricingContext, offset, take int) ([]Product, error) {
	t.mu.Lock()
	t.FetchCalls++
	t.LastContext = pc
	t.mu.Unlock()

	if t.FetchErr != nil {
		return nil, t.FetchErr
	}
	if offset >= len(t.Products) {
		return nil, nil
	}
	end := offset + take
	if end > len(t.Products) {
		end = len(t.Products)
	}
	return t.Products[offset:end], nil
}

// GetAvailability answers from the scripted per channel quantities,
// blocking on the channel's gate first when one is set
func (t *TestBackend) GetAvailability(variantIDs []string, salesChannelID string) (map[string]int, error) {
	t.mu.Lock()
	t.AvailCalls = append(t.AvailCalls, salesChannelID)
	t.mu.Unlock()

	if t.Gate != nil {
		if gate, ok := t.Gate[salesChannelID]; ok {
			<-gate
		}
	}
	if t.AvailErrs != nil {
		if err, ok := t.AvailErrs[salesChannelID]; ok {
			return nil, err
		}
	}

	out := make(map[string]int)
	byChannel := t.Quantities[salesChannelID]
	for i := range variantIDs {
		if qty, ok := byChannel[variantIDs[i]]; ok {
			out[variantIDs[i]] = qty
		}
	}
	return out, nil
}
