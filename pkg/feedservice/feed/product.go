package feed

// OptionValue is one raw merchandising attribute of a variant, e.g.
// Color=Red. Titles are display labels and get sanitized on the way
// into the feed.
type OptionValue struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

// Variant is one sellable unit of a product. Amounts are the minor
// unit prices computed by the backend for the build's pricing context;
// a variant without an original amount has no valid price in that
// context and never reaches the feed.
type Variant struct {
	ID               string        `json:"id"`
	SKU              string        `json:"sku"`
	Options          []OptionValue `json:"options"`
	OriginalAmount   *int64        `json:"originalAmount"`
	CalculatedAmount *int64        `json:"calculatedAmount"`
}

// HasPrice reports whether the variant resolved an original price
func (v *Variant) HasPrice() bool {
	return v.OriginalAmount != nil
}

// Product is the catalog record a feed item group is built from.
// Read-only to the pipeline; the backend owns it.
type Product struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Handle          string    `json:"handle"`
	ThumbnailURL    string    `json:"thumbnail"`
	ImageURLs       []string  `json:"images"`
	Material        string    `json:"material"`
	TypeLabel       string    `json:"type"`
	SalesChannelIDs []string  `json:"salesChannelIds"`
	Variants        []Variant `json:"variants"`
}

// FirstSalesChannel returns the channel availability is resolved
// against, ok is false for products not published to any channel
func (p *Product) FirstSalesChannel() (id string, ok bool) {
	if len(p.SalesChannelIDs) == 0 {
		return "", false
	}
	return p.SalesChannelIDs[0], true
}
