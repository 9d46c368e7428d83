package medusa

import (
	feed "github.com/Oak-Digital/medusa-product-feed/pkg/feedservice/feed"
)

// Region is the wire shape of one store region
type Region struct {
	ID           string    `json:"id"`
	CurrencyCode string    `json:"currency_code"`
	Countries    []Country `json:"countries"`
}

// Country carries the two letter code a region serves
type Country struct {
	ISO2 string `json:"iso_2"`
}

// ToFeedRegion converts the wire region into the build's read model
func (r *Region) ToFeedRegion() (regionOut feed.Region) {
	regionOut = feed.Region{
		ID:           r.ID,
		CurrencyCode: r.CurrencyCode,
	}
	for i := range r.Countries {
		regionOut.Countries = append(regionOut.Countries, r.Countries[i].ISO2)
	}
	return regionOut
}

// Image is one gallery entry of a product
type Image struct {
	URL string `json:"url"`
}

// ProductType labels a product's category line
type ProductType struct {
	Value string `json:"value"`
}

// SalesChannel is one distribution context a product is published to
type SalesChannel struct {
	ID string `json:"id"`
}

// ProductOption names a merchandising axis, e.g. Color
type ProductOption struct {
	Title string `json:"title"`
}

// OptionValue is one variant option as the store API ships it
type OptionValue struct {
	Value  string         `json:"value"`
	Option *ProductOption `json:"option"`
}

// Variant is the wire shape of one sellable unit. The price fields are
// only present when the product page was requested under a pricing
// context.
type Variant struct {
	ID                string        `json:"id"`
	SKU               string        `json:"sku"`
	Options           []OptionValue `json:"options"`
	OriginalPrice     *int64        `json:"original_price"`
	CalculatedPrice   *int64        `json:"calculated_price"`
	InventoryQuantity int           `json:"inventory_quantity"`
}

// Product is the wire shape of one catalog record
type Product struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Handle        string         `json:"handle"`
	Thumbnail     string         `json:"thumbnail"`
	Images        []Image        `json:"images"`
	Material      string         `json:"material"`
	Type          *ProductType   `json:"type"`
	SalesChannels []SalesChannel `json:"sales_channels"`
	Variants      []Variant      `json:"variants"`
}

// ToFeedProduct converts the wire product into the build's read model
func (p *Product) ToFeedProduct() (productOut feed.Product) {
	productOut = feed.Product{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		Handle:       p.Handle,
		ThumbnailURL: p.Thumbnail,
		Material:     p.Material,
	}
	if p.Type != nil {
		productOut.TypeLabel = p.Type.Value
	}
	for i := range p.Images {
		productOut.ImageURLs = append(productOut.ImageURLs, p.Images[i].URL)
	}
	for i := range p.SalesChannels {
		productOut.SalesChannelIDs = append(productOut.SalesChannelIDs, p.SalesChannels[i].ID)
	}
	for i := range p.Variants {
		productOut.Variants = append(productOut.Variants, p.Variants[i].ToFeedVariant())
	}
	return productOut
}

// ToFeedVariant converts the wire variant, flattening the nested
// option titles
func (v *Variant) ToFeedVariant() (variantOut feed.Variant) {
	variantOut = feed.Variant{
		ID:               v.ID,
		SKU:              v.SKU,
		OriginalAmount:   v.OriginalPrice,
		CalculatedAmount: v.CalculatedPrice,
	}
	for i := range v.Options {
		var title string
		if v.Options[i].Option != nil {
			title = v.Options[i].Option.Title
		}
		variantOut.Options = append(variantOut.Options, feed.OptionValue{
			Title: title,
			Value: v.Options[i].Value,
		})
	}
	return variantOut
}

type regionsResponse struct {
	Regions []Region `json:"regions"`
}

type productsResponse struct {
	Products []Product `json:"products"`
	Count    int       `json:"count"`
}

type variantsResponse struct {
	Variants []Variant `json:"variants"`
}
