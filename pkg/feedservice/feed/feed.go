package feed

// Mode selects the output shape of a feed build
type Mode string

const (
	// ModeJSON emits a bare array of feed items
	ModeJSON Mode = "json"
	// ModeXML emits an rss document carrying the merchant namespace
	ModeXML Mode = "xml"
)

const (
	// DefaultBatchSize bounds how many products one catalog page carries
	DefaultBatchSize = 50
	// MaxConcurrentMappers defines how many variants are mapped simultaneously
	MaxConcurrentMappers = 8
)

// Backend is the store API a feed is built from. Implementations fetch
// catalog pages with prices already computed for the requested pricing
// context.
type Backend interface {
	ListRegions() ([]Region, error)
	CountProducts() (int, error)
	FetchProductPage(pc PricingContext, offset, take int) ([]Product, error)
	GetAvailability(variantIDs []string, salesChannelID string) (map[string]int, error)
}
