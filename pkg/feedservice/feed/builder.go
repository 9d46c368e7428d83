package feed

import (
	"encoding/json"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// Options carries the static channel metadata every feed document
// shares. Built once from configuration, injected by reference and
// never mutated during a build.
type Options struct {
	Title       string
	Link        string
	Description string
	Brand       string
}

// Params selects what one build call produces. RegionID, Currency and
// CountryCode narrow the pricing region; Page and PageSize pick a
// single catalog page instead of the full feed.
type Params struct {
	RegionID        string
	Currency        string
	CountryCode     string
	Page            int
	PageSize        int
	Mode            Mode
	NamespacePrefix bool
	Hooks           Hooks
}

// Builder drives the feed pipeline against a store backend. One
// builder serves any number of builds; each call owns its accumulator
// and lookup tables exclusively.
type Builder struct {
	backend Backend
	opts    *Options
}

// NewBuilder returns a Builder rendering feeds for backend with the
// given channel metadata
func NewBuilder(backend Backend, opts *Options) *Builder {
	return &Builder{
		backend: backend,
		opts:    opts,
	}
}

// BuildItems runs the full pipeline and returns the mapped records in
// catalog order: pricing context, then batch by batch fetch, per
// channel availability, variant mapping. Any failure aborts the build,
// a partial feed is never returned.
func (b *Builder) BuildItems(p Params) (items []*Item, err error) {
	defer track(time.Now(), "BuildItems")

	pc, err := b.ResolvePricingContext(p)
	if err != nil {
		return nil, err
	}

	total, err := b.backend.CountProducts()
	if err != nil {
		return nil, fmt.Errorf("Couldn't count products - %v", err)
	}

	pg := newPaginator(total, p.PageSize, p.Page)
	log.WithFields(log.Fields{
		"region":   pc.RegionID,
		"currency": pc.CurrencyCode,
		"products": total,
		"batches":  pg.Remaining(),
		"mode":     p.Mode,
	}).Infoln("Building feed")

	for {
		offset, take, ok := pg.Next()
		if !ok {
			break
		}

		products, err := b.backend.FetchProductPage(pc, offset, take)
		if err != nil {
			return nil, fmt.Errorf("Couldn't fetch product page at offset %d - %v", offset, err)
		}
		if len(products) == 0 {
			continue
		}

		avail, err := resolveAvailability(b.backend, products)
		if err != nil {
			return nil, err
		}

		batch, err := b.mapBatch(products, avail, pc, p)
		if err != nil {
			return nil, err
		}
		items = append(items, batch...)
	}

	return items, nil
}

// BuildJSON renders the bare item array
func (b *Builder) BuildJSON(p Params) ([]byte, error) {
	p.Mode = ModeJSON
	p.NamespacePrefix = false

	items, err := b.BuildItems(p)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*Item{}
	}

	return json.Marshal(items)
}

// BuildXML renders the merchant rss document
func (b *Builder) BuildXML(p Params) ([]byte, error) {
	p.Mode = ModeXML

	items, err := b.BuildItems(p)
	if err != nil {
		return nil, err
	}

	return renderRSS(b.opts, items)
}

func track(start time.Time, name string) {
	elapsed := time.Since(start)

	log.WithField("time elapsed", elapsed).Info(name)
}
