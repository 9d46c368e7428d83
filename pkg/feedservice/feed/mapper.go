package feed

import (
	"fmt"
	"net/url"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"golang.org/x/sync/errgroup"
)

// HookContext hands a transform hook the raw records behind an item
type HookContext struct {
	Product      *Product
	Variant      *Variant
	Availability int
	RegionID     string
	CurrencyCode string
}

// TransformFunc may rewrite an item before the filters run. Returning
// a nil item keeps the input; returning an error aborts the build.
type TransformFunc func(item *Item, hc HookContext) (*Item, error)

// Hooks collects the optional per-item stages. They always run in the
// same order: transform, include filter, exclude filter, empty strip.
type Hooks struct {
	Transform TransformFunc
	Include   []string
	Exclude   []string
}

type mapJob struct {
	product *Product
	variant *Variant
}

// mapBatch maps every priced variant of one product page into feed
// items, returned in product-then-variant order. Variants are mapped
// concurrently since no item depends on another; the first hook error
// aborts the batch.
func (b *Builder) mapBatch(products []Product, avail map[string]int, pc PricingContext, p Params) ([]*Item, error) {
	var jobs []mapJob
	for i := range products {
		for j := range products[i].Variants {
			if !products[i].Variants[j].HasPrice() {
				continue
			}
			jobs = append(jobs, mapJob{
				product: &products[i],
				variant: &products[i].Variants[j],
			})
		}
	}

	items := make([]*Item, len(jobs))
	var g errgroup.Group
	g.SetLimit(MaxConcurrentMappers)
	for i := range jobs {
		i := i
		g.Go(func() error {
			qty := avail[jobs[i].variant.ID]
			item := b.mapVariant(jobs[i].product, jobs[i].variant, qty, pc, p)

			item, err := applyHooks(item, p.Hooks, HookContext{
				Product:      jobs[i].product,
				Variant:      jobs[i].variant,
				Availability: qty,
				RegionID:     pc.RegionID,
				CurrencyCode: pc.CurrencyCode,
			})
			if err != nil {
				return err
			}

			items[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return items, nil
}

// mapVariant assembles the full field set for one variant. Normalized
// options are merged last and may overwrite a core field of the same
// name.
func (b *Builder) mapVariant(p *Product, v *Variant, qty int, pc PricingContext, params Params) *Item {
	options := normalizeOptions(v.Options, params.Mode, params.NamespacePrefix)
	currency := strings.ToUpper(pc.CurrencyCode)
	key := fieldKey(params.Mode, params.NamespacePrefix)
	img1, img2 := additionalImages(p)

	item := NewItem()
	item.Set(key("id"), v.ID)
	if params.Mode == ModeXML {
		item.Set(key("item_group_id"), p.ID)
	} else {
		item.Set("itemgroup_id", p.ID)
	}
	item.Set(key("title"), p.Title)
	item.Set(key("description"), p.Description)
	item.Set(key("link"), buildLink(b.opts.Link, p.Handle, options))
	item.Set(key("image_link"), p.ThumbnailURL)
	item.Set(key("additional_image_1"), img1)
	item.Set(key("additional_image_2"), img2)
	item.Set(key("brand"), b.opts.Brand)
	if params.Mode == ModeXML {
		item.Set(key("condition"), "new")
		item.Set(key("availability"), stockLabel(qty))
		item.Set(key("price"), formatPrice(v.OriginalAmount, currency))
		item.Set(key("sale_price"), formatPrice(v.CalculatedAmount, currency))
	} else {
		item.Set("price", formatPrice(v.OriginalAmount, currency))
		item.Set("sale_price", formatPrice(v.CalculatedAmount, currency))
		item.Set("availability", qty)
	}
	item.Set(key("mpn"), v.SKU)
	item.Set(key("product_type"), p.TypeLabel)
	item.Set(key("material"), p.Material)

	for pair := options.Oldest(); pair != nil; pair = pair.Next() {
		item.Set(pair.Key, pair.Value)
	}

	return item
}

func applyHooks(item *Item, hooks Hooks, hc HookContext) (*Item, error) {
	if hooks.Transform != nil {
		out, err := hooks.Transform(item, hc)
		if err != nil {
			return nil, &HookError{VariantID: hc.Variant.ID, Err: err}
		}
		if out != nil {
			item = out
		}
	}
	if len(hooks.Include) > 0 {
		item.filterInclude(hooks.Include)
	}
	if len(hooks.Exclude) > 0 {
		item.filterExclude(hooks.Exclude)
	}
	item.stripEmpty()

	return item, nil
}

func fieldKey(mode Mode, nsPrefix bool) func(string) string {
	if mode == ModeXML && nsPrefix {
		return func(name string) string {
			return MerchantPrefix + name
		}
	}
	return func(name string) string {
		return name
	}
}

func formatPrice(amount *int64, currency string) string {
	if amount == nil {
		return ""
	}
	return fmt.Sprintf("%d %s", *amount, currency)
}

func stockLabel(qty int) string {
	if qty > 0 {
		return "in stock"
	}
	return "out of stock"
}

// buildLink points at the product page, carrying the normalized
// options in the query string so a landing page can preselect the
// variant
func buildLink(base, handle string, options *orderedmap.OrderedMap[string, string]) string {
	link := strings.TrimRight(base, "/") + "/" + handle
	if options.Len() == 0 {
		return link
	}

	q := url.Values{}
	for pair := options.Oldest(); pair != nil; pair = pair.Next() {
		q.Set(pair.Key, pair.Value)
	}
	return link + "?" + q.Encode()
}

// additionalImages picks up to two gallery images that are neither the
// thumbnail nor duplicates, in catalog order
func additionalImages(p *Product) (first, second string) {
	for i := range p.ImageURLs {
		u := p.ImageURLs[i]
		if u == "" || u == p.ThumbnailURL || u == first {
			continue
		}
		if first == "" {
			first = u
			continue
		}
		second = u
		break
	}
	return first, second
}
