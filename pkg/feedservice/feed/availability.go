package feed

import (
	"golang.org/x/sync/errgroup"

	"github.com/Oak-Digital/medusa-product-feed/pkg/collection"
)

// resolveAvailability builds the quantity lookup for one product
// batch. Variant ids are grouped by their product's first sales
// channel, one lookup per group, all groups in flight at once. A
// product without a channel contributes nothing and its variants fall
// back to quantity 0 downstream. Merging only starts once every group
// returned; a single failing group fails the batch. On a key collision
// the later group wins.
func resolveAvailability(b Backend, products []Product) (map[string]int, error) {
	var channels []string
	groups := make(map[string][]string)

	for i := range products {
		ch, ok := products[i].FirstSalesChannel()
		if !ok {
			continue
		}
		if _, exist := groups[ch]; !exist {
			channels = append(channels, ch)
		}
		for j := range products[i].Variants {
			groups[ch] = append(groups[ch], products[i].Variants[j].ID)
		}
	}

	results := make([]map[string]int, len(channels))
	var g errgroup.Group
	for i := range channels {
		i := i
		ids := collection.UniqueNames(groups[channels[i]])
		if len(ids) == 0 {
			continue
		}
		g.Go(func() error {
			res, err := b.GetAvailability(ids, channels[i])
			if err != nil {
				return &AvailabilityError{SalesChannelID: channels[i], Err: err}
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	lookup := make(map[string]int)
	for i := range results {
		for id, qty := range results[i] {
			lookup[id] = qty
		}
	}

	return lookup, nil
}
