package feed

import (
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/Oak-Digital/medusa-product-feed/pkg/collection"
)

// normalizeOptions flattens a variant's option values into feed
// fields. Placeholder values carrying the "default"/"Default" marker
// are dropped, as are entries missing a title or a value. JSON mode
// keys the lowercased title as is; XML mode sanitizes the title into a
// tag name, prefixed when the merchant namespace is enabled. A later
// option with a colliding key overwrites the earlier one.
func normalizeOptions(values []OptionValue, mode Mode, nsPrefix bool) *orderedmap.OrderedMap[string, string] {
	out := orderedmap.New[string, string]()

	for i := range values {
		if strings.Contains(values[i].Value, "default") || strings.Contains(values[i].Value, "Default") {
			continue
		}
		if collection.AnyEmpty([]*string{&values[i].Title, &values[i].Value}) {
			continue
		}

		key := strings.ToLower(values[i].Title)
		if mode == ModeXML {
			key = collection.SanitizeKey(values[i].Title)
			if nsPrefix {
				key = MerchantPrefix + key
			}
		}

		out.Set(key, values[i].Value)
	}

	return out
}
