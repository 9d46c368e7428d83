package feed

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/Oak-Digital/medusa-product-feed/pkg/collection"
)

// Item is one flat feed record. Fields keep their first-insert
// position even when overwritten, so an option colliding with a core
// field replaces its value without reordering the document.
type Item struct {
	fields *orderedmap.OrderedMap[string, interface{}]
}

// NewItem returns an empty feed record
func NewItem() *Item {
	return &Item{
		fields: orderedmap.New[string, interface{}](),
	}
}

// Set stores val under key
func (it *Item) Set(key string, val interface{}) {
	it.fields.Set(key, val)
}

// Get returns the raw field value
func (it *Item) Get(key string) (interface{}, bool) {
	return it.fields.Get(key)
}

// GetString renders a field as text, "" when absent
func (it *Item) GetString(key string) string {
	v, ok := it.fields.Get(key)
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// Delete removes a field
func (it *Item) Delete(key string) {
	it.fields.Delete(key)
}

// Len returns the number of fields
func (it *Item) Len() int {
	return it.fields.Len()
}

// Keys returns the field names in document order
func (it *Item) Keys() []string {
	out := make([]string, 0, it.fields.Len())
	for pair := it.fields.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// MarshalJSON renders the record as an object with fields in document
// order
func (it *Item) MarshalJSON() ([]byte, error) {
	return it.fields.MarshalJSON()
}

func (it *Item) filterInclude(keys []string) {
	for pair := it.fields.Oldest(); pair != nil; {
		next := pair.Next()
		if !collection.StringInList(pair.Key, keys) {
			it.fields.Delete(pair.Key)
		}
		pair = next
	}
}

func (it *Item) filterExclude(keys []string) {
	for pair := it.fields.Oldest(); pair != nil; {
		next := pair.Next()
		if collection.StringInList(pair.Key, keys) {
			it.fields.Delete(pair.Key)
		}
		pair = next
	}
}

func (it *Item) stripEmpty() {
	for pair := it.fields.Oldest(); pair != nil; {
		next := pair.Next()
		if pair.Value == nil || pair.Value == "" {
			it.fields.Delete(pair.Key)
		}
		pair = next
	}
}
