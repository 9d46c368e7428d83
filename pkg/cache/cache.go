package cache

// Cache is an interface that wraps a key value store holding rendered
// feed documents, keyed "<mode>/<regionID>"
type Cache interface {
	Load(key string) ([]byte, error)
	LoadAll() (map[string][]byte, error)
	Store(map[string][]byte) error
	Close()
}

// Key builds the store key for one rendered feed
func Key(mode, regionID string) string {
	return mode + "/" + regionID
}
