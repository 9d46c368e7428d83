package cache

import (
	"time"

	badger "github.com/dgraph-io/badger"
	log "github.com/sirupsen/logrus"
	zip "github.com/Oak-Digital/medusa-product-feed/pkg/zip"
)

// BadgerCache stores gzipped feed documents on disk with a TTL, so a
// restarted server can keep serving warm feeds without rebuilding them.
type BadgerCache struct {
	db  *badger.DB
	ttl time.Duration
}

// NewBadgerCache returns a Cache, takes path to cache dir on disk (creates it if neccessary)
func NewBadgerCache(file string, ttl time.Duration) (c Cache, err error) {
	l := log.New()
	l.SetFormatter(&log.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	})
	l.SetLevel(log.WarnLevel)
	db, err := badger.Open(badger.DefaultOptions(file).WithLogger(l))
	if err != nil {
		return c, err
	}
	return BadgerCache{
		db:  db,
		ttl: ttl,
	}, nil
}

// Load returns the unzipped payload for key. A missing or expired key
// comes back as an error; callers treat that as a miss and rebuild.
func (b BadgerCache) Load(key string) (payload []byte, err error) {
	var zipped []byte
	err = b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}

		zipped, err = item.ValueCopy(nil)
		if err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	payload, err = zip.Unzip(zipped)
	if err != nil {
		return nil, err
	}

	return payload, err
}

func (b BadgerCache) Store(updates map[string][]byte) (err error) {
	var payload []byte
	txn := b.db.NewTransaction(true)
	for k, v := range updates {
		payload, err = zip.Zip(v)
		if err != nil {
			return err
		}
		e := badger.NewEntry([]byte(k), payload).WithTTL(b.ttl)
		if err := txn.SetEntry(e); err == badger.ErrTxnTooBig {
			_ = txn.Commit()
			txn = b.db.NewTransaction(true)
			_ = txn.SetEntry(e)
		}
	}
	err = txn.Commit()
	if err != nil {
		return err
	}

	return nil
}

func (b BadgerCache) LoadAll() (outputs map[string][]byte, err error) {
	outputs = make(map[string][]byte)
	err = b.db.View(func(txn *badger.Txn) error {
		var k []byte
		var item *badger.Item

		opts := badger.DefaultIteratorOptions
		opts.PrefetchSize = 10

		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item = it.Item()
			k = item.Key()
			err := item.Value(func(v []byte) error {
				v, _ = zip.Unzip(v)
				outputs[string(k)] = v
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	return outputs, err
}

func (b BadgerCache) Close() {
	b.db.Close()
}
