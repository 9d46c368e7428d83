package testsuite

import (
	"encoding/json"
	"io/ioutil"
	"path/filepath"
	"strings"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/Oak-Digital/medusa-product-feed/pkg/cache"
	"github.com/Oak-Digital/medusa-product-feed/pkg/feedservice"
	"github.com/Oak-Digital/medusa-product-feed/pkg/feedservice/config"
	feed "github.com/Oak-Digital/medusa-product-feed/pkg/feedservice/feed"
)

var configYaml = []byte(`medusa:
  baseurl: https://backend.example.com
feed:
  title: Oak Webshop
  link: https://shop.example.com
  description: All our products
  brand: Oak
`)

// FeedTestSuite runs the whole pipeline against a scripted catalog,
// from region resolution down to the rendered documents
type FeedTestSuite struct {
	suite.Suite
	cfg     *config.File
	backend *feed.TestBackend
	svc     *feedservice.FeedService
}

// SetupTest wires a fresh service with its own cache dir for every test
func (s *FeedTestSuite) SetupTest() {
	configPath := filepath.Join(s.T().TempDir(), "config.yml")
	err := ioutil.WriteFile(configPath, configYaml, 0644)
	require.Nil(s.T(), err)

	s.cfg, err = config.New(configPath)
	require.Nil(s.T(), err)

	store, err := cache.NewBadgerCache(filepath.Join(s.T().TempDir(), "feeds"), time.Hour)
	require.Nil(s.T(), err)

	s.backend = feed.NewTestBackend()
	s.svc, err = feedservice.NewWithBackend(s.cfg, s.backend, store)
	require.Nil(s.T(), err)
}

func (s *FeedTestSuite) TearDownTest() {
	s.svc.Close()
}

// TestSetup checks whether the setup has been completed successfully
func (s *FeedTestSuite) TestSetup() {
	assert.NotNil(s.T(), s.svc, s.backend)

	title, link, _, _, err := s.cfg.GetFeed()
	assert.Nil(s.T(), err)
	assert.NotEqual(s.T(), title, "")
	assert.NotEqual(s.T(), link, "")
}

// TestJSONDocument pins the exact json shape for the scripted catalog
func (s *FeedTestSuite) TestJSONDocument() {
	payload, err := s.svc.Get(feed.Params{Mode: feed.ModeJSON})
	require.Nil(s.T(), err)

	var items []map[string]interface{}
	err = json.Unmarshal(payload, &items)
	require.Nil(s.T(), err)
	require.Equal(s.T(), 1, len(items))

	item := items[0]
	assert.Equal(s.T(), "v1", item["id"])
	assert.Equal(s.T(), "prod_01", item["itemgroup_id"])
	assert.Equal(s.T(), "Test Jacket", item["title"])
	assert.Equal(s.T(), "A jacket to test with", item["description"])
	assert.Equal(s.T(), "https://shop.example.com/test-jacket?color=Red", item["link"])
	assert.Equal(s.T(), "https://cdn.example.com/jacket.jpg", item["image_link"])
	assert.Equal(s.T(), "https://cdn.example.com/jacket-back.jpg", item["additional_image_1"])
	assert.Equal(s.T(), "https://cdn.example.com/jacket-detail.jpg", item["additional_image_2"])
	assert.Equal(s.T(), "Oak", item["brand"])
	assert.Equal(s.T(), "1000 USD", item["price"])
	assert.Equal(s.T(), "900 USD", item["sale_price"])
	assert.Equal(s.T(), float64(3), item["availability"])
	assert.Equal(s.T(), "JCK-001", item["mpn"])
	assert.Equal(s.T(), "Jackets", item["product_type"])
	assert.Equal(s.T(), "Wool", item["material"])
	assert.Equal(s.T(), "Red", item["color"])
}

// TestMerchantDocument pins the merchant xml envelope and field order
func (s *FeedTestSuite) TestMerchantDocument() {
	payload, err := s.svc.Get(feed.Params{Mode: feed.ModeXML})
	require.Nil(s.T(), err)

	body := string(payload)
	assert.Contains(s.T(), body, `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(s.T(), body, `<rss xmlns:g="http://base.google.com/ns/1.0" version="2.0">`)
	assert.Contains(s.T(), body, "<title><![CDATA[Oak Webshop]]></title>")
	assert.Contains(s.T(), body, "<g:id><![CDATA[v1]]></g:id>")
	assert.Contains(s.T(), body, "<g:item_group_id><![CDATA[prod_01]]></g:item_group_id>")
	assert.Contains(s.T(), body, "<g:condition><![CDATA[new]]></g:condition>")
	assert.Contains(s.T(), body, "<g:availability><![CDATA[in stock]]></g:availability>")
	assert.Contains(s.T(), body, "<g:price><![CDATA[1000 USD]]></g:price>")
	assert.Contains(s.T(), body, "<g:sale_price><![CDATA[900 USD]]></g:sale_price>")
	assert.Contains(s.T(), body, "<g:color><![CDATA[Red]]></g:color>")

	assert.Less(s.T(),
		strings.Index(body, "<g:availability"),
		strings.Index(body, "<g:price"),
		"availability renders before price",
	)
}

// TestOutOfStock flips the scripted quantity to zero and checks both
// renderings keep the variant
func (s *FeedTestSuite) TestOutOfStock() {
	s.backend.Quantities["sc1"]["v1"] = 0

	payload, err := s.svc.Get(feed.Params{Mode: feed.ModeJSON})
	require.Nil(s.T(), err)
	assert.Contains(s.T(), string(payload), `"availability":0`)

	payload, err = s.svc.Get(feed.Params{Mode: feed.ModeXML})
	require.Nil(s.T(), err)
	assert.Contains(s.T(), string(payload), "<g:availability><![CDATA[out of stock]]></g:availability>")
}

// TestCachedRoundTrip serves the second request from the cache
func (s *FeedTestSuite) TestCachedRoundTrip() {
	first, err := s.svc.Get(feed.Params{Mode: feed.ModeXML})
	require.Nil(s.T(), err)

	second, err := s.svc.Get(feed.Params{Mode: feed.ModeXML})
	require.Nil(s.T(), err)

	assert.Equal(s.T(), first, second)
	assert.Equal(s.T(), 1, s.backend.CountCalls)
}

// TestDumpFormats writes all three dump formats to disk
func (s *FeedTestSuite) TestDumpFormats() {
	dir := s.T().TempDir()

	for _, format := range feedservice.ImplementedFormats {
		path, err := s.svc.Dump(feed.Params{}, format, dir)
		require.Nil(s.T(), err)

		payload, err := ioutil.ReadFile(path)
		require.Nil(s.T(), err)
		assert.NotEqual(s.T(), 0, len(payload))
	}
}
