package feedservice

import (
	"fmt"
	"io/ioutil"
	"os"
	"regexp"
	"strconv"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/Oak-Digital/medusa-product-feed/pkg/cache"
	cfg "github.com/Oak-Digital/medusa-product-feed/pkg/feedservice/config"
	feed "github.com/Oak-Digital/medusa-product-feed/pkg/feedservice/feed"
	"github.com/Oak-Digital/medusa-product-feed/pkg/feedservice/helpers"
	"github.com/Oak-Digital/medusa-product-feed/pkg/medusa"
	"github.com/Oak-Digital/medusa-product-feed/pkg/sftp"
)

var (
	// ImplementedFormats lists the eligible dump formats
	ImplementedFormats = [...]string{
		"xml",
		"json",
		"csv",
	}

	feedFilePattern = regexp.MustCompile(`^feed_.*\.(xml|json|csv)$`)
)

// FeedService is the central process that brings together building,
// caching and delivering the product feeds
type FeedService struct {
	mux       *sync.Mutex
	errs      PipelineErrors
	cfg       *cfg.File
	backend   feed.Backend
	builder   *feed.Builder
	store     cache.Cache
	batchSize int
}

// New initializes a FeedService against the configured Medusa backend,
// with a disk cache for rendered feeds
func New(config *cfg.File) (p *FeedService, err error) {
	client, err := newBackend(config)
	if err != nil {
		return p, err
	}

	_, ttl := config.GetBatching()
	store, err := newCache("feeds", ttl)
	if err != nil {
		return p, err
	}
	if warm, err := store.LoadAll(); err == nil && len(warm) > 0 {
		log.WithField("feeds", len(warm)).Infoln("Render cache carries warm feeds")
	}

	return NewWithBackend(config, client, store)
}

// NewDumper wires a FeedService for one-shot dumps, skipping the cache
// so it never competes with a running server for the badger dir
func NewDumper(config *cfg.File) (p *FeedService, err error) {
	client, err := newBackend(config)
	if err != nil {
		return p, err
	}

	return NewWithBackend(config, client, nil)
}

// NewWithBackend wires a FeedService around any catalog backend and cache
func NewWithBackend(config *cfg.File, backend feed.Backend, store cache.Cache) (p *FeedService, err error) {
	title, link, description, brand, err := config.GetFeed()
	if err != nil {
		return p, err
	}

	p = &FeedService{
		mux:     new(sync.Mutex),
		cfg:     config,
		backend: backend,
		store:   store,
	}
	p.errs = NewPE(p.mux)
	p.batchSize, _ = config.GetBatching()

	p.builder = feed.NewBuilder(backend, &feed.Options{
		Title:       title,
		Link:        link,
		Description: description,
		Brand:       brand,
	})

	return p, nil
}

// Get returns a rendered feed for the given parameters, serving from
// the cache when possible. Paged requests are cheap and always built
// on demand.
func (p *FeedService) Get(params feed.Params) (payload []byte, err error) {
	defer track(time.Now(), "Serve feed")

	pc, err := p.builder.ResolvePricingContext(params)
	if err != nil {
		return payload, err
	}
	params.RegionID = pc.RegionID
	if params.PageSize <= 0 {
		params.PageSize = p.batchSize
	}

	if p.store == nil || params.Page > 0 {
		return p.build(params)
	}

	key := cache.Key(string(params.Mode), pc.RegionID)
	if payload, err = p.store.Load(key); err == nil {
		log.WithField("key", key).Infoln("Served feed from cache")
		return payload, nil
	}

	payload, err = p.build(params)
	if err != nil {
		return payload, err
	}

	if err := p.store.Store(map[string][]byte{key: payload}); err != nil {
		log.WithField("Error", err).Warningln("Couldn't cache feed")
	}

	return payload, nil
}

// WarmCache builds and stores the full xml and json feeds for every
// region, so requests never wait on a cold build. Regions fail
// independently; a summary error reports the ones that did.
func (p *FeedService) WarmCache() error {
	defer track(time.Now(), "WarmCache")

	if p.store == nil {
		return fmt.Errorf("Warming needs a cache")
	}

	regions, err := p.backend.ListRegions()
	if err != nil {
		return fmt.Errorf("Couldn't list regions - %v", err)
	}

	p.errs.Reset()

	var modes = [...]feed.Mode{feed.ModeXML, feed.ModeJSON}
	for i := range regions {
		for _, mode := range modes {
			params := feed.Params{
				RegionID: regions[i].ID,
				PageSize: p.batchSize,
				Mode:     mode,
			}

			payload, err := p.build(params)
			if err != nil {
				p.errs.Log(
					PipelineError{IsNonCritical: true, Message: err},
					fmt.Sprintf("Warm %s feed for %s", mode, regions[i].ID),
				)
				continue
			}

			key := cache.Key(string(mode), regions[i].ID)
			if err := p.store.Store(map[string][]byte{key: payload}); err != nil {
				p.errs.Log(
					PipelineError{IsNonCritical: true, Message: err},
					fmt.Sprintf("Cache %s feed for %s", mode, regions[i].ID),
				)
			}
		}
	}

	if len(p.errs.Errors) > 0 {
		log.WithFields(
			log.Fields{
				"Errors":               p.errs.Error(),
				"Max Memory Allocated": p.errs.GetMaxMemory(),
			},
		).Errorln("Finished warming with errors")
		return p.errs
	}

	log.WithFields(
		log.Fields{
			"Max Memory Allocated": p.errs.GetMaxMemory(),
		},
	).Infoln("Finished warming without errors")

	return nil
}

// Dump renders one feed into dir and returns the written path
func (p *FeedService) Dump(params feed.Params, format, dir string) (path string, err error) {
	defer track(time.Now(), "Dump")

	format, err = checkFormat(format)
	if err != nil {
		return path, err
	}

	pc, err := p.builder.ResolvePricingContext(params)
	if err != nil {
		return path, err
	}
	params.RegionID = pc.RegionID
	if params.PageSize <= 0 {
		params.PageSize = p.batchSize
	}

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		os.Mkdir(dir, os.ModePerm)
	}
	path = fmt.Sprintf("%s/feed_%s.%s", dir, pc.RegionID, format)

	switch format {
	case "csv":
		params.Mode = feed.ModeJSON
		items, err := p.builder.BuildItems(params)
		if err != nil {
			return path, err
		}
		return path, feed.DumpToCSV(items, path)
	case "json":
		payload, err := p.builder.BuildJSON(params)
		if err != nil {
			return path, err
		}
		return path, ioutil.WriteFile(path, payload, 0644)
	default:
		payload, err := p.builder.BuildXML(params)
		if err != nil {
			return path, err
		}
		return path, ioutil.WriteFile(path, payload, 0644)
	}
}

// Push uploads a dumped feed file via SFTP
func (p *FeedService) Push(localPath string) error {
	defer track(time.Now(), "Push")

	host, port, user, password, dir, err := p.cfg.GetSFTP()
	if err != nil {
		return fmt.Errorf("Pushing %s - %v", localPath, err)
	}

	sess, err := sftp.NewSession(host, user, password, port)
	if err != nil {
		return fmt.Errorf("Pushing %s - %v", localPath, err)
	}
	defer sess.Close()

	remotePath, err := sess.Upload(localPath, dir)
	if err != nil {
		return fmt.Errorf("Pushing %s - %v", localPath, err)
	}

	log.WithFields(
		log.Fields{
			"local":  localPath,
			"remote": remotePath,
		},
	).Infoln("Uploaded feed")

	return nil
}

// PruneRemote removes previously uploaded feed files from the remote
// directory
func (p *FeedService) PruneRemote() error {
	defer track(time.Now(), "PruneRemote")

	host, port, user, password, dir, err := p.cfg.GetSFTP()
	if err != nil {
		return fmt.Errorf("Pruning old feeds - %v", err)
	}
	sess, err := sftp.NewSession(host, user, password, port)
	if err != nil {
		return fmt.Errorf("Pruning old feeds - %v", err)
	}
	defer sess.Close()

	files, err := sess.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("Pruning old feeds - %v", err)
	}

	var (
		name    string
		removed int
	)
	for i := range files {
		if i%250 == 0 {
			progressBar(i, len(files))
		}
		if files[i].IsDir() == true {
			continue
		}
		name = files[i].Name()
		if feedFilePattern.MatchString(name) == false {
			continue
		}
		if err := sess.Remove(dir + "/" + name); err != nil {
			log.WithField("Error", err).Warningln("Couldn't remove " + name)
			continue
		}
		removed++
	}

	log.WithField("removed", removed).Infoln("Pruned remote feeds")

	return nil
}

// Close releases the render cache
func (p *FeedService) Close() {
	if p.store != nil {
		p.store.Close()
	}
}

func (p *FeedService) build(params feed.Params) ([]byte, error) {
	if params.Mode == feed.ModeXML {
		params.NamespacePrefix = true
		return p.builder.BuildXML(params)
	}
	return p.builder.BuildJSON(params)
}

func newBackend(config *cfg.File) (feed.Backend, error) {
	baseURL, key, err := config.GetMedusa()
	if err != nil {
		return nil, err
	}

	client, err := medusa.NewClient(baseURL, key)
	if err != nil {
		return nil, fmt.Errorf("Initialize Medusa Connection - %v", err)
	}

	return client, nil
}

func newCache(name string, ttl time.Duration) (c cache.Cache, err error) {
	path := helpers.FindFolderDir("medusa-product-feed") + "/cache/"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		os.Mkdir(path, os.ModePerm)
	}
	c, err = cache.NewBadgerCache(path+name, ttl)
	if err != nil {
		return c, fmt.Errorf("Initialize Cache -%v", err)
	}

	return c, nil
}

func progressBar(completed, total int) {
	progress := float64(completed) / float64(total) * 100.0
	s := "["
	for pct := 0.0; pct <= 100.0; pct += 4.0 {
		if pct <= progress {
			s += "#"
		} else {
			s += "-"
		}
	}
	s += fmt.Sprintf("] %s%% completed\n", strconv.FormatFloat(progress, 'f', 2, 64))
	log.WithField("Progress", s).Infoln("Processing feed")
}

func track(start time.Time, name string) {
	elapsed := time.Since(start)

	log.WithField("time elapsed", elapsed).Info(name)
}

func checkFormat(format string) (f string, err error) {
	for i := range ImplementedFormats {
		if format == ImplementedFormats[i] {
			f = format
		}
	}
	if f == "" {
		return f, fmt.Errorf("Only implemented formats are: 'xml', 'json', and 'csv'")
	}

	return f, nil
}
