package main

import (
	"flag"
	"time"

	log "github.com/sirupsen/logrus"

	gfy "github.com/Oak-Digital/medusa-product-feed/pkg/feedservice"
	config "github.com/Oak-Digital/medusa-product-feed/pkg/feedservice/config"
	feed "github.com/Oak-Digital/medusa-product-feed/pkg/feedservice/feed"
	"github.com/Oak-Digital/medusa-product-feed/pkg/feedservice/helpers"
)

const (
	FormatDefault = "xml"
	FormatUsage   = "permitted options: xml, json, and csv"
	ConfigUsage   = "path to the yaml config file, defaults to config/config.yml in the project dir"
	HostUsage     = "override the Medusa backend from config, e.g. http://localhost:9000 for development"
	OutUsage      = "directory the feed file is written into, defaults to dump/ in the project dir"
	RegionUsage   = "pricing region id, defaults to the first configured region"
	CurrencyUsage = "iso currency code selecting the pricing region"
	CountryUsage  = "iso country code selecting the pricing region"
	UploadUsage   = "upload the written feed via sftp"
	PruneUsage    = "remove previously uploaded feeds from the sftp dir first"
)

var (
	formatFlag   string
	configFlag   string
	hostFlag     string
	outFlag      string
	regionFlag   string
	currencyFlag string
	countryFlag  string
	uploadFlag   bool
	pruneFlag    bool
	// BuildTime will be populated by the linker to tell builds appart after they were shipped
	BuildTime string
)

func init() {
	flag.StringVar(&formatFlag, "format", FormatDefault, FormatUsage)
	flag.StringVar(&configFlag, "config", "", ConfigUsage)
	flag.StringVar(&hostFlag, "host", "", HostUsage)
	flag.StringVar(&outFlag, "out", "", OutUsage)
	flag.StringVar(&regionFlag, "region", "", RegionUsage)
	flag.StringVar(&currencyFlag, "currency", "", CurrencyUsage)
	flag.StringVar(&countryFlag, "country", "", CountryUsage)
	flag.BoolVar(&uploadFlag, "upload", false, UploadUsage)
	flag.BoolVar(&pruneFlag, "prune", false, PruneUsage)
}

func main() {
	flag.Parse()

	log.SetFormatter(&log.TextFormatter{
		DisableColors: false,
		FullTimestamp: true,
	})

	log.WithFields(
		log.Fields{
			"Image Built on": BuildTime,
			"Started at":     time.Now().UTC(),
		},
	).Println("Feed dump started")

	configPath := configFlag
	if configPath == "" {
		configPath = helpers.FindFolderDir("medusa-product-feed") + "/config/config.yml"
	}

	cfg, err := config.New(configPath)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if len(hostFlag) > 0 {
		if helpers.IsOnline(hostFlag) {
			log.WithField(hostFlag, "GET successful").Println("Custom host flag set")
			cfg.SetHost(hostFlag)
		} else {
			log.WithField(hostFlag, "Couldn't GET").Println("Custom host flag rejected")
		}
	}

	svc, err := gfy.NewDumper(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	outDir := outFlag
	if outDir == "" {
		outDir = helpers.FindFolderDir("medusa-product-feed") + "/dump"
	}

	path, err := svc.Dump(
		feed.Params{
			RegionID:    regionFlag,
			Currency:    currencyFlag,
			CountryCode: countryFlag,
		},
		formatFlag,
		outDir,
	)
	if err != nil {
		log.Fatalf("%v", err)
	}
	log.WithField("file", path).Infoln("Feed written")

	if pruneFlag {
		if err := svc.PruneRemote(); err != nil {
			log.Fatalf("%v", err)
		}
	}

	if uploadFlag {
		if err := svc.Push(path); err != nil {
			log.Fatalf("%v", err)
		}
	}
}
