package main

import (
	"context"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Oak-Digital/medusa-product-feed/pkg/email"
	gfy "github.com/Oak-Digital/medusa-product-feed/pkg/feedservice"
	config "github.com/Oak-Digital/medusa-product-feed/pkg/feedservice/config"
	"github.com/Oak-Digital/medusa-product-feed/pkg/feedservice/helpers"
	"github.com/Oak-Digital/medusa-product-feed/pkg/web"
)

const (
	ConfigUsage = "path to the yaml config file, defaults to config/config.yml in the project dir"
	HostUsage   = "override the Medusa backend from config, e.g. http://localhost:9000 for development"
	PortUsage   = "override the listen port from config"
	LogUsage    = "roll server logs into this file next to stderr"
)

var (
	configFlag string
	hostFlag   string
	portFlag   int
	logFlag    string
	// BuildTime will be populated by the linker to tell builds appart after they were shipped
	BuildTime string
)

func init() {
	flag.StringVar(&configFlag, "config", "", ConfigUsage)
	flag.StringVar(&hostFlag, "host", "", HostUsage)
	flag.IntVar(&portFlag, "port", 0, PortUsage)
	flag.StringVar(&logFlag, "log", "", LogUsage)
}

func main() {
	flag.Parse()

	log.SetFormatter(&log.TextFormatter{
		DisableColors: false,
		FullTimestamp: true,
	})
	if logFlag != "" {
		log.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   logFlag,
			MaxSize:    50, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}))
	}

	log.WithFields(
		log.Fields{
			"Image Built on": BuildTime,
			"Started at":     time.Now().UTC(),
		},
	).Println("Feed server started")

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

	svc, err := gfy.New(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer svc.Close()

	port, warmCron := cfg.GetServer()
	if portFlag > 0 {
		port = portFlag
	}

	if warmCron != "" {
		sched := cron.New()
		if _, err := sched.AddFunc(warmCron, warm(svc, cfg)); err != nil {
			log.Fatalf("Couldn't schedule warming - %v", err)
		}
		sched.Start()
		defer sched.Stop()

		go warm(svc, cfg)()
	}

	server := web.NewServer(svc)
	go func() {
		if err := server.Start(port); err != nil && err != http.ErrServerClosed {
			log.Fatalf("%v", err)
		}
	}()
	log.WithField("port", port).Infoln("Serving product feeds")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("%v", err)
	}
	log.Infoln("Feed server stopped")
}

func warm(svc *gfy.FeedService, cfg *config.File) func() {
	return func() {
		err := svc.WarmCache()
		if err == nil {
			return
		}
		log.WithField("Error", err).Errorln("Warming failed")

		name, server, password, recipients := cfg.GetEmail()
		if name == "" || len(recipients) == 0 {
			return
		}
		mail := email.NewEmail(name, server, password)
		if err := mail.Send("Product feed warming failed", err.Error(), recipients); err != nil {
			log.WithField("Error", err).Errorln("Couldn't send failure mail")
		}
	}
}
