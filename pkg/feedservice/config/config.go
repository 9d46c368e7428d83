package config

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"strconv"
	"time"

	"github.com/Oak-Digital/medusa-product-feed/pkg/collection"

	"gopkg.in/yaml.v2"
)

var (
	EnvVars = []string{
		"MEDUSA_BASEURL",
		"MEDUSA_PUBLISHABLE_KEY",
		"FEED_LINK",
		"SERVER_PORT",
		"SFTP_PASSWORD",
		"EMAIL_PW",
	}
)

type medusaConfig struct {
	BaseURL        string `yaml:"baseurl"`
	PublishableKey string `yaml:"publishablekey"`
}

type feedConfig struct {
	Title         string `yaml:"title"`
	Link          string `yaml:"link"`
	Description   string `yaml:"description"`
	Brand         string `yaml:"brand"`
	BatchSize     int    `yaml:"batchsize"`
	CacheTTLHours int    `yaml:"cachettlhours"`
}

type serverConfig struct {
	Port     int    `yaml:"port"`
	WarmCron string `yaml:"warmcron"`
}

type sftpConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Dir      string `yaml:"dir"`
}

type emailConfig struct {
	Name       string   `yaml:"name"`
	Server     string   `yaml:"server"`
	Password   string   `yaml:"password"`
	Recipients []string `yaml:"recipients"`
}

// File contains all settings for a feed service instance
type File struct {
	Medusa medusaConfig `yaml:"medusa"`
	Feed   feedConfig   `yaml:"feed"`
	Server serverConfig `yaml:"server"`
	SFTP   sftpConfig   `yaml:"sftp"`
	Email  emailConfig  `yaml:"email"`
}

// New returns a pointer to a config object. Values from the
// environment win over values from the file.
func New(filePath string) (cfg *File, err error) {
	cfg = new(File)

	yamlFile, err := ioutil.ReadFile(filePath)
	if err != nil {
		return cfg, err
	}

	err = yaml.Unmarshal(yamlFile, &cfg)
	if err != nil {
		return cfg, err
	}

	envs := getEnvs(EnvVars)
	if envs["MEDUSA_BASEURL"] != "" {
		cfg.Medusa.BaseURL = envs["MEDUSA_BASEURL"]
	}
	if envs["MEDUSA_PUBLISHABLE_KEY"] != "" {
		cfg.Medusa.PublishableKey = envs["MEDUSA_PUBLISHABLE_KEY"]
	}
	if envs["FEED_LINK"] != "" {
		cfg.Feed.Link = envs["FEED_LINK"]
	}
	if envs["SERVER_PORT"] != "" {
		port, err := strconv.Atoi(envs["SERVER_PORT"])
		if err != nil {
			return cfg, fmt.Errorf("Couldn't parse SERVER_PORT - %v", err)
		}
		cfg.Server.Port = port
	}
	if envs["SFTP_PASSWORD"] != "" {
		cfg.SFTP.Password = envs["SFTP_PASSWORD"]
	}
	if envs["EMAIL_PW"] != "" {
		cfg.Email.Password = envs["EMAIL_PW"]
	}

	return cfg, nil
}

// SetHost let's you override the backend host from the config file
func (cfg *File) SetHost(newHost string) {
	cfg.Medusa.BaseURL = newHost
}

// GetMedusa returns the backend base url and the publishable key
func (cfg *File) GetMedusa() (baseURL, publishableKey string, err error) {
	if cfg.Medusa.BaseURL == "" {
		return baseURL, publishableKey, errors.New("Couldn't load medusa config")
	}
	return cfg.Medusa.BaseURL, cfg.Medusa.PublishableKey, nil
}

// GetFeed returns the presentation fields stamped on every feed
func (cfg *File) GetFeed() (title, link, description, brand string, err error) {
	if collection.AnyEmpty(
		[]*string{
			&cfg.Feed.Title,
			&cfg.Feed.Link,
		},
	) {
		return title, link, description, brand, errors.New("Couldn't load feed config")
	}
	return cfg.Feed.Title, cfg.Feed.Link, cfg.Feed.Description, cfg.Feed.Brand, nil
}

// GetBatching returns the catalog page size and the render cache TTL
func (cfg *File) GetBatching() (batchSize int, ttl time.Duration) {
	batchSize = cfg.Feed.BatchSize
	if batchSize <= 0 {
		batchSize = 50
	}

	hours := cfg.Feed.CacheTTLHours
	if hours <= 0 {
		hours = 12
	}
	return batchSize, time.Duration(hours) * time.Hour
}

// GetServer returns the listen port and the warm schedule
func (cfg *File) GetServer() (port int, warmCron string) {
	port = cfg.Server.Port
	if port == 0 {
		port = 8080
	}
	return port, cfg.Server.WarmCron
}

// GetEmail returns the sender, mail server, password, and recipients
// for failure notifications. All empty when notifications are off.
func (cfg *File) GetEmail() (name, server, password string, recipients []string) {
	return cfg.Email.Name, cfg.Email.Server, cfg.Email.Password, cfg.Email.Recipients
}

// GetSFTP returns host, port, username, password, and remote dir
func (cfg *File) GetSFTP() (host string, port int, username, password, dir string, err error) {
	if cfg.SFTP.Host == "" {
		return host, port, username, password, dir, errors.New("Couldn't load SFTP config")
	}

	port = cfg.SFTP.Port
	if port == 0 {
		port = 22
	}
	return cfg.SFTP.Host, port, cfg.SFTP.Username, cfg.SFTP.Password, cfg.SFTP.Dir, nil
}

func getEnvs(names []string) map[string]string {
	variables := make(map[string]string, len(names))
	for _, n := range names {
		variables[n] = os.Getenv(n)
	}
	return variables
}
