package web

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/Oak-Digital/medusa-product-feed/pkg/feedservice"
	feed "github.com/Oak-Digital/medusa-product-feed/pkg/feedservice/feed"
)

const Version = "1.0.0"

// Server exposes the product feeds over http
type Server struct {
	echo *echo.Echo
	svc  *feedservice.FeedService
}

// NewServer wires the routes around a FeedService
func NewServer(svc *feedservice.FeedService) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(requestLogger)

	s := &Server{
		echo: e,
		svc:  svc,
	}

	e.GET("/health", s.health)
	e.GET("/product-feed", s.productFeedXML)
	e.GET("/product-feed/json", s.productFeedJSON)

	return s
}

// Start blocks serving requests on the given port
func (s *Server) Start(port int) error {
	return s.echo.Start(fmt.Sprintf(":%d", port))
}

// Shutdown drains the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": Version,
	})
}

func (s *Server) productFeedXML(c echo.Context) error {
	params := feedParams(c)
	params.Mode = feed.ModeXML

	payload, err := s.svc.Get(params)
	if err != nil {
		return feedError(c, err)
	}

	return c.Blob(http.StatusOK, "application/xml; charset=utf-8", payload)
}

func (s *Server) productFeedJSON(c echo.Context) error {
	params := feedParams(c)
	params.Mode = feed.ModeJSON

	if page, err := strconv.Atoi(c.QueryParam("page")); err == nil && page > 0 {
		params.Page = page
	}
	if size, err := strconv.Atoi(c.QueryParam("page_size")); err == nil && size > 0 {
		params.PageSize = size
	}

	payload, err := s.svc.Get(params)
	if err != nil {
		return feedError(c, err)
	}

	return c.Blob(http.StatusOK, "application/json; charset=utf-8", payload)
}

func feedParams(c echo.Context) feed.Params {
	return feed.Params{
		CountryCode: c.QueryParam("country_code"),
		Currency:    c.QueryParam("currency"),
	}
}

// feedError maps missing regions to 404 and hides everything else
// behind a plain 500, a broken build never leaks a partial payload
func feedError(c echo.Context, err error) error {
	if feed.IsNotFound(err) {
		return c.JSON(http.StatusNotFound, map[string]string{
			"message": err.Error(),
		})
	}

	log.WithField("Error", err).Errorln("Couldn't build feed")
	return c.JSON(http.StatusInternalServerError, map[string]string{
		"message": "Couldn't build feed",
	})
}

func requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}

		log.WithFields(log.Fields{
			"method":  c.Request().Method,
			"path":    c.Request().URL.Path,
			"status":  c.Response().Status,
			"elapsed": time.Since(start),
		}).Infoln("Request served")

		return err
	}
}
