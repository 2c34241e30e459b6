package node

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/lioia/corpus-pagerank/pkg/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ApiServerImpl struct {
	Ranker *Ranker
}

// NewApiServer exposes
//
//	POST /rank     rank the posted corpus (Job as JSON)
//	GET  /healthz  liveness
//	GET  /metrics  prometheus metrics gathered from gatherer
func NewApiServer(ranker *Ranker, gatherer prometheus.Gatherer) *echo.Echo {
	s := &ApiServerImpl{Ranker: ranker}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			utils.ServerLog("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))

	e.GET("/healthz", s.Health)
	e.POST("/rank", s.Rank)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	return e
}

func (s *ApiServerImpl) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *ApiServerImpl) Rank(c echo.Context) error {
	var job Job
	if err := c.Bind(&job); err != nil {
		return err
	}
	result, err := s.Ranker.Rank(c.Request().Context(), job)
	if err != nil {
		if IsInvalid(err) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
		}
		utils.WarnLog("api", "Could not rank job: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}
