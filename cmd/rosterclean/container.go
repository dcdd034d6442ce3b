package main

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"rosterclean/internal/config"
	"rosterclean/internal/datasource"
	"rosterclean/internal/datasource/file"
	"rosterclean/internal/datasource/s3ds"
	"rosterclean/internal/metrics"
	"rosterclean/internal/metrics/datadog"
	"rosterclean/internal/metrics/prompush"
)

// Defaults used when a metrics backend is selected without an address.
const (
	defaultPushgatewayURL = "http://localhost:9091"
	defaultDatadogAddr    = "127.0.0.1:8125"
)

// Function variables used to introduce test seams.
var (
	newS3ClientFn = func(ctx context.Context, c config.S3) (s3ds.ObjectAPI, error) {
		return s3ds.NewClient(ctx, c)
	}
	newPushBackendFn = func(job, url string) (metrics.Backend, error) {
		return prompush.NewBackend(job, url)
	}
	newDatadogBackendFn = func(cfg datadog.Config) (metrics.Backend, error) {
		return datadog.NewBackend(cfg)
	}
)

// endpoints resolves locations to local files or S3 objects. The S3 client
// is built on first use so local runs never touch AWS configuration.
type endpoints struct {
	ctx context.Context
	s3  config.S3

	once   sync.Once
	api    s3ds.ObjectAPI
	apiErr error
}

func newEndpoints(ctx context.Context, s3 config.S3) *endpoints {
	return &endpoints{ctx: ctx, s3: s3}
}

func (e *endpoints) client() (s3ds.ObjectAPI, error) {
	e.once.Do(func() {
		e.api, e.apiErr = newS3ClientFn(e.ctx, e.s3)
		if e.apiErr != nil {
			e.apiErr = fmt.Errorf("s3 client: %w", e.apiErr)
		}
	})
	return e.api, e.apiErr
}

func (e *endpoints) Source(loc config.Location) (datasource.Source, error) {
	switch loc.Kind {
	case config.KindFile:
		return file.NewLocal(loc.Path), nil
	case config.KindS3:
		api, err := e.client()
		if err != nil {
			return nil, err
		}
		return s3ds.NewObject(api, loc.Bucket, loc.Key), nil
	}
	return nil, fmt.Errorf("unknown location kind %q", loc.Kind)
}

func (e *endpoints) Sink(loc config.Location) (datasource.Sink, error) {
	switch loc.Kind {
	case config.KindFile:
		return file.NewLocalSink(loc.Path), nil
	case config.KindS3:
		api, err := e.client()
		if err != nil {
			return nil, err
		}
		return s3ds.NewObject(api, loc.Bucket, loc.Key), nil
	}
	return nil, fmt.Errorf("unknown location kind %q", loc.Kind)
}

// setupMetrics installs the configured backend and returns the function that
// flushes it at the end of the run. A backend that fails to initialize is
// logged and metrics stay disabled.
func setupMetrics(m config.Metrics, job string, log logrus.FieldLogger) func() {
	var (
		b   metrics.Backend
		err error
	)
	switch strings.ToLower(m.Backend) {
	case "pushgateway", "prom", "prometheus":
		url := pick(m.PushgatewayURL, defaultPushgatewayURL)
		b, err = newPushBackendFn(job, url)
		log = log.WithField("url", url)
	case "datadog", "dogstatsd":
		addr := pick(m.DatadogAddr, defaultDatadogAddr)
		b, err = newDatadogBackendFn(datadog.Config{Addr: addr, Namespace: m.Namespace, GlobalTags: m.Tags})
		log = log.WithField("addr", addr)
	case "", "none":
		log.Debug("metrics disabled")
		return func() {}
	default:
		log.WithField("backend", m.Backend).Warn("unknown metrics backend; metrics disabled")
		return func() {}
	}
	if err != nil {
		log.WithError(err).WithField("backend", m.Backend).Warn("metrics backend init failed; metrics disabled")
		return func() {}
	}

	log.WithField("backend", m.Backend).Info("metrics enabled")
	metrics.SetBackend(b)
	return func() {
		if err := metrics.Flush(); err != nil {
			log.WithError(err).Warn("metrics flush failed")
		}
		metrics.Reset()
	}
}
