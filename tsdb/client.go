// Package tsdb writes RSSI readings and numeric characteristic values into
// InfluxDB as they are notified. Writes are batched and never block the
// notification goroutine.
package tsdb

import (
	"context"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/joshyorko/btmgr/common"
	"github.com/joshyorko/btmgr/gatt"
	"github.com/joshyorko/btmgr/notify"
)

const (
	connectTimeout        = 10 * time.Second
	defaultBatchSize      = 100
	defaultFlushInterval  = 10
	millisecondsPerSecond = 1000
)

type Config struct {
	Enabled       bool
	URL           string
	Token         string
	Org           string
	Bucket        string
	BatchSize     int
	FlushInterval int
}

type Writer struct {
	client   influxdb2.Client
	writeAPI api.WriteAPI
	catalog  gatt.Catalog
}

func Connect(cfg Config, catalog gatt.Catalog) (*Writer, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	flushInterval := cfg.FlushInterval
	if flushInterval <= 0 {
		flushInterval = defaultFlushInterval
	}
	client := influxdb2.NewClientWithOptions(
		cfg.URL,
		cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(uint(batchSize)).
			SetFlushInterval(uint(flushInterval)*millisecondsPerSecond))

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	healthy, err := client.Ping(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: ping failed: %w", ErrConnectionFailed, err)
	}
	if !healthy {
		client.Close()
		return nil, fmt.Errorf("%w: server not healthy", ErrConnectionFailed)
	}

	writeAPI := client.WriteAPI(cfg.Org, cfg.Bucket)
	go reportErrors(writeAPI.Errors())
	common.Debug("Writing notification points to %s, bucket %q.", cfg.URL, cfg.Bucket)
	return &Writer{
		client:   client,
		writeAPI: writeAPI,
		catalog:  catalog,
	}, nil
}

func reportErrors(errors <-chan error) {
	for err := range errors {
		common.Uncritical("influxdb write", err)
	}
}

func (it *Writer) Deliver(notification notify.Notification) {
	point, ok := Point(it.catalog, notification)
	if !ok {
		return
	}
	it.writeAPI.WritePoint(point)
}

func (it *Writer) Flush() {
	it.writeAPI.Flush()
}

func (it *Writer) Close() error {
	if it.client == nil {
		return nil
	}
	it.writeAPI.Flush()
	it.client.Close()
	it.client = nil
	return nil
}
