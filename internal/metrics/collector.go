package metrics

import (
	"context"
	"time"

	"github.com/ray-u/bare-photos/internal/logging"
)

// StatsProvider reports point-in-time library statistics.
type StatsProvider interface {
	GetStats(ctx context.Context) Stats
}

// Stats holds the current statistics
type Stats struct {
	ThumbnailCount int
	ThumbnailBytes int64
	TotalFavorites int
}

// Collector periodically collects and updates metrics
type Collector struct {
	statsProvider StatsProvider
	interval      time.Duration
	stopChan      chan struct{}
}

// NewCollector creates a new metrics collector
func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
	return &Collector{
		statsProvider: provider,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the metrics collection loop
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the metrics collection
func (c *Collector) Stop() {
	close(c.stopChan)
}

func (c *Collector) collectLoop() {
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	if c.statsProvider == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.interval)
	defer cancel()

	stats := c.statsProvider.GetStats(ctx)

	ThumbnailCacheCount.Set(float64(stats.ThumbnailCount))
	ThumbnailCacheSizeBytes.Set(float64(stats.ThumbnailBytes))
	FavoritesTotal.Set(float64(stats.TotalFavorites))

	logging.Debug("Metrics collected: thumbnails=%d (%d bytes), favorites=%d",
		stats.ThumbnailCount, stats.ThumbnailBytes, stats.TotalFavorites)
}
