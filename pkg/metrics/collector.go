package metrics

import (
	"sync"
	"time"
)

// RosterCounter reports how many nurses are active and inactive
type RosterCounter interface {
	CountNurses() (active, inactive int, err error)
}

// Collector periodically refreshes the roster gauges. The roster file can be
// edited by hand, so the gauges cannot rely on store writes alone.
type Collector struct {
	source   RosterCounter
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewCollector creates a new metrics collector
func NewCollector(source RosterCounter, interval time.Duration) *Collector {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Collector{
		source:   source,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins collecting metrics
func (c *Collector) Start() {
	ticker := time.NewTicker(c.interval)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer ticker.Stop()

		c.collect()
		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopCh:
				return
			}
		}
	}()
}

// Stop stops the collector and waits for it to exit
func (c *Collector) Stop() {
	close(c.stopCh)
	c.wg.Wait()
}

func (c *Collector) collect() {
	active, inactive, err := c.source.CountNurses()
	if err != nil {
		// A missing roster is normal on a fresh deployment
		return
	}
	SetRosterCounts(active, inactive)
}
