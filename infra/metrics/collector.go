package metrics

import (
	"context"
	"time"

	"github.com/ahmedNJ467/koormatics-dispatch/core/events"
	coremetrics "github.com/ahmedNJ467/koormatics-dispatch/core/metrics"
	"github.com/ahmedNJ467/koormatics-dispatch/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records metrics for events.
// It stops when the context is canceled.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink) {
	if bus == nil || sink == nil {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				switch e := ev.(type) {
				case events.ConflictEvent:
					if r, ok := sink.(coremetrics.ConflictRecorder); ok {
						_ = r.RecordConflictScan(coremetrics.ConflictScanRecord{
							Date:    e.Date,
							Drivers: e.Drivers,
							Trips:   e.Trips,
							Time:    time.Now(),
						})
					}
				}
			}
		}
	}()
}
