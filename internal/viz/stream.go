package viz

import (
	"context"
	"time"

	"github.com/mosswood-robotics/gridnav/internal/geom"
	"github.com/mosswood-robotics/gridnav/internal/navpath"
)

// VectorStream samples a position accessor on a fixed interval and publishes
// two events per change: "<name>_hst" with the bounded recent trail and
// "<name>" with the current position. Samples that moved less than precision
// since the last published position are skipped. The goroutine exits when
// ctx is cancelled.
func VectorStream(ctx context.Context, bus *Bus, name string, pos func() geom.Vector, interval time.Duration, precision float64, historyLen int) {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	hist := navpath.NewHistory(historyLen)

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cur := pos()
				if last, ok := hist.Last(); ok && cur.Distance(last) < precision {
					continue
				}
				hist.Add(cur)
				bus.Publish(name+"_hst", hist.Snapshot())
				bus.Publish(name, cur)
			}
		}
	}()
}
