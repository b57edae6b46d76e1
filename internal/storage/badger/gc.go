package badger

import (
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"
)

// StartGC runs value-log garbage collection on an interval until the stop
// channel closes. Badger reclaims value-log space only when asked, so a
// long-running server needs this loop to keep the data directory bounded.
func (b *BadgerDB) StartGC(interval time.Duration, stop <-chan struct{}) {
	if interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				b.runGC()
			}
		}
	}()
}

// runGC repeats GC passes until badger reports nothing left to rewrite
func (b *BadgerDB) runGC() {
	rewritten := 0
	for {
		err := b.store.Badger().RunValueLogGC(0.5)
		if err == badgerdb.ErrNoRewrite {
			break
		}
		if err != nil {
			b.logger.Warn().Err(err).Msg("Value-log GC pass failed")
			return
		}
		rewritten++
	}

	if rewritten > 0 {
		b.logger.Debug().Int("files_rewritten", rewritten).Msg("Value-log GC completed")
	}
}
