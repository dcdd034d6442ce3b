package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// CopyFn abstracts a backend's bulk insert capability. Implementations insert
// the provided rows (aligned to columns) and return the number inserted.
type CopyFn func(ctx context.Context, columns []string, rows [][]any) (int64, error)

// CopyInBatches splits rows into batches of batchSize and calls copyFn for
// each. It returns the total reported by copyFn and the first error.
//
// Progress is logged at debug level on each successful flush.
func CopyInBatches(
	ctx context.Context,
	columns []string,
	rows [][]any,
	batchSize int,
	copyFn CopyFn,
	log logrus.FieldLogger,
) (int64, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("batchSize must be > 0")
	}
	if copyFn == nil {
		return 0, fmt.Errorf("copyFn must not be nil")
	}

	var (
		total   int64
		batches int
		start   = time.Now()
	)
	for lo := 0; lo < len(rows); lo += batchSize {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		hi := min(lo+batchSize, len(rows))
		n, err := copyFn(ctx, columns, rows[lo:hi])
		total += n
		if err != nil {
			log.WithFields(logrus.Fields{"batch": batches + 1, "total": total}).WithError(err).Error("copy failed")
			return total, err
		}
		batches++
		log.WithFields(logrus.Fields{
			"batch":    batches,
			"inserted": n,
			"total":    total,
			"elapsed":  time.Since(start).Truncate(time.Millisecond),
		}).Debug("batch copied")
	}
	return total, nil
}
