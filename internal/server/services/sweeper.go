package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/storeit/internal/logging"
	"github.com/dmitrijs2005/storeit/internal/server/metrics"
	"github.com/dmitrijs2005/storeit/internal/server/models"
	"github.com/dmitrijs2005/storeit/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/storeit/internal/server/repositories/uploads"
)

const sweepBatchSize = 100

// UploadSweeper reconciles pending uploads older than the TTL: objects no
// document references are deleted from the bucket, then the record is
// dropped.
type UploadSweeper struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       ObjectStore
	logger      logging.Logger
	ttl         time.Duration
	interval    time.Duration
	now         func() time.Time
}

func NewUploadSweeper(db *sql.DB, m repomanager.RepositoryManager, store ObjectStore, logger logging.Logger,
	ttl, interval time.Duration) *UploadSweeper {
	return &UploadSweeper{
		db:          db,
		repomanager: m,
		store:       store,
		logger:      logger.With("module", "upload_sweeper"),
		ttl:         ttl,
		interval:    interval,
		now:         time.Now,
	}
}

// Sweep processes one batch and returns how many objects were deleted.
// A failure on one record is logged and counted against it, so records that
// keep failing are retried after the others.
func (s *UploadSweeper) Sweep(ctx context.Context) (int, error) {
	queue := s.repomanager.Uploads(s.db)
	files := s.repomanager.Files(s.db)

	pending, err := queue.ListOlderThan(ctx, s.now().Add(-s.ttl), sweepBatchSize)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, p := range pending {
		referenced, err := files.ExistsByBucketFileID(ctx, p.BucketFileID)
		if err != nil {
			s.failed(ctx, queue, p, "sweeper lookup failed", err)
			continue
		}

		if !referenced {
			if err := s.store.DeleteFile(ctx, p.BucketFileID); err != nil {
				s.failed(ctx, queue, p, "sweeper delete failed", err)
				continue
			}
		}

		if err := queue.Delete(ctx, p.BucketFileID); err != nil {
			s.failed(ctx, queue, p, "sweeper cleanup failed", err)
			continue
		}

		if referenced {
			metrics.RecordSweep("referenced")
			continue
		}
		metrics.RecordSweep("deleted")
		deleted++
	}

	return deleted, nil
}

func (s *UploadSweeper) failed(ctx context.Context, repo uploads.Repository, p *models.PendingUpload, msg string, err error) {
	s.logger.Warn(ctx, msg, "object_id", p.BucketFileID, "attempts", p.Attempts+1, "error", err)
	metrics.RecordSweep("error")
	if mErr := repo.MarkFailed(ctx, p.BucketFileID); mErr != nil {
		s.logger.Warn(ctx, "sweeper could not record failure", "object_id", p.BucketFileID, "error", mErr)
	}
}

// Run sweeps every interval until ctx is cancelled.
func (s *UploadSweeper) Run(ctx context.Context) {
	if s.interval <= 0 {
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info(ctx, "Starting upload sweeper", "interval", s.interval.String(), "ttl", s.ttl.String())

	for {
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "Stopping upload sweeper...")
			return
		case <-ticker.C:
			n, err := s.Sweep(ctx)
			if err != nil {
				s.logger.Error(ctx, "sweep failed", "error", err)
				continue
			}
			if n > 0 {
				s.logger.Info(ctx, "orphaned objects removed", "count", n)
			}
		}
	}
}
