package scheduler

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/ceylonexplorer/rental-api/databases"
	"github.com/ceylonexplorer/rental-api/models"
	"github.com/ceylonexplorer/rental-api/notifications"
	"github.com/ceylonexplorer/rental-api/store"
)

// Scheduler runs the background jobs: pushing fallback bookings to the
// remote collections once the backend is reachable again, and the daily
// digest of requests still waiting on a decision.
type Scheduler struct {
	cron     *cron.Cron
	Bookings databases.BookingDatabase
	Fallback store.FallbackStorage
	Store    *store.Store
	Notifier notifications.Notifier
}

// NewScheduler creates a new scheduler instance
func NewScheduler(bookings databases.BookingDatabase, fallback store.FallbackStorage, st *store.Store, notifier notifications.Notifier) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		Bookings: bookings,
		Fallback: fallback,
		Store:    st,
		Notifier: notifier,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Push locally created bookings to the remote collections every 5 minutes
	_, err := s.cron.AddFunc("*/5 * * * *", s.FlushFallback)
	if err != nil {
		zap.S().Errorw("failed to register fallback flush job", "error", err)
	}

	// Remind staff of the pending review queue daily at 6 AM UTC
	_, err = s.cron.AddFunc("0 6 * * *", s.SendPendingDigest)
	if err != nil {
		zap.S().Errorw("failed to register pending digest job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("booking scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("booking scheduler stopped")
}

// FlushFallback pushes every locally created booking to the remote
// collections. Seed bookings carry no "local-" prefix and are never pushed.
// The remote id is derived from the local id, so a run that inserted the
// booking but failed to save the fallback store retries as a duplicate key
// error instead of inserting the same booking twice.
func (s *Scheduler) FlushFallback() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	bookings, err := s.Fallback.Load()
	if err != nil {
		zap.S().Errorw("failed to load fallback store for flush", "error", err)
		return
	}

	remaining := make([]models.Booking, 0, len(bookings))
	flushed := 0
	for _, b := range bookings {
		if !b.IsLocal() {
			remaining = append(remaining, b)
			continue
		}

		localID := b.ID
		b.ID = remoteIDFor(localID)
		_, err := s.Bookings.InsertOne(ctx, b)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				zap.S().Debugw("fallback booking already flushed", "localId", localID)
				flushed++
				continue
			}
			zap.S().Warnw("failed to flush fallback booking, keeping it local",
				"localId", localID, "error", err)
			b.ID = localID
			remaining = append(remaining, b)
			continue
		}
		zap.S().Infow("flushed fallback booking to remote store",
			"localId", localID, "remoteId", b.ID)
		flushed++
	}

	if flushed == 0 {
		return
	}
	if err := s.Fallback.Save(remaining); err != nil {
		zap.S().Errorw("failed to save fallback store after flush", "error", err)
	}
}

// remoteIDFor maps a local booking id to a stable 24-hex remote id
func remoteIDFor(localID string) string {
	sum := sha256.Sum256([]byte(localID))
	return hex.EncodeToString(sum[:12])
}

// SendPendingDigest emails staff the list of bookings still PENDING
func (s *Scheduler) SendPendingDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pending, err := s.Store.FetchBookingsByStatus(ctx, models.BookingStatusPending)
	if err != nil {
		zap.S().Errorw("failed to load pending bookings for digest", "error", err)
		return
	}
	if len(pending) == 0 {
		zap.S().Debug("no pending bookings, skipping digest")
		return
	}

	if err := s.Notifier.PendingDigest(pending); err != nil {
		zap.S().Errorw("failed to send pending digest", "error", err)
		return
	}
	zap.S().Infow("pending digest sent", "count", len(pending))
}
