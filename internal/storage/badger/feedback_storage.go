package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/tavolo/internal/common"
	"github.com/ternarybob/tavolo/internal/interfaces"
	"github.com/ternarybob/tavolo/internal/models"
)

// FeedbackStorage implements the FeedbackStorage interface for Badger
type FeedbackStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewFeedbackStorage creates a new FeedbackStorage instance
func NewFeedbackStorage(db *BadgerDB, logger arbor.ILogger) interfaces.FeedbackStorage {
	return &FeedbackStorage{
		db:     db,
		logger: logger,
	}
}

// Record stores a single feedback entry, assigning an ID and timestamp when
// the caller left them empty
func (s *FeedbackStorage) Record(ctx context.Context, feedback *models.PlaceFeedback) error {
	if feedback == nil {
		return fmt.Errorf("feedback cannot be nil")
	}
	if feedback.PlaceID == "" {
		return fmt.Errorf("feedback requires a place ID")
	}
	if feedback.Verdict != models.FeedbackLiked && feedback.Verdict != models.FeedbackDisliked {
		return fmt.Errorf("invalid feedback verdict: %s", feedback.Verdict)
	}

	if feedback.ID == "" {
		feedback.ID = common.NewFeedbackID()
	}
	if feedback.CreatedAt.IsZero() {
		feedback.CreatedAt = time.Now()
	}

	if err := s.db.Store().Insert(feedback.ID, feedback); err != nil {
		return fmt.Errorf("failed to record feedback: %w", err)
	}

	s.logger.Debug().
		Str("feedback_id", feedback.ID).
		Str("place_id", feedback.PlaceID).
		Str("verdict", feedback.Verdict).
		Msg("Feedback recorded")

	return nil
}

// ForPlace returns all feedback entries for a place, newest first
func (s *FeedbackStorage) ForPlace(ctx context.Context, placeID string) ([]models.PlaceFeedback, error) {
	var entries []models.PlaceFeedback
	query := badgerhold.Where("PlaceID").Eq(placeID).Index("PlaceID").SortBy("CreatedAt").Reverse()
	if err := s.db.Store().Find(&entries, query); err != nil {
		return nil, fmt.Errorf("failed to list feedback for place: %w", err)
	}
	return entries, nil
}

// Counts returns the liked/disliked tallies for a place
func (s *FeedbackStorage) Counts(ctx context.Context, placeID string) (int, int, error) {
	entries, err := s.ForPlace(ctx, placeID)
	if err != nil {
		return 0, 0, err
	}

	liked, disliked := 0, 0
	for _, entry := range entries {
		switch entry.Verdict {
		case models.FeedbackLiked:
			liked++
		case models.FeedbackDisliked:
			disliked++
		}
	}
	return liked, disliked, nil
}
