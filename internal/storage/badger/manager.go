package badger

import (
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tavolo/internal/common"
	"github.com/ternarybob/tavolo/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db       *BadgerDB
	place    interfaces.PlaceStorage
	feedback interfaces.FeedbackStorage
	kv       interfaces.KeyValueStorage
	gcStop   chan struct{}
	logger   arbor.ILogger
}

// NewManager creates a new Badger storage manager and starts the value-log
// GC loop when an interval is configured
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:       db,
		place:    NewPlaceStorage(db, logger),
		feedback: NewFeedbackStorage(db, logger),
		kv:       NewKVStorage(db, logger),
		gcStop:   make(chan struct{}),
		logger:   logger,
	}

	if config.GCInterval != "" {
		interval, err := time.ParseDuration(config.GCInterval)
		if err != nil {
			logger.Warn().Err(err).Str("gc_interval", config.GCInterval).Msg("Invalid GC interval, value-log GC disabled")
		} else {
			db.StartGC(interval, manager.gcStop)
		}
	}

	logger.Info().Msg("Badger storage manager initialized")

	return manager, nil
}

// PlaceStorage returns the Place storage interface
func (m *Manager) PlaceStorage() interfaces.PlaceStorage {
	return m.place
}

// FeedbackStorage returns the Feedback storage interface
func (m *Manager) FeedbackStorage() interfaces.FeedbackStorage {
	return m.feedback
}

// KeyValueStorage returns the KeyValue storage interface
func (m *Manager) KeyValueStorage() interfaces.KeyValueStorage {
	return m.kv
}

// Close stops the GC loop and closes the database connection
func (m *Manager) Close() error {
	close(m.gcStop)
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
