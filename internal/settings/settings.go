// Package settings persists user preferences as a single typed, versioned
// record in the durable store.
package settings

import (
	"log/slog"
	"sync"

	"github.com/jamsplayer/jams/internal/domain"
)

// storeKey is the settings bucket key the record lives under.
const storeKey = "settings"

// schemaVersion is the current record layout. Version 0 is the legacy
// layout with one store entry per setting.
const schemaVersion = 1

// Legacy per-key entries, migrated into the record on first load.
const (
	legacyKeyDownloadFolder     = "download-folder"
	legacyKeySelectedNetwork    = "selected-network"
	legacyKeyTestnetPeerAddress = "testnet-peer-address"
	legacyKeyLanguage           = "language"
	legacyKeyOptions            = "options"
	legacyKeyUserAgreed         = "userAgreed"
)

// Options holds the notification flags.
type Options struct {
	NotifyOnDownload bool `json:"notifyOnDownload"`
	NotifyOnUpload   bool `json:"notifyOnUpload"`
	NotifyOnError    bool `json:"notifyOnError"`
}

// Settings is the persisted preferences record.
type Settings struct {
	SchemaVersion      int     `json:"schemaVersion"`
	DownloadFolder     string  `json:"downloadFolder"`
	SelectedNetwork    string  `json:"selectedNetwork"`
	TestnetPeerAddress string  `json:"testnetPeerAddress"`
	Language           string  `json:"language"`
	Options            Options `json:"options"`
	UserAgreed         bool    `json:"userAgreed"`
}

func defaults() Settings {
	return Settings{
		SchemaVersion:   schemaVersion,
		SelectedNetwork: "mainnet",
		Language:        "en",
	}
}

// Service loads and persists the settings record.
type Service struct {
	mu     sync.Mutex
	store  domain.Store
	logger *slog.Logger
	cur    Settings
}

// NewService loads the persisted settings, migrating legacy per-key
// entries into the versioned record when no record exists yet.
func NewService(store domain.Store, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{store: store, logger: logger, cur: defaults()}

	var rec Settings
	found, err := store.Get(domain.BucketSettings, storeKey, &rec)
	if err != nil {
		return nil, err
	}
	if found {
		rec.SchemaVersion = schemaVersion
		s.cur = rec
		return s, nil
	}

	if migrated := s.migrateLegacy(); migrated {
		if err := s.persistLocked(); err != nil {
			return nil, err
		}
		logger.Info("migrated legacy settings entries", "schemaVersion", schemaVersion)
	}
	return s, nil
}

// migrateLegacy folds schema-v0 per-key entries into the record. Missing
// keys keep their defaults.
func (s *Service) migrateLegacy() bool {
	migrated := false

	var str string
	if found, err := s.store.Get(domain.BucketSettings, legacyKeyDownloadFolder, &str); err == nil && found {
		s.cur.DownloadFolder = str
		migrated = true
	}
	if found, err := s.store.Get(domain.BucketSettings, legacyKeySelectedNetwork, &str); err == nil && found {
		s.cur.SelectedNetwork = str
		migrated = true
	}
	if found, err := s.store.Get(domain.BucketSettings, legacyKeyTestnetPeerAddress, &str); err == nil && found {
		s.cur.TestnetPeerAddress = str
		migrated = true
	}
	if found, err := s.store.Get(domain.BucketSettings, legacyKeyLanguage, &str); err == nil && found {
		s.cur.Language = str
		migrated = true
	}

	var opts Options
	if found, err := s.store.Get(domain.BucketSettings, legacyKeyOptions, &opts); err == nil && found {
		s.cur.Options = opts
		migrated = true
	}

	var agreed bool
	if found, err := s.store.Get(domain.BucketSettings, legacyKeyUserAgreed, &agreed); err == nil && found {
		s.cur.UserAgreed = agreed
		migrated = true
	}

	return migrated
}

// Current returns a copy of the settings record.
func (s *Service) Current() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// Update applies fn to the record and persists the result.
func (s *Service) Update(fn func(*Settings)) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.cur)
	s.cur.SchemaVersion = schemaVersion
	if err := s.persistLocked(); err != nil {
		return Settings{}, err
	}
	return s.cur, nil
}

// TestnetPeerAddress returns the peer override, or empty when the selected
// network is mainnet.
func (s *Service) TestnetPeerAddress() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cur.SelectedNetwork == "mainnet" {
		return ""
	}
	return s.cur.TestnetPeerAddress
}

func (s *Service) persistLocked() error {
	if err := s.store.Set(domain.BucketSettings, storeKey, s.cur); err != nil {
		s.logger.Error("failed to persist settings", "error", err)
		return err
	}
	return nil
}
