package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"domain-name-generator/internal/dataset"
	"domain-name-generator/internal/match"
)

// Database wraps the GORM handle backing the verdict cache.
type Database struct {
	gorm *gorm.DB
	mu   sync.Mutex
}

// Open initializes the SQLite-backed cache at the provided path.
func Open(path string, silent bool) (*Database, error) {
	cfg := &gorm.Config{}
	if silent {
		cfg.Logger = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&CachedVerdict{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
		logrus.WithError(err).Warn("enable WAL mode")
	}
	return &Database{gorm: db}, nil
}

// Close closes the underlying database connection.
func (d *Database) Close() error {
	if d == nil {
		return nil
	}
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Lookup returns the cached verdict for the key, if any.
func (d *Database) Lookup(model, description, domain string) (dataset.DomainVerdict, bool, error) {
	if d == nil {
		return dataset.DomainVerdict{}, false, errors.New("database is nil")
	}
	var row CachedVerdict
	err := d.gorm.
		Where("model = ? AND description = ? AND domain_normalized = ?", model, description, match.NormalizeKey(domain)).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dataset.DomainVerdict{}, false, nil
	}
	if err != nil {
		return dataset.DomainVerdict{}, false, err
	}
	return dataset.DomainVerdict{
		Domain:       domain,
		Relevance:    row.Relevance,
		Brandability: row.Brandability,
		Safety:       row.Safety,
		HasValidTLD:  match.HasValidTLD(domain),
		Comment:      row.Comment,
	}, true, nil
}

// SaveVerdict inserts or refreshes the cached verdict for the key.
func (d *Database) SaveVerdict(model, description, runID string, verdict dataset.DomainVerdict) error {
	if d == nil {
		return errors.New("database is nil")
	}
	row := &CachedVerdict{
		Model:            model,
		Description:      description,
		DomainNormalized: match.NormalizeKey(verdict.Domain),
		Domain:           verdict.Domain,
		Relevance:        verdict.Relevance,
		Brandability:     verdict.Brandability,
		Safety:           verdict.Safety,
		Comment:          verdict.Comment,
		RunID:            runID,
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gorm.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "model"}, {Name: "description"}, {Name: "domain_normalized"}},
		DoUpdates: clause.AssignmentColumns([]string{"domain", "relevance", "brandability", "safety", "comment", "run_id", "updated_at"}),
	}).Create(row).Error
}

// CountVerdicts returns the number of cached verdicts.
func (d *Database) CountVerdicts() (int64, error) {
	var count int64
	if err := d.gorm.Model(&CachedVerdict{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ClearModel drops every cached verdict for a judge model.
func (d *Database) ClearModel(model string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gorm.Where("model = ?", model).Delete(&CachedVerdict{}).Error
}
