// interfaces.go: this code defines the interface for the database operations
package datastore

import (
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Preetham2004H/plant-ml/internal/conf"
	"github.com/Preetham2004H/plant-ml/internal/errors"
)

// Sentinel errors surfaced by store operations.
var (
	ErrUserNotFound = errors.Newf("user not found").Component("datastore").Category(errors.CategoryNotFound).Build()
	ErrEmailExists  = errors.Newf("email already exists").Component("datastore").Category(errors.CategoryConflict).Build()
)

// Interface abstracts the underlying database implementation and defines
// the operations the application performs. Detections, reports and
// diagnoses are append-only; no update or delete exists in this domain.
type Interface interface {
	Open() error
	Close() error

	// accounts
	CreateUser(user *User) error
	GetUserByEmail(email string) (*User, error)

	// detection history
	SaveDetection(detection *Detection) error
	GetDetections(userID uint) ([]Detection, error)

	// saved documents
	SaveReport(report *SavedReport) error
	SaveDiagnosis(diagnosis *DiagnosisRecord) error
	GetReports(userID uint) ([]SavedReport, error)
	GetDiagnoses(userID uint) ([]DiagnosisRecord, error)
}

// DataStore implements Interface using a GORM database.
type DataStore struct {
	DB *gorm.DB // GORM database instance
}

// New creates a store for whichever backend the configuration enables.
func New(settings *conf.Settings) Interface {
	switch {
	case settings.Output.SQLite.Enabled:
		return &SQLiteStore{
			Settings: settings,
		}
	case settings.Output.MySQL.Enabled:
		return &MySQLStore{
			Settings: settings,
		}
	default:
		return nil
	}
}

// CreateUser inserts a new account. A duplicate email maps to
// ErrEmailExists.
func (ds *DataStore) CreateUser(user *User) error {
	if err := ds.DB.Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return ErrEmailExists
		}
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "create_user").
			Build()
	}
	return nil
}

// GetUserByEmail retrieves an account by email.
func (ds *DataStore) GetUserByEmail(email string) (*User, error) {
	var user User
	if err := ds.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "get_user_by_email").
			Build()
	}
	return &user, nil
}

// SaveDetection appends a completed detection attempt.
func (ds *DataStore) SaveDetection(detection *Detection) error {
	if err := ds.DB.Create(detection).Error; err != nil {
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "save_detection").
			Context("method", detection.Method).
			Build()
	}
	return nil
}

// GetDetections returns all detection attempts for a user, newest first.
func (ds *DataStore) GetDetections(userID uint) ([]Detection, error) {
	var detections []Detection
	if err := ds.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&detections).Error; err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "get_detections").
			Build()
	}
	return detections, nil
}

// SaveReport appends a saved report document.
func (ds *DataStore) SaveReport(report *SavedReport) error {
	if err := ds.DB.Create(report).Error; err != nil {
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "save_report").
			Build()
	}
	return nil
}

// SaveDiagnosis appends a saved diagnosis document.
func (ds *DataStore) SaveDiagnosis(diagnosis *DiagnosisRecord) error {
	if err := ds.DB.Create(diagnosis).Error; err != nil {
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "save_diagnosis").
			Build()
	}
	return nil
}

// GetReports returns all saved reports for a user, newest first.
func (ds *DataStore) GetReports(userID uint) ([]SavedReport, error) {
	var reports []SavedReport
	if err := ds.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&reports).Error; err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "get_reports").
			Build()
	}
	return reports, nil
}

// GetDiagnoses returns all saved diagnoses for a user, newest first.
func (ds *DataStore) GetDiagnoses(userID uint) ([]DiagnosisRecord, error) {
	var diagnoses []DiagnosisRecord
	if err := ds.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&diagnoses).Error; err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "get_diagnoses").
			Build()
	}
	return diagnoses, nil
}

// isUniqueConstraintError matches the driver-specific unique violation
// messages for SQLite and MySQL.
func isUniqueConstraintError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry")
}

// createGormLogger returns a GORM logger that only surfaces slow queries
// and errors.
func createGormLogger() gormlogger.Interface {
	return gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// performAutoMigration migrates the schema for the given backend.
func performAutoMigration(db *gorm.DB, debug bool, dbType, connectionInfo string) error {
	if err := db.AutoMigrate(&User{}, &Detection{}, &SavedReport{}, &DiagnosisRecord{}); err != nil {
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "auto_migrate").
			Context("db_type", dbType).
			Build()
	}

	if debug {
		log.Printf("%s database connected: %s", dbType, connectionInfo)
	}
	return nil
}
