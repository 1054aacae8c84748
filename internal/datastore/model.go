// model.go this code defines the data model for the application
package datastore

import "time"

// Detection methods. The wire representation of MethodFallbackAI is
// "gemini", mapping happens at the API boundary.
const (
	MethodModel      = "model"
	MethodFallbackAI = "fallback-ai"
)

// User represents a registered account. Email uniqueness is enforced by
// the store.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash []byte `gorm:"not null"`
	CreatedAt    time.Time
}

// Detection represents one completed detection attempt. Records are
// append-only and never mutated.
type Detection struct {
	ID          uint   `gorm:"primaryKey"`
	AttemptID   string `gorm:"uniqueIndex;type:varchar(36)"` // request-scoped UUID
	UserID      *uint  `gorm:"index:idx_detections_user_created"`
	PlantName   string `gorm:"not null"`
	DiseaseName string // empty on the fallback path
	Confidence  *float64
	Method      string `gorm:"type:varchar(20);not null"` // model or fallback-ai
	Language    string
	Result      string    `gorm:"type:text"` // free-form AI text on the fallback path
	CreatedAt   time.Time `gorm:"index:idx_detections_user_created"`
}

// SavedReport is an ad-hoc report document a user chose to keep. The
// payload is stored as opaque JSON.
type SavedReport struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index;not null"`
	Payload   string `gorm:"type:text"`
	CreatedAt time.Time `gorm:"index"`
}

// DiagnosisRecord is a saved diagnosis document, stored like SavedReport.
type DiagnosisRecord struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index;not null"`
	Payload   string `gorm:"type:text"`
	CreatedAt time.Time `gorm:"index"`
}
