package course

import (
	"time"

	"gorm.io/gorm"
)

// Certificate represents an issued certificate for course completion.
// At most one certificate is ever issued per (user, course) pair.
type Certificate struct {
	gorm.Model
	UserID            uint      `json:"user_id" gorm:"index:idx_cert_user_course,unique;not null"`
	CourseID          uint      `json:"course_id" gorm:"index:idx_cert_user_course,unique;not null"`
	CertificateNumber string    `json:"certificate_number" gorm:"unique"` // CERT-{year}{month}-{sequence}
	VerifyCode        string    `json:"verify_code" gorm:"uniqueIndex"`
	CertificateURL    string    `json:"certificate_url"`
	ArtifactStatus    string    `json:"artifact_status" gorm:"default:'PENDING'"` // PENDING, RENDERED
	IssuedAt          time.Time `json:"issued_at"`
	IsDeleted         bool      `gorm:"default:false"`
}

// CertificateSequence holds the per-calendar-month counter used for certificate
// numbers. Incremented inside a locking transaction, never read-then-written.
type CertificateSequence struct {
	gorm.Model
	MonthKey  string `json:"month_key" gorm:"uniqueIndex"` // e.g. "202608"
	LastValue int    `json:"last_value" gorm:"default:0"`
}
