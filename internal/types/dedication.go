package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Dedication is the persisted record of a named star. The suggestion
// engine never writes these; only the HTTP edge does.
type Dedication struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	StarID   int    `gorm:"not null;index" json:"star_id"`
	StarName string `gorm:"not null" json:"star_name"`
	Emotion  string `gorm:"index" json:"emotion"`

	DedicatedTo string `json:"dedicated_to"`
	Message     string `json:"message"`

	// CoordText is the sexagesimal coordinate string shown on
	// certificates. It is persisted verbatim and never re-derived.
	CoordText string `gorm:"column:coord_text" json:"coord_text"`

	Source     string  `json:"source"`
	Confidence float64 `json:"confidence"`

	Extra datatypes.JSON `json:"extra,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Dedication) TableName() string { return "dedication" }
