package models

import (
	"time"

	"gorm.io/datatypes"
)

// Run is one recorded aggregation pass over a set of coverage reports,
// kept so coverage trends survive between invocations.
type Run struct {
	ID string `gorm:"primaryKey;type:varchar(20)"`

	// Optional human label, e.g. a branch name or CI build number
	Label string `gorm:"type:varchar(255);index"`

	// Aggregation settings the run was produced with
	MergeStrategy string `gorm:"type:varchar(10);not null"`
	ProjectFilter string `gorm:"type:varchar(255)"`

	// Grand totals
	TotalLines   int     `gorm:"not null"`
	CoveredLines int     `gorm:"not null"`
	Coverage     float64 `gorm:"type:decimal(5,2)"`

	// Full structured summary as rendered for CI
	Summary datatypes.JSON `gorm:"type:jsonb"`

	RecordedAt time.Time `gorm:"autoCreateTime;index"`

	// Relationships
	Assemblies []AssemblySnapshot `gorm:"foreignKey:RunID"`
}

// AssemblySnapshot is one assembly's totals inside a recorded run.
type AssemblySnapshot struct {
	ID    uint   `gorm:"primaryKey;autoIncrement"`
	RunID string `gorm:"type:varchar(20);index;not null"`

	Name         string  `gorm:"type:varchar(255);not null"`
	TotalLines   int     `gorm:"not null"`
	CoveredLines int     `gorm:"not null"`
	Coverage     float64 `gorm:"type:decimal(5,2)"`
	Status       string  `gorm:"type:varchar(10)"`

	// Top uncovered files at record time
	Files datatypes.JSON `gorm:"type:jsonb"`
}

// TableName customizations for cleaner names
func (Run) TableName() string              { return "runs" }
func (AssemblySnapshot) TableName() string { return "assembly_snapshots" }
