// Package schema provides database schema models for geopephub.
// Table names are kept compatible with the status tables of the
// metageo uploader, so existing deployments keep their history.
package schema

import (
	"time"
)

// Status is a state of a Cycle or of an Item.
type Status string

const (
	// StatusInitial is used only by cycles, before discovery finished.
	StatusInitial Status = "initial"
	// StatusQueued marks enumerated work that waits for the uploader.
	StatusQueued Status = "queued"
	// StatusProcessing marks work claimed by the uploader.
	StatusProcessing Status = "processing"
	// StatusSuccess is a terminal state of successful work.
	StatusSuccess Status = "success"
	// StatusFailure is a terminal state of failed work.
	StatusFailure Status = "failure"
	// StatusWarning is a terminal state of work that finished cleanly
	// but produced nothing to upload.
	StatusWarning Status = "warning"
)

// IsTerminal returns true for success, failure and warning.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusSuccess, StatusFailure, StatusWarning:
		return true
	default:
		return false
	}
}

// IsValid checks that the status belongs to the known set.
func (s Status) IsValid() bool {
	switch s {
	case StatusInitial, StatusQueued, StatusProcessing,
		StatusSuccess, StatusFailure, StatusWarning:
		return true
	default:
		return false
	}
}

// LogStage marks the progress of an Item through the pipeline.
type LogStage int

const (
	// StageDiscovered means the accession was found by discovery.
	StageDiscovered LogStage = iota
	// StageClaimed means the uploader started processing the accession.
	StageClaimed
	// StageFetched means metadata of the accession was downloaded.
	StageFetched
	// StageUploaded means an upload to the catalog was attempted.
	StageUploaded
)

// Labels for Item.StatusInfo, the sub-stage that touched an item last.
const (
	InfoFetch   = "fetch"
	InfoCatalog = "catalog"
)

// Cycle is one batch run over a time window for one target namespace.
type Cycle struct {
	// ID is assigned by the database on insert.
	ID uint `gorm:"primaryKey"`

	// Target is the destination namespace (geo, bedbase).
	Target string `gorm:"type:varchar(50);not null;index"`

	// Status of the cycle, see the Status constants.
	Status Status `gorm:"type:varchar(20);not null"`

	// StartPeriod is the first day of the discovery window (YYYY/MM/DD).
	StartPeriod string `gorm:"type:varchar(10)"`

	// EndPeriod is the last day of the discovery window (YYYY/MM/DD).
	EndPeriod string `gorm:"type:varchar(10)"`

	// NumberOfProjects is the number of accessions enumerated for
	// the cycle.
	NumberOfProjects int `gorm:"not null;default:0"`

	// NumberOfSuccesses counts items with success or warning status.
	// It is always recomputed from items, never incremented.
	NumberOfSuccesses int `gorm:"not null;default:0"`

	// NumberOfFailures counts items with failure status.
	NumberOfFailures int `gorm:"not null;default:0"`

	// StatusDate is the time of the last write.
	StatusDate time.Time
}

// TableName returns the table of cycles.
func (Cycle) TableName() string {
	return "geo_cycle_status"
}

// Item is the progress record of one accession within a Cycle.
type Item struct {
	// ID is assigned by the database on insert.
	ID uint `gorm:"primaryKey"`

	// GSE is the GEO series accession, for example GSE12345.
	GSE string `gorm:"column:gse;type:varchar(50);not null;index"`

	// Target duplicates Cycle.Target for convenient queries.
	Target string `gorm:"type:varchar(50)"`

	// RegistryPath is the destination of the project as
	// "target/name:tag".
	RegistryPath string `gorm:"type:varchar(255)"`

	// UploadCycleID refers to the owning cycle.
	UploadCycleID uint  `gorm:"not null;index"`
	UploadCycle   Cycle `gorm:"foreignKey:UploadCycleID"`

	// LogStage is the progress marker, see the LogStage constants.
	LogStage LogStage `gorm:"not null;default:0"`

	// Status of the item, see the Status constants.
	Status Status `gorm:"type:varchar(20);not null;index"`

	// StatusInfo is the label of the sub-stage that touched the item last.
	StatusInfo string `gorm:"type:varchar(50)"`

	// Info keeps details, normally the last error message.
	Info string `gorm:"type:text"`

	// StatusDate is the time of the last write.
	StatusDate time.Time
}

// TableName returns the table of items.
func (Item) TableName() string {
	return "geo_sample_status"
}
