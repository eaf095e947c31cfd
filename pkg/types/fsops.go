package types

import (
	"time"

	"github.com/google/uuid"
)

// StepKind names one of the twelve fixed filesystem-pipeline steps.
// Persisted by name (not ordinal) in the sidecar meta for forward
// compatibility across releases that add or reorder steps.
type StepKind string

const (
	StepValidatePolicy     StepKind = "validate_policy"
	StepAllowlist          StepKind = "allowlist"
	StepPrepareDirectories StepKind = "prepare_directories"
	StepCompileRules       StepKind = "compile_rules"
	StepLocateSource       StepKind = "locate_source"
	StepPrepareWorkDir     StepKind = "prepare_work_dir"
	StepExtract            StepKind = "extract"
	StepFlatten            StepKind = "flatten"
	StepTransfer           StepKind = "transfer"
	StepSetPermissions     StepKind = "set_permissions"
	StepCleanup            StepKind = "cleanup"
	StepFinalise           StepKind = "finalise"
)

// PipelineSteps is the fixed, ordered step sequence every run executes.
var PipelineSteps = []StepKind{
	StepValidatePolicy,
	StepAllowlist,
	StepPrepareDirectories,
	StepCompileRules,
	StepLocateSource,
	StepPrepareWorkDir,
	StepExtract,
	StepFlatten,
	StepTransfer,
	StepSetPermissions,
	StepCleanup,
	StepFinalise,
}

// StepStatus is the outcome sum type a step record transitions through:
// Started, then exactly one of Completed, Skipped, or Failed.
type StepStatus string

const (
	StepStarted   StepStatus = "started"
	StepCompleted StepStatus = "completed"
	StepSkipped   StepStatus = "skipped"
	StepFailed    StepStatus = "failed"
)

// StepRecord is one persisted transition of a pipeline step.
type StepRecord struct {
	Name      StepKind
	Status    StepStatus
	Detail    string
	UpdatedAt time.Time
}

// Equal reports whether two records would be an identical repeat update
// (same status and detail); identical repeats are a persistence no-op.
func (r StepRecord) Equal(other StepRecord) bool {
	return r.Name == other.Name && r.Status == other.Status && r.Detail == other.Detail
}

// FsOpsMeta is the per-torrent sidecar persisted at
// <library_root>/.revaer/<torrent_id>.meta.json, capturing fsops pipeline
// progress for crash recovery and idempotent resume.
type FsOpsMeta struct {
	TorrentID    uuid.UUID
	PolicyID     uuid.UUID
	Completed    bool
	LastUpdated  time.Time
	Steps        []StepRecord
	SourcePath   string
	WorkDir      string
	StagingPath  string
	ArtifactPath string
	TransferMode MoveMode
}

// StepStatus returns the last recorded status for a step, or ("", false)
// if the step has no record yet.
func (m *FsOpsMeta) StepStatus(name StepKind) (StepStatus, bool) {
	for i := len(m.Steps) - 1; i >= 0; i-- {
		if m.Steps[i].Name == name {
			return m.Steps[i].Status, true
		}
	}
	return "", false
}

// IsStepCompleted reports whether name's last recorded status is
// Completed.
func (m *FsOpsMeta) IsStepCompleted(name StepKind) bool {
	status, ok := m.StepStatus(name)
	return ok && status == StepCompleted
}
