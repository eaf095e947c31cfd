package types

import "github.com/google/uuid"

// Par2Mode selects how par2 repair data is handled during post-processing.
type Par2Mode string

const (
	Par2Off    Par2Mode = "off"
	Par2Verify Par2Mode = "verify"
	Par2Repair Par2Mode = "repair"
)

// MoveMode selects how a completed payload is transferred into the
// library.
type MoveMode string

const (
	MoveModeCopy     MoveMode = "copy"
	MoveModeMove     MoveMode = "move"
	MoveModeHardlink MoveMode = "hardlink"
)

// SkipFluffPreset is the sentinel glob token that expands to a fixed
// family of patterns covering sample/extra/screen directories.
const SkipFluffPreset = "@skip_fluff"

// SkipFluffPatterns is the fixed pattern family SkipFluffPreset expands
// to.
var SkipFluffPatterns = []string{
	"**/sample/**",
	"**/samples/**",
	"**/extras/**",
	"**/proof/**",
	"**/screens/**",
}

// FsPolicy is the singleton filesystem post-processing policy row.
type FsPolicy struct {
	ID           uuid.UUID
	LibraryRoot  string
	Extract      bool
	Par2         Par2Mode
	Flatten      bool
	MoveMode     MoveMode
	CleanupKeep  []string
	CleanupDrop  []string
	ChmodFile    string
	ChmodDir     string
	Owner        string
	Group        string
	Umask        string
	AllowPaths   []string
}
