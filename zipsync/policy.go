package zipsync

import (
	"compress/flate"
	"fmt"
	"time"

	"github.com/dendrascience/zipsync/util"
)

// ExistingArchiveAction decides what Compress does when the destination
// archive already exists. It is evaluated once, before any entry is written.
type ExistingArchiveAction int

const (
	// ArchiveReplace deletes the existing archive and creates a new one.
	ArchiveReplace ExistingArchiveAction = iota
	// ArchiveUpdate reconciles the tree into the existing archive.
	ArchiveUpdate
	// ArchiveError fails with ErrConflict.
	ArchiveError
	// ArchiveIgnore returns without writing anything.
	ArchiveIgnore
)

var existingArchiveActionNames = map[ExistingArchiveAction]string{
	ArchiveReplace: "replace",
	ArchiveUpdate:  "update",
	ArchiveError:   "error",
	ArchiveIgnore:  "ignore",
}

func (a ExistingArchiveAction) String() string {
	if s, ok := existingArchiveActionNames[a]; ok {
		return s
	}
	return fmt.Sprintf("ExistingArchiveAction(%d)", int(a))
}

func (a ExistingArchiveAction) MarshalText() ([]byte, error) {
	if _, ok := existingArchiveActionNames[a]; !ok {
		return nil, fmt.Errorf("invalid existing archive action %d", int(a))
	}
	return []byte(a.String()), nil
}

func (a *ExistingArchiveAction) UnmarshalText(text []byte) error {
	for k, v := range existingArchiveActionNames {
		if v == string(text) {
			*a = k
			return nil
		}
	}
	return fmt.Errorf("invalid existing archive action %q (want update, replace, error or ignore)", text)
}

// Set and Type let the enum be used as a command-line flag value.
func (a *ExistingArchiveAction) Set(s string) error { return a.UnmarshalText([]byte(s)) }
func (a *ExistingArchiveAction) Type() string { return "action" }

// OverwritePolicy decides, per entry, whether an existing destination is
// replaced. It applies to archive entries during an update and to files during
// extraction.
type OverwritePolicy int

const (
	// OverwriteIfNewer replaces the destination only when the source is newer.
	OverwriteIfNewer OverwritePolicy = iota
	// OverwriteAlways replaces the destination unconditionally.
	OverwriteAlways
	// OverwriteNever leaves an existing destination untouched.
	OverwriteNever
)

var overwritePolicyNames = map[OverwritePolicy]string{
	OverwriteIfNewer: "if-newer",
	OverwriteAlways:  "always",
	OverwriteNever:   "never",
}

func (p OverwritePolicy) String() string {
	if s, ok := overwritePolicyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("OverwritePolicy(%d)", int(p))
}

func (p OverwritePolicy) MarshalText() ([]byte, error) {
	if _, ok := overwritePolicyNames[p]; !ok {
		return nil, fmt.Errorf("invalid overwrite policy %d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *OverwritePolicy) UnmarshalText(text []byte) error {
	for k, v := range overwritePolicyNames {
		if v == string(text) {
			*p = k
			return nil
		}
	}
	return fmt.Errorf("invalid overwrite policy %q (want always, if-newer or never)", text)
}

func (p *OverwritePolicy) Set(s string) error { return p.UnmarshalText([]byte(s)) }
func (p *OverwritePolicy) Type() string { return "policy" }

// CompressionLevel is a hint passed through to the zip codec.
type CompressionLevel int

const (
	LevelOptimal CompressionLevel = iota
	LevelFastest
	LevelNoCompression
	LevelSmallestSize
)

var compressionLevelNames = map[CompressionLevel]string{
	LevelOptimal:       "optimal",
	LevelFastest:       "fastest",
	LevelNoCompression: "none",
	LevelSmallestSize:  "smallest",
}

func (l CompressionLevel) String() string {
	if s, ok := compressionLevelNames[l]; ok {
		return s
	}
	return fmt.Sprintf("CompressionLevel(%d)", int(l))
}

func (l CompressionLevel) MarshalText() ([]byte, error) {
	if _, ok := compressionLevelNames[l]; !ok {
		return nil, fmt.Errorf("invalid compression level %d", int(l))
	}
	return []byte(l.String()), nil
}

func (l *CompressionLevel) UnmarshalText(text []byte) error {
	for k, v := range compressionLevelNames {
		if v == string(text) {
			*l = k
			return nil
		}
	}
	return fmt.Errorf("invalid compression level %q (want optimal, fastest, none or smallest)", text)
}

func (l *CompressionLevel) Set(s string) error { return l.UnmarshalText([]byte(s)) }
func (l *CompressionLevel) Type() string { return "level" }

func (l CompressionLevel) codec() util.Compression {
	switch l {
	case LevelFastest:
		return util.Compression{Level: flate.BestSpeed}
	case LevelNoCompression:
		return util.Compression{Store: true}
	case LevelSmallestSize:
		return util.Compression{Level: flate.BestCompression}
	default:
		return util.DefaultCompression
	}
}

// Action is the outcome of reconciling one entry.
type Action int

const (
	ActionAdd Action = iota
	ActionReplace
	ActionSkip
)

func (a Action) String() string {
	switch a {
	case ActionAdd:
		return "add"
	case ActionReplace:
		return "replace"
	case ActionSkip:
		return "skip"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// decide applies policy to one entry. exists reports whether the destination
// is already present; src and dst are the modification times of the incoming
// and the existing copy.
func decide(policy OverwritePolicy, exists bool, src, dst time.Time) (Action, error) {
	if !exists {
		return ActionAdd, nil
	}
	switch policy {
	case OverwriteAlways:
		return ActionReplace, nil
	case OverwriteIfNewer:
		if isNewer(src, dst) {
			return ActionReplace, nil
		}
		return ActionSkip, nil
	case OverwriteNever:
		return ActionSkip, nil
	}
	return ActionSkip, fmt.Errorf("invalid overwrite policy %d", int(policy))
}

// isNewer compares at whole seconds, the resolution of zip timestamps.
func isNewer(a, b time.Time) bool {
	return a.Truncate(time.Second).After(b.Truncate(time.Second))
}
