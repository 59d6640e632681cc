package review

import "path/filepath"

// TargetKind distinguishes the two ReviewTarget shapes.
type TargetKind int

const (
	// TargetLocal reviews a directory on the local filesystem.
	TargetLocal TargetKind = iota
	// TargetRemote reviews a remote repository identified by its id (e.g. "owner/repo").
	TargetRemote
)

// ReviewTarget is a tagged variant: exactly one of Directory/RepositoryID is
// meaningful, selected by Kind. Construct with NewLocalTarget/NewRemoteTarget.
type ReviewTarget struct {
	Kind         TargetKind
	Directory    string
	RepositoryID string
}

// NewLocalTarget builds a Local review target for the given directory.
func NewLocalTarget(directory string) ReviewTarget {
	return ReviewTarget{Kind: TargetLocal, Directory: directory}
}

// NewRemoteTarget builds a Remote review target for the given repository id.
func NewRemoteTarget(repositoryID string) ReviewTarget {
	return ReviewTarget{Kind: TargetRemote, RepositoryID: repositoryID}
}

// IsLocal reports whether this target is a local directory.
func (t ReviewTarget) IsLocal() bool { return t.Kind == TargetLocal }

// DisplayName returns a human-readable label: the last path segment for
// local targets, the repository id for remote targets.
func (t ReviewTarget) DisplayName() string {
	if t.IsLocal() {
		clean := filepath.Clean(t.Directory)
		base := filepath.Base(clean)
		if base == "." || base == string(filepath.Separator) {
			return t.Directory
		}
		return base
	}
	return t.RepositoryID
}

// Identifier returns the raw identifier for this target (directory path or
// repository id), used where the repository field of a ReviewResult is populated.
func (t ReviewTarget) Identifier() string {
	if t.IsLocal() {
		return t.Directory
	}
	return t.RepositoryID
}
