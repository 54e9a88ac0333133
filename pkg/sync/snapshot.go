package sync

import (
	"time"
)

// A RemoteEntry is a file reported by the transfer tool's listing.
type RemoteEntry struct {
	// Path is the path relative to the remote directory.
	Path string

	// ModTime is the last modification time reported by the remote,
	// normalized with NormalizeTime.
	ModTime time.Time
}

// RemoteSnapshot maps relative paths to their remote modification time. A
// snapshot is built once at the start of a pass and isn't modified while the
// pass runs.
type RemoteSnapshot map[string]time.Time

// NewRemoteSnapshot creates a RemoteSnapshot containing `entries`.
func NewRemoteSnapshot(entries ...RemoteEntry) RemoteSnapshot {
	snapshot := RemoteSnapshot{}
	for _, entry := range entries {
		snapshot.Add(entry)
	}
	return snapshot
}

// Add updates the snapshot with `entry`.
func (snapshot RemoteSnapshot) Add(entry RemoteEntry) {
	snapshot[entry.Path] = NormalizeTime(entry.ModTime)
}

// Action is the outcome of comparing a local file against the snapshot.
type Action int

const (
	// Skip means the remote copy is at least as new as the local file.
	Skip Action = iota

	// Transfer means the local file should be pushed to the remote.
	Transfer
)

func (a Action) String() string {
	switch a {
	case Transfer:
		return "transfer"
	default:
		return "skip"
	}
}

// Reason explains why a Decision was made.
type Reason string

const (
	// ReasonNotRemote means the file doesn't exist in the snapshot.
	ReasonNotRemote Reason = "not present remotely"

	// ReasonNewer means the local file was modified after the remote copy.
	ReasonNewer Reason = "local copy is newer"

	// ReasonUpToDate means the remote copy is as new or newer.
	ReasonUpToDate Reason = "up-to-date"
)

// Decision is the per file result of the comparison.
type Decision struct {
	Action Action
	Reason Reason
}

// Decide compares `local` against `snapshot`. Only a strictly newer local
// file is transferred, so equal modification times resolve to Skip.
func Decide(local LocalFile, snapshot RemoteSnapshot) Decision {
	remoteModTime, ok := snapshot[local.Name]
	if !ok {
		return Decision{Action: Transfer, Reason: ReasonNotRemote}
	}

	if NormalizeTime(local.ModTime).After(remoteModTime) {
		return Decision{Action: Transfer, Reason: ReasonNewer}
	}
	return Decision{Action: Skip, Reason: ReasonUpToDate}
}
