package domain

import "time"

// SnapshotHandle names a point-in-time backup in the snapshot repository.
type SnapshotHandle string

const (
	snapshotPrefix       = "helper-tool-"
	snapshotTimestampFmt = "20060102150405"
)

// NewSnapshotHandle returns helper-tool-<UTC yyyyMMddHHmmss> for t.
// Handles are unique at one-second resolution.
func NewSnapshotHandle(t time.Time) SnapshotHandle {
	return SnapshotHandle(snapshotPrefix + t.UTC().Format(snapshotTimestampFmt))
}

func (h SnapshotHandle) String() string {
	return string(h)
}

// Snapshot metadata attached to every snapshot the tool takes.
const (
	SnapshotTakenBy      = "Elastic Helper Tool"
	SnapshotTakenBecause = "Backup before performing action in Elastic Helper Tool"
)

// Restore defaults: restored indices are renamed restored-<original>.
const (
	DefaultSnapshotRepository = "found-snapshots"
	RestoredIndexPrefix       = "restored-"
	DefaultRenamePattern      = "(.+)"
	DefaultRenameReplacement  = RestoredIndexPrefix + "$1"
)

// SnapshotMetadata is stored with the snapshot in the repository.
type SnapshotMetadata struct {
	TakenBy      string `json:"taken_by"`
	TakenBecause string `json:"taken_because"`
}

// DefaultSnapshotMetadata returns the metadata used when none is configured.
func DefaultSnapshotMetadata() SnapshotMetadata {
	return SnapshotMetadata{TakenBy: SnapshotTakenBy, TakenBecause: SnapshotTakenBecause}
}

// ShardsSummary is the shard outcome reported by snapshot APIs.
type ShardsSummary struct {
	Total      int `json:"total"`
	Failed     int `json:"failed"`
	Successful int `json:"successful"`
}

// SnapshotStateSuccess is the only state that leaves a usable snapshot.
const SnapshotStateSuccess = "SUCCESS"

// CreateSnapshotResponse is the decoded body of a wait-for-completion snapshot.
type CreateSnapshotResponse struct {
	Snapshot *CreatedSnapshot `json:"snapshot"`
}

// CreatedSnapshot reports the final state of a snapshot.
type CreatedSnapshot struct {
	Snapshot string        `json:"snapshot"`
	State    string        `json:"state"`
	Shards   ShardsSummary `json:"shards"`
}

// RestoreResponse is the decoded body of a wait-for-completion restore.
type RestoreResponse struct {
	Snapshot *RestoredSnapshot `json:"snapshot"`
}

// RestoredSnapshot describes what a restore produced.
type RestoredSnapshot struct {
	Snapshot string        `json:"snapshot"`
	Indices  []string      `json:"indices"`
	Shards   ShardsSummary `json:"shards"`
}

// RestoreResult identifies the renamed index a restore created.
type RestoreResult struct {
	Snapshot      SnapshotHandle
	RestoredIndex string
}
