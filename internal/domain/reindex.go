package domain

import "encoding/json"

// ReindexResult is the decoded body of a wait-for-completion _reindex call.
type ReindexResult struct {
	Took                 int64             `json:"took"`
	TimedOut             bool              `json:"timed_out"`
	Total                int64             `json:"total"`
	Updated              int64             `json:"updated"`
	Created              int64             `json:"created"`
	Deleted              int64             `json:"deleted"`
	Batches              int64             `json:"batches"`
	VersionConflicts     int64             `json:"version_conflicts"`
	Noops                int64             `json:"noops"`
	ThrottledMillis      int64             `json:"throttled_millis"`
	RequestsPerSecond    float64           `json:"requests_per_second"`
	ThrottledUntilMillis int64             `json:"throttled_until_millis"`
	Failures             []json.RawMessage `json:"failures"`
}
