package history

// MaxLive is the number of non-deleted saved resumes a user may keep.
const MaxLive = 4

// Entry is one saved resume version as returned to clients.
type Entry struct {
	RowID     string `json:"rowId"`
	ResumeID  string `json:"resumeId"`
	Data      string `json:"data"`
	UpdatedAt int64  `json:"updatedAt"`
}

// SaveInput is an upsert request. RowID is the client's last known row id;
// it is informational only and row ids are always assigned by the repo.
type SaveInput struct {
	RowID    string
	ResumeID string
	Data     string
}
