package entity

type UploadStatus string

const (
	UploadStatusQueued     UploadStatus = "QUEUED"
	UploadStatusProcessing UploadStatus = "PROCESSING"
	UploadStatusDone       UploadStatus = "DONE"
	UploadStatusFailed     UploadStatus = "FAILED"
)

type UploadMeta struct {
	ID        string
	Filename  string
	Status    UploadStatus
	Err       string
	StartedAt int64
	EndedAt   int64

	// Stats help observability without storing the dataset itself
	Bytes    int64
	RowCount int64
}

// Report is what outlives a Dataset: the summary handed to consumers that
// build analysis prompts or surface data-quality warnings.
type Report struct {
	Columns     []string        `json:"columns"`
	Delimiter   Delimiter       `json:"delimiter"`
	HeaderIndex int             `json:"header_index"`
	RowCount    int             `json:"row_count"`
	Truncated   bool            `json:"truncated"`
	Quality     QualityReport   `json:"quality"`
	Profiles    []ColumnProfile `json:"profiles"`
	Sample      []Record        `json:"sample"`
	Diagnostics []Diagnostic    `json:"-"`
}

const ReportSampleSize = 5

func NewReport(ds *Dataset) Report {
	return Report{
		Columns:     ds.Columns(),
		Delimiter:   ds.Delimiter(),
		HeaderIndex: ds.HeaderIndex(),
		RowCount:    ds.RowCount(),
		Truncated:   ds.Truncated(),
		Quality:     ds.Quality(),
		Profiles:    ds.Profiles(),
		Sample:      ds.Sample(ReportSampleSize),
		Diagnostics: ds.Diagnostics(),
	}
}

type QualityAlertEvent struct {
	EventID  int64
	UploadID string
	Filename string
	Score    int
	Issues   []string
}
