package attendance

import (
	"context"

	"github.com/cmlabs-hris/sheet-attendance/internal/pkg/gviz"
)

// ScriptResult is what the insert endpoint answered at the transport level.
type ScriptResult struct {
	StatusCode int
	Body       []byte
}

// SheetRepository reads and appends rows of the Attendance sheet.
type SheetRepository interface {
	// FetchRows returns every row of the sheet; a sheet without data yields an empty slice
	FetchRows(ctx context.Context) ([]gviz.Row, error)

	// AppendRow posts one positional row to the insert endpoint. An error means the
	// request never completed (transport failure); any HTTP answer is a ScriptResult.
	AppendRow(ctx context.Context, row SheetRow) (ScriptResult, error)
}

// SubmissionLog records every write attempt and its transport outcome.
type SubmissionLog interface {
	Record(ctx context.Context, s Submission) error
}
