package report

import "context"

// ReportService aggregates active attendance records into weekly/monthly
// hour totals against per-employment-type targets.
type ReportService interface {
	Summarize(ctx context.Context, req SummaryRequest) (SummaryResponse, error)
}
