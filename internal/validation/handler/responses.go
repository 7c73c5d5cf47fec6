package handler

import "fiscalcheck/internal/validation/models"

// ReportResponse is the wire form of a report. Valid is a convenience flag
// for clients that only care whether the document has error-class issues.
type ReportResponse struct {
	*models.Report
	Valid bool `json:"valid"`
}

// BatchResponse is the body answered by the batch endpoint.
type BatchResponse struct {
	BatchID string           `json:"batchId"`
	Reports []ReportResponse `json:"reports"`
}

func toReportResponse(report *models.Report) ReportResponse {
	return ReportResponse{Report: report, Valid: !report.HasErrors()}
}
