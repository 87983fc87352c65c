package report

import (
	"unicode/utf8"

	"slotskolan.se/forum/internal/entity"
	post "slotskolan.se/forum/internal/modules/post/service"
	"slotskolan.se/forum/internal/modules/report/dto"
	"slotskolan.se/forum/pkg/sanitize"
)

const (
	timeLayout    = "2006-01-02 15:04:05"
	excerptLength = 160
)

func buildReportResponse(report *entity.Report) dto.ReportResponse {
	res := dto.ReportResponse{
		ID:          report.ID,
		PostID:      report.PostID,
		ThreadID:    report.Post.ThreadID,
		PostExcerpt: excerpt(sanitize.PlainText(report.Post.Content)),
		Reporter:    post.NewAuthorResponse(report.User),
		Reason:      report.Reason,
		Status:      report.Status,
		Resolution:  report.Resolution,
		CreatedAt:   report.CreatedAt.Format(timeLayout),
	}
	if report.ResolvedBy != nil {
		resolver := post.NewAuthorResponse(*report.ResolvedBy)
		res.ResolvedBy = &resolver
	}
	if report.ResolvedAt != nil {
		at := report.ResolvedAt.Format(timeLayout)
		res.ResolvedAt = &at
	}
	return res
}

func excerpt(text string) string {
	if utf8.RuneCountInString(text) <= excerptLength {
		return text
	}
	return string([]rune(text)[:excerptLength]) + "…"
}
