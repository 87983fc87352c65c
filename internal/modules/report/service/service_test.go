package report

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"slotskolan.se/forum/internal/entity"
	notifRepo "slotskolan.se/forum/internal/modules/notification/repository"
	notifService "slotskolan.se/forum/internal/modules/notification/service"
	postRepo "slotskolan.se/forum/internal/modules/post/repository"
	reportDto "slotskolan.se/forum/internal/modules/report/dto"
	reportRepo "slotskolan.se/forum/internal/modules/report/repository"
	"slotskolan.se/forum/internal/testutil"
	"slotskolan.se/forum/pkg/apperror"
	"slotskolan.se/forum/pkg/database"
	"slotskolan.se/forum/pkg/dto"
)

type fixture struct {
	db        *gorm.DB
	svc       ReportService
	reporter  *entity.User
	moderator *entity.User
	post      *entity.Post
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	svc := NewReportService(
		database.NewTransactor(db),
		reportRepo.NewReportRepository(db),
		postRepo.NewPostRepository(db),
		notifService.NewNotificationService(notifRepo.NewNotificationRepository(db), nil),
	)

	author := testutil.CreateUser(t, db, "Författare", entity.RoleUser)
	category := testutil.CreateCategory(t, db, "Bonusar")
	thread := &entity.Thread{CategoryID: category.ID, AuthorID: author.ID, Title: "Bonus", Slug: "bonus", Content: "x", LastPostAt: time.Now()}
	if err := db.Create(thread).Error; err != nil {
		t.Fatalf("create thread: %v", err)
	}
	post := &entity.Post{ThreadID: thread.ID, AuthorID: author.ID, Content: "<p>Köp min <b>kod</b></p>"}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}

	return &fixture{
		db:        db,
		svc:       svc,
		reporter:  testutil.CreateUser(t, db, "Anmälare", entity.RoleUser),
		moderator: testutil.CreateUser(t, db, "Moderator", entity.RoleModerator),
		post:      post,
	}
}

func (f *fixture) report(t *testing.T) *reportDto.ReportResponse {
	t.Helper()
	res, err := f.svc.CreateReport(context.Background(), f.reporter, reportDto.CreateReportRequest{PostID: f.post.ID.String(), Reason: "Spam"})
	if err != nil {
		t.Fatalf("CreateReport() error: %v", err)
	}
	return res
}

func TestCreateReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res := f.report(t)
	if res.Status != entity.ReportStatusPending || res.Reason != "Spam" {
		t.Errorf("unexpected report %+v", res)
	}
	if res.PostExcerpt != "Köp min kod" || res.ThreadID != f.post.ThreadID {
		t.Errorf("unexpected post reference %q %s", res.PostExcerpt, res.ThreadID)
	}

	testCases := []struct {
		name   string
		caller *entity.User
		req    reportDto.CreateReportRequest
		want   int
	}{
		{"anonymous", nil, reportDto.CreateReportRequest{PostID: f.post.ID.String(), Reason: "Spam"}, http.StatusUnauthorized},
		{"blank reason", f.reporter, reportDto.CreateReportRequest{PostID: f.post.ID.String(), Reason: "  <p></p> "}, http.StatusBadRequest},
		{"unknown post", f.reporter, reportDto.CreateReportRequest{PostID: uuid.NewString(), Reason: "Spam"}, http.StatusNotFound},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreateReport(ctx, tc.caller, tc.req)
			if got := apperror.MapErrorToStatus(err); got != tc.want {
				t.Fatalf("status = %d, want %d (%v)", got, tc.want, err)
			}
		})
	}
}

func TestResolveReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := f.report(t)

	req := reportDto.ResolveReportRequest{ReportID: created.ID.String(), Status: "RESOLVED", Resolution: "Inlägget är borttaget"}

	_, err := f.svc.ResolveReport(ctx, f.reporter, req)
	if apperror.MapErrorToStatus(err) != http.StatusForbidden {
		t.Fatalf("expected 403 for regular user, got %v", err)
	}

	res, err := f.svc.ResolveReport(ctx, f.moderator, req)
	if err != nil {
		t.Fatalf("ResolveReport() error: %v", err)
	}
	if res.Status != entity.ReportStatusResolved || res.Resolution == nil || *res.Resolution != "Inlägget är borttaget" {
		t.Errorf("unexpected resolved report %+v", res)
	}
	if res.ResolvedBy == nil || res.ResolvedBy.ID != f.moderator.ID || res.ResolvedAt == nil {
		t.Errorf("resolver not recorded: %+v", res)
	}

	if n := testutil.Count(t, f.db, &entity.Notification{}, "user_id = ? AND type = ?", f.reporter.ID, entity.NotificationReportClosed); n != 1 {
		t.Errorf("reporter notifications = %d, want 1", n)
	}

	// A closed report never reopens or changes outcome.
	req.Status = "REJECTED"
	_, err = f.svc.ResolveReport(ctx, f.moderator, req)
	if apperror.MapErrorToStatus(err) != http.StatusConflict {
		t.Fatalf("expected 409 for closed report, got %v", err)
	}
	var stored entity.Report
	f.db.First(&stored, "id = ?", created.ID)
	if stored.Status != entity.ReportStatusResolved {
		t.Errorf("status = %s, want RESOLVED", stored.Status)
	}
}

func TestResolveReportValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := f.report(t)

	testCases := []struct {
		name string
		req  reportDto.ResolveReportRequest
		want int
	}{
		{"reopen", reportDto.ResolveReportRequest{ReportID: created.ID.String(), Status: "PENDING", Resolution: "x"}, http.StatusBadRequest},
		{"missing resolution", reportDto.ResolveReportRequest{ReportID: created.ID.String(), Status: "REJECTED", Resolution: " "}, http.StatusBadRequest},
		{"unknown report", reportDto.ResolveReportRequest{ReportID: uuid.NewString(), Status: "REJECTED", Resolution: "x"}, http.StatusNotFound},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.ResolveReport(ctx, f.moderator, tc.req)
			if got := apperror.MapErrorToStatus(err); got != tc.want {
				t.Fatalf("status = %d, want %d (%v)", got, tc.want, err)
			}
		})
	}
}

func TestResolveReportConcurrently(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := f.report(t)

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.ResolveReport(ctx, f.moderator, reportDto.ResolveReportRequest{
				ReportID: created.ID.String(), Status: "REJECTED", Resolution: "Inget regelbrott",
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case apperror.MapErrorToStatus(err) != http.StatusConflict:
			t.Errorf("unexpected error %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("succeeded = %d, want exactly 1", succeeded)
	}
}

func TestGetReports(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.report(t)
	f.report(t)
	third := f.report(t)

	if _, err := f.svc.ResolveReport(ctx, f.moderator, reportDto.ResolveReportRequest{ReportID: first.ID.String(), Status: "RESOLVED", Resolution: "ok"}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.ResolveReport(ctx, f.moderator, reportDto.ResolveReportRequest{ReportID: third.ID.String(), Status: "REJECTED", Resolution: "nej"}); err != nil {
		t.Fatal(err)
	}

	pending, err := f.svc.GetReports(ctx, f.moderator, reportDto.ReportFilter{})
	if err != nil {
		t.Fatalf("pending tab: %v", err)
	}
	if pending.Meta.TotalItems != 1 || pending.Data[0].Status != entity.ReportStatusPending {
		t.Errorf("unexpected pending tab %+v", pending)
	}

	closed, err := f.svc.GetReports(ctx, f.moderator, reportDto.ReportFilter{Status: "resolved", PageQuery: dto.PageQuery{Page: "last", Limit: 1}})
	if err != nil {
		t.Fatalf("resolved tab: %v", err)
	}
	if closed.Meta.TotalItems != 2 || closed.Meta.CurrentPage != 2 || len(closed.Data) != 1 {
		t.Errorf("unexpected resolved tab meta=%+v len=%d", closed.Meta, len(closed.Data))
	}

	_, err = f.svc.GetReports(ctx, f.reporter, reportDto.ReportFilter{})
	if apperror.MapErrorToStatus(err) != http.StatusForbidden {
		t.Errorf("expected 403 for regular user, got %v", err)
	}
	_, err = f.svc.GetReports(ctx, f.moderator, reportDto.ReportFilter{Status: "open"})
	if apperror.MapErrorToStatus(err) != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown tab, got %v", err)
	}
}
