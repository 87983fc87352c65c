package report

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"slotskolan.se/forum/internal/authz"
	"slotskolan.se/forum/internal/entity"
	notifService "slotskolan.se/forum/internal/modules/notification/service"
	postRepo "slotskolan.se/forum/internal/modules/post/repository"
	reportDto "slotskolan.se/forum/internal/modules/report/dto"
	reportRepo "slotskolan.se/forum/internal/modules/report/repository"
	"slotskolan.se/forum/pkg/apperror"
	"slotskolan.se/forum/pkg/database"
	"slotskolan.se/forum/pkg/dto"
	"slotskolan.se/forum/pkg/sanitize"
)

var (
	errLoginRequired  = apperror.Unauthorized("Du måste vara inloggad")
	errStaffOnly      = apperror.Forbidden("Endast moderatorer kan hantera rapporter")
	errReportNotFound = apperror.NotFound("Rapporten hittades inte")
	errReportClosed   = apperror.Conflict("Rapporten är redan hanterad")
)

type ReportService interface {
	CreateReport(ctx context.Context, caller *entity.User, req reportDto.CreateReportRequest) (*reportDto.ReportResponse, error)
	GetReports(ctx context.Context, caller *entity.User, filter reportDto.ReportFilter) (*reportDto.PaginatedReportResponse, error)
	ResolveReport(ctx context.Context, caller *entity.User, req reportDto.ResolveReportRequest) (*reportDto.ReportResponse, error)
}

type reportService struct {
	tx                  database.Transactor
	repo                reportRepo.ReportRepository
	postRepo            postRepo.PostRepository
	notificationService notifService.NotificationService
}

// NewReportService accepts a nil notificationService.
func NewReportService(tx database.Transactor, repo reportRepo.ReportRepository, postRepo postRepo.PostRepository, notificationService notifService.NotificationService) ReportService {
	return &reportService{
		tx:                  tx,
		repo:                repo,
		postRepo:            postRepo,
		notificationService: notificationService,
	}
}

func (s *reportService) CreateReport(ctx context.Context, caller *entity.User, req reportDto.CreateReportRequest) (*reportDto.ReportResponse, error) {
	if caller == nil {
		return nil, errLoginRequired
	}

	postID, err := uuid.Parse(req.PostID)
	if err != nil {
		return nil, apperror.BadRequest("Ogiltigt inläggs-ID")
	}

	reason := sanitize.PlainText(req.Reason)
	if reason == "" {
		return nil, apperror.BadRequest("Anledning får inte vara tom")
	}

	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Inlägget hittades inte")
		}
		return nil, err
	}

	report := &entity.Report{
		PostID: post.ID,
		UserID: caller.ID,
		Reason: reason,
		Status: entity.ReportStatusPending,
	}
	if err := s.repo.Create(ctx, report); err != nil {
		return nil, err
	}

	report.Post = *post
	report.User = *caller
	res := buildReportResponse(report)
	return &res, nil
}

func (s *reportService) GetReports(ctx context.Context, caller *entity.User, filter reportDto.ReportFilter) (*reportDto.PaginatedReportResponse, error) {
	if caller == nil {
		return nil, errLoginRequired
	}
	if !authz.IsStaff(caller) {
		return nil, errStaffOnly
	}

	statuses := []entity.ReportStatus{entity.ReportStatusPending}
	switch filter.Status {
	case "", "pending":
	case "resolved":
		statuses = []entity.ReportStatus{entity.ReportStatusResolved, entity.ReportStatusRejected}
	default:
		return nil, apperror.BadRequest("Status måste vara pending eller resolved")
	}

	page, limit, last := filter.Normalize()
	if last {
		// The total is needed first to find the last page.
		_, total, err := s.repo.FindByStatuses(ctx, statuses, 0, 1)
		if err != nil {
			return nil, err
		}
		page = dto.TotalPages(total, limit)
	}

	reports, total, err := s.repo.FindByStatuses(ctx, statuses, dto.Offset(page, limit), limit)
	if err != nil {
		return nil, err
	}

	data := make([]reportDto.ReportResponse, 0, len(reports))
	for _, r := range reports {
		data = append(data, buildReportResponse(r))
	}

	return &reportDto.PaginatedReportResponse{
		Data: data,
		Meta: dto.NewMeta(page, limit, total),
	}, nil
}

func (s *reportService) ResolveReport(ctx context.Context, caller *entity.User, req reportDto.ResolveReportRequest) (*reportDto.ReportResponse, error) {
	if caller == nil {
		return nil, errLoginRequired
	}
	if !authz.IsStaff(caller) {
		return nil, errStaffOnly
	}

	reportID, err := uuid.Parse(req.ReportID)
	if err != nil {
		return nil, apperror.BadRequest("Ogiltigt rapport-ID")
	}

	status := entity.ReportStatus(req.Status)
	if !status.IsTerminal() {
		return nil, apperror.BadRequest("Status måste vara RESOLVED eller REJECTED")
	}

	resolution := sanitize.PlainText(req.Resolution)
	if resolution == "" {
		return nil, apperror.BadRequest("Beslut får inte vara tomt")
	}

	var report *entity.Report
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		current, err := s.repo.FindByID(ctx, reportID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errReportNotFound
			}
			return err
		}
		if current.Status != entity.ReportStatusPending {
			return errReportClosed
		}

		closed, err := s.repo.Close(ctx, reportID, status, resolution, caller.ID, time.Now())
		if err != nil {
			return err
		}
		if !closed {
			return errReportClosed
		}

		report, err = s.repo.FindByID(ctx, reportID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if s.notificationService != nil {
		message := "Din rapport har hanterats: " + resolution
		if status == entity.ReportStatusRejected {
			message = "Din rapport har avvisats: " + resolution
		}
		s.notificationService.Notify(ctx, &entity.Notification{
			UserID:   report.UserID,
			ActorID:  caller.ID,
			Type:     entity.NotificationReportClosed,
			ThreadID: &report.Post.ThreadID,
			PostID:   &report.PostID,
			Message:  message,
		})
	}

	res := buildReportResponse(report)
	return &res, nil
}
