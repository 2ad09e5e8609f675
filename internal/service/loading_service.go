package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/faculty-loading-api/internal/dto"
	"github.com/noah-isme/faculty-loading-api/internal/models"
	"github.com/noah-isme/faculty-loading-api/internal/scheduler"
	appErrors "github.com/noah-isme/faculty-loading-api/pkg/errors"
	"github.com/noah-isme/faculty-loading-api/pkg/export"
)

type sheetRenderer interface {
	Render(sheet export.Sheet) ([]byte, error)
}

// LoadingRepositories groups the stores read by the loading views.
type LoadingRepositories struct {
	Terms         schedulerTermRepository
	Faculty       schedulerFacultyRepository
	ClassMeetings schedulerClassMeetingRepository
	ExternalLoads termExternalLoadLister
}

// LoadingExport is a rendered loading sheet.
type LoadingExport struct {
	Filename    string
	ContentType string
	Data        []byte
}

// LoadingConfig brands the exported sheet.
type LoadingConfig struct {
	Institution string
}

// LoadingService reports who teaches what in a term.
type LoadingService struct {
	repos  LoadingRepositories
	policy scheduler.LoadPolicy
	config LoadingConfig
	csv    sheetRenderer
	pdf    sheetRenderer
	logger *zap.Logger
}

// NewLoadingService constructs a LoadingService. Nil renderers fall back to pkg/export.
func NewLoadingService(repos LoadingRepositories, cfg LoadingConfig, csv, pdf sheetRenderer, logger *zap.Logger) *LoadingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &LoadingService{repos: repos, policy: scheduler.DefaultLoadPolicy(), config: cfg, csv: csv, pdf: pdf, logger: logger}
}

// TermLoading summarises every active faculty member's assignments in a term.
func (s *LoadingService) TermLoading(ctx context.Context, termID string) ([]dto.FacultyLoading, error) {
	term, err := s.findTerm(ctx, termID)
	if err != nil {
		return nil, err
	}
	members, err := s.repos.Faculty.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty members")
	}
	meetings, external, err := s.termData(ctx, term.ID)
	if err != nil {
		return nil, err
	}

	byFaculty := groupByFaculty(meetings)
	result := make([]dto.FacultyLoading, 0, len(members))
	for _, member := range members {
		result = append(result, s.loadingOf(member, byFaculty[member.ID], external[member.ID]))
	}
	return result, nil
}

// MySchedule returns the calling faculty member's own loading.
func (s *LoadingService) MySchedule(ctx context.Context, termID, userID string) (*dto.MyScheduleResponse, error) {
	term, err := s.findTerm(ctx, termID)
	if err != nil {
		return nil, err
	}
	member, err := s.repos.Faculty.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "account is not linked to a faculty member")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty member")
	}
	meetings, err := s.repos.ClassMeetings.List(ctx, models.ClassMeetingFilter{TermID: term.ID, FacultyMemberID: member.ID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class meetings")
	}
	loads, err := s.repos.ExternalLoads.ListByTerm(ctx, term.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load external loads")
	}
	hasExternal := false
	for _, load := range loads {
		if load.FacultyMemberID == member.ID {
			hasExternal = true
			break
		}
	}
	return &dto.MyScheduleResponse{Term: *term, Loading: s.loadingOf(*member, meetings, hasExternal)}, nil
}

// Export renders the term's loading sheet as csv (default) or pdf.
func (s *LoadingService) Export(ctx context.Context, termID string, query dto.ExportQuery) (*LoadingExport, error) {
	format := strings.ToLower(query.Format)
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "pdf" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	term, err := s.findTerm(ctx, termID)
	if err != nil {
		return nil, err
	}
	members, err := s.repos.Faculty.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty members")
	}
	meetings, _, err := s.termData(ctx, term.ID)
	if err != nil {
		return nil, err
	}

	sheet := buildLoadingSheet(*term, meetings, members)
	if s.config.Institution != "" {
		sheet.Title = s.config.Institution + " " + sheet.Title
	}
	var (
		data        []byte
		contentType string
	)
	if format == "pdf" {
		data, err = s.pdf.Render(sheet)
		contentType = "application/pdf"
	} else {
		data, err = s.csv.Render(sheet)
		contentType = "text/csv"
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render loading sheet")
	}

	s.logger.Info("loading sheet exported", zap.String("term_id", term.ID), zap.String("format", format), zap.Int("rows", len(sheet.Rows)))
	return &LoadingExport{
		Filename:    fmt.Sprintf("loading-%d-%s.%s", term.StartYear, strings.ToLower(string(term.Ordinal)), format),
		ContentType: contentType,
		Data:        data,
	}, nil
}

func (s *LoadingService) loadingOf(member models.FacultyMember, meetings []models.ClassMeeting, hasExternal bool) dto.FacultyLoading {
	limit, _ := s.policy.For(member.Rank)
	if meetings == nil {
		meetings = []models.ClassMeeting{}
	}
	return dto.FacultyLoading{
		FacultyMemberID: member.ID,
		Name:            member.FullName(),
		Rank:            member.Rank,
		Minimum:         limit.Minimum,
		Maximum:         limit.Maximum,
		Extra:           limit.Extra,
		HasExternalLoad: hasExternal,
		AssignmentCount: len(meetings),
		LoadStatus:      string(s.policy.Status(member.Rank, len(meetings))),
		ClassMeetings:   meetings,
	}
}

func (s *LoadingService) termData(ctx context.Context, termID string) ([]models.ClassMeeting, map[string]bool, error) {
	meetings, err := s.repos.ClassMeetings.List(ctx, models.ClassMeetingFilter{TermID: termID})
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class meetings")
	}
	loads, err := s.repos.ExternalLoads.ListByTerm(ctx, termID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load external loads")
	}
	external := make(map[string]bool, len(loads))
	for _, load := range loads {
		external[load.FacultyMemberID] = true
	}
	return meetings, external, nil
}

func (s *LoadingService) findTerm(ctx context.Context, termID string) (*models.Term, error) {
	term, err := s.repos.Terms.FindByID(ctx, termID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "term not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load term")
	}
	return term, nil
}

func groupByFaculty(meetings []models.ClassMeeting) map[string][]models.ClassMeeting {
	grouped := make(map[string][]models.ClassMeeting)
	for _, meeting := range meetings {
		if meeting.Feedback != nil {
			grouped[meeting.Feedback.FacultyMemberID] = append(grouped[meeting.Feedback.FacultyMemberID], meeting)
		}
	}
	return grouped
}

var loadingSheetHeaders = []string{"Subject", "Title", "Section", "Course", "Year", "Days", "Time", "Room", "Faculty", "Status"}

func buildLoadingSheet(term models.Term, meetings []models.ClassMeeting, members []models.FacultyMember) export.Sheet {
	names := make(map[string]string, len(members))
	for _, member := range members {
		names[member.ID] = member.FullName()
	}

	rows := make([][]string, 0, len(meetings))
	for _, meeting := range meetings {
		faculty, status := "", ""
		switch {
		case meeting.Feedback != nil:
			faculty = names[meeting.Feedback.FacultyMemberID]
			if faculty == "" {
				faculty = meeting.Feedback.FacultyMemberID
			}
			status = string(meeting.Feedback.Status)
		case meeting.ForAdjunct && meeting.AdjunctName != nil:
			faculty = *meeting.AdjunctName
			status = "ADJUNCT"
		}
		rows = append(rows, []string{
			meeting.Subject.Code,
			meeting.Subject.Name,
			meeting.Section,
			meeting.Course,
			meeting.StudentYear,
			strings.ReplaceAll(string(meeting.MeetingDays), "_", "/"),
			meeting.MeetingHours.Label(),
			meeting.Room,
			faculty,
			status,
		})
	}

	return export.Sheet{
		Title:    "Faculty Loading",
		Subtitle: fmt.Sprintf("%s (%s)", term.Label(), term.Status),
		Headers:  loadingSheetHeaders,
		Widths:   []float64{1.2, 3, 0.8, 1.2, 0.6, 1, 1.8, 1, 2.4, 1.2},
		Rows:     rows,
	}
}
