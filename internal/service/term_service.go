package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/faculty-loading-api/internal/dto"
	"github.com/noah-isme/faculty-loading-api/internal/models"
	"github.com/noah-isme/faculty-loading-api/internal/scheduler"
	appErrors "github.com/noah-isme/faculty-loading-api/pkg/errors"
)

type termRepository interface {
	List(ctx context.Context, filter models.TermFilter) ([]models.Term, int, error)
	FindByID(ctx context.Context, id string) (*models.Term, error)
	FindCurrent(ctx context.Context) (*models.Term, error)
	ExistsByYearAndOrdinal(ctx context.Context, startYear int, ordinal models.OrdinalTerm) (bool, error)
	Create(ctx context.Context, term *models.Term) error
	UpdateStatus(ctx context.Context, id string, status models.TermStatus) error
}

type termClassMeetingRepository interface {
	List(ctx context.Context, filter models.ClassMeetingFilter) ([]models.ClassMeeting, error)
	Create(ctx context.Context, meeting *models.ClassMeeting) error
}

type termSubjectRepository interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

type termFacultyRepository interface {
	ListActive(ctx context.Context) ([]models.FacultyMember, error)
	FindByID(ctx context.Context, id string) (*models.FacultyMember, error)
	FindByUserID(ctx context.Context, userID string) (*models.FacultyMember, error)
}

type termConstraintRepository interface {
	Replace(ctx context.Context, termID, facultyMemberID string, constraints []models.TimeConstraint) error
}

type termExternalLoadRepository interface {
	ListByTerm(ctx context.Context, termID string) ([]models.ExternalLoad, error)
	Set(ctx context.Context, termID, facultyMemberID string) error
	Clear(ctx context.Context, termID, facultyMemberID string) error
}

// TermRepositories groups the stores used by the term lifecycle.
type TermRepositories struct {
	Terms         termRepository
	ClassMeetings termClassMeetingRepository
	Subjects      termSubjectRepository
	Faculty       termFacultyRepository
	Constraints   termConstraintRepository
	ExternalLoads termExternalLoadRepository
}

// AdvanceBlocker explains why a term could not move to its next status.
type AdvanceBlocker struct {
	FacultyMemberIDs []string `json:"facultyMemberIds,omitempty"`
	ClassMeetingIDs  []string `json:"classMeetingIds,omitempty"`
}

// TermService manages terms and the inputs the scheduler reads from them.
type TermService struct {
	repos     TermRepositories
	cache     recommendationCache
	policy    scheduler.LoadPolicy
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTermService creates a new term service instance. cache may be nil.
func NewTermService(repos TermRepositories, cache recommendationCache, validate *validator.Validate, logger *zap.Logger) *TermService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TermService{repos: repos, cache: cache, policy: scheduler.DefaultLoadPolicy(), validator: validate, logger: logger}
}

// List returns paginated terms.
func (s *TermService) List(ctx context.Context, query dto.ListTermsQuery) ([]models.Term, *models.Pagination, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid term filter")
	}
	page := query.Page
	if page < 1 {
		page = 1
	}
	size := query.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	filter := models.TermFilter{StartYear: query.StartYear, Page: page, PageSize: size}
	if query.Status != "" {
		status := models.TermStatus(query.Status)
		filter.Status = &status
	}

	terms, total, err := s.repos.Terms.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list terms")
	}
	return terms, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a term by ID.
func (s *TermService) Get(ctx context.Context, id string) (*models.Term, error) {
	term, err := s.repos.Terms.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "term not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load term")
	}
	return term, nil
}

// Current returns the single non-archived term.
func (s *TermService) Current(ctx context.Context) (*models.Term, error) {
	term, err := s.repos.Terms.FindCurrent(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no current term")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load current term")
	}
	return term, nil
}

// Create opens a term in INITIALIZING status and archives every other term.
func (s *TermService) Create(ctx context.Context, req dto.CreateTermRequest) (*models.Term, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid term payload")
	}

	exists, err := s.repos.Terms.ExistsByYearAndOrdinal(ctx, req.StartYear, req.Ordinal)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check term uniqueness")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "term already exists for start year and ordinal")
	}

	term := &models.Term{StartYear: req.StartYear, Ordinal: req.Ordinal, Status: models.TermInitializing}
	if err := s.repos.Terms.Create(ctx, term); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create term")
	}
	s.logger.Info("term created", zap.String("term_id", term.ID), zap.String("label", term.Label()))
	return term, nil
}

// Advance moves the term one status forward once the gate of that step holds.
func (s *TermService) Advance(ctx context.Context, id string) (*models.Term, error) {
	term, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next, ok := term.Status.Next()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "archived terms cannot advance")
	}

	switch term.Status {
	case models.TermScheduling:
		err = s.checkSchedulingComplete(ctx, term)
	case models.TermFeedbackGathering:
		err = s.checkFeedbackComplete(ctx, term)
	}
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, term, next)
}

// Regress moves the term one status back.
func (s *TermService) Regress(ctx context.Context, id string) (*models.Term, error) {
	term, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	previous, ok := term.Status.Previous()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, fmt.Sprintf("%s terms cannot regress", term.Status))
	}
	return s.transition(ctx, term, previous)
}

func (s *TermService) transition(ctx context.Context, term *models.Term, status models.TermStatus) (*models.Term, error) {
	if err := s.repos.Terms.UpdateStatus(ctx, term.ID, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "term not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update term status")
	}
	s.logger.Info("term status changed",
		zap.String("term_id", term.ID),
		zap.String("from", string(term.Status)),
		zap.String("to", string(status)),
	)
	updated := *term
	updated.Status = status
	s.invalidate(ctx, term.ID)
	return &updated, nil
}

// checkSchedulingComplete requires every active member to hold a meeting and every
// meeting not reserved for adjuncts to be assigned.
func (s *TermService) checkSchedulingComplete(ctx context.Context, term *models.Term) error {
	meetings, members, err := s.termLoading(ctx, term.ID)
	if err != nil {
		return err
	}
	counts := assignmentCounts(meetings)

	var blocker AdvanceBlocker
	for _, member := range members {
		if counts[member.ID] == 0 {
			blocker.FacultyMemberIDs = append(blocker.FacultyMemberIDs, member.ID)
		}
	}
	for _, meeting := range meetings {
		if !meeting.ForAdjunct && meeting.Feedback == nil {
			blocker.ClassMeetingIDs = append(blocker.ClassMeetingIDs, meeting.ID)
		}
	}
	if len(blocker.FacultyMemberIDs) > 0 || len(blocker.ClassMeetingIDs) > 0 {
		return appErrors.WithDetails(appErrors.ErrPreconditionFailed, "every faculty member and class meeting must be assigned before gathering feedback", blocker)
	}
	return nil
}

// checkFeedbackComplete requires every load to be within limits and no rejected feedback.
func (s *TermService) checkFeedbackComplete(ctx context.Context, term *models.Term) error {
	meetings, members, err := s.termLoading(ctx, term.ID)
	if err != nil {
		return err
	}
	externalLoads, err := s.repos.ExternalLoads.ListByTerm(ctx, term.ID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load external loads")
	}
	external := make(map[string]bool, len(externalLoads))
	for _, load := range externalLoads {
		external[load.FacultyMemberID] = true
	}
	counts := assignmentCounts(meetings)

	var blocker AdvanceBlocker
	for _, member := range members {
		if !s.policy.Within(member.Rank, counts[member.ID], external[member.ID]) {
			blocker.FacultyMemberIDs = append(blocker.FacultyMemberIDs, member.ID)
		}
	}
	for _, meeting := range meetings {
		if meeting.Feedback != nil && meeting.Feedback.Status == models.FeedbackRejected {
			blocker.ClassMeetingIDs = append(blocker.ClassMeetingIDs, meeting.ID)
		}
	}
	if len(blocker.FacultyMemberIDs) > 0 || len(blocker.ClassMeetingIDs) > 0 {
		return appErrors.WithDetails(appErrors.ErrPreconditionFailed, "loads must be within limits and no assignment may be rejected before publishing", blocker)
	}
	return nil
}

func (s *TermService) termLoading(ctx context.Context, termID string) ([]models.ClassMeeting, []models.FacultyMember, error) {
	meetings, err := s.repos.ClassMeetings.List(ctx, models.ClassMeetingFilter{TermID: termID})
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class meetings")
	}
	members, err := s.repos.Faculty.ListActive(ctx)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty members")
	}
	return meetings, members, nil
}

// AddClassMeeting creates a meeting while the term is still being scheduled.
func (s *TermService) AddClassMeeting(ctx context.Context, termID string, req dto.CreateClassMeetingRequest) (*models.ClassMeeting, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class meeting payload")
	}
	term, err := s.editableTerm(ctx, termID)
	if err != nil {
		return nil, err
	}
	subject, err := s.repos.Subjects.FindByID(ctx, req.SubjectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}

	meeting := &models.ClassMeeting{
		TermID:       term.ID,
		SubjectID:    subject.ID,
		MeetingDays:  req.MeetingDays,
		MeetingHours: req.MeetingHours,
		Room:         req.Room,
		Section:      req.Section,
		Course:       req.Course,
		StudentYear:  req.StudentYear,
		ForAdjunct:   req.ForAdjunct,
		AdjunctName:  req.AdjunctName,
		Subject:      *subject,
	}
	if err := s.repos.ClassMeetings.Create(ctx, meeting); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class meeting")
	}
	s.invalidate(ctx, term.ID)
	return meeting, nil
}

// ListClassMeetings returns a term's meetings with their assignments.
func (s *TermService) ListClassMeetings(ctx context.Context, termID string, query dto.ListClassMeetingsQuery) ([]models.ClassMeeting, error) {
	term, err := s.Get(ctx, termID)
	if err != nil {
		return nil, err
	}
	meetings, err := s.repos.ClassMeetings.List(ctx, models.ClassMeetingFilter{
		TermID:          term.ID,
		FacultyMemberID: query.FacultyMemberID,
		UnassignedOnly:  query.UnassignedOnly,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list class meetings")
	}
	return meetings, nil
}

// SetTimeConstraints replaces the calling faculty member's availability for a term.
func (s *TermService) SetTimeConstraints(ctx context.Context, termID, userID string, req dto.SetTimeConstraintsRequest) ([]models.TimeConstraint, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid time constraints")
	}
	term, err := s.editableTerm(ctx, termID)
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

	seen := make(map[string]struct{}, len(req.Constraints))
	constraints := make([]models.TimeConstraint, 0, len(req.Constraints))
	for _, input := range req.Constraints {
		slot := string(input.MeetingDays) + "/" + string(input.MeetingHours)
		if _, dup := seen[slot]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, "duplicate time constraint for "+slot)
		}
		seen[slot] = struct{}{}
		constraints = append(constraints, models.TimeConstraint{
			FacultyMemberID: member.ID,
			TermID:          term.ID,
			MeetingDays:     input.MeetingDays,
			MeetingHours:    input.MeetingHours,
			Availability:    input.Availability,
			IsPreferred:     input.IsPreferred,
		})
	}

	if err := s.repos.Constraints.Replace(ctx, term.ID, member.ID, constraints); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save time constraints")
	}
	s.invalidate(ctx, term.ID)
	return constraints, nil
}

// SetExternalLoad sets or clears the external teaching flag of a faculty member.
func (s *TermService) SetExternalLoad(ctx context.Context, termID, facultyMemberID string, req dto.SetExternalLoadRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid external load payload")
	}
	term, err := s.Get(ctx, termID)
	if err != nil {
		return err
	}
	if term.Status == models.TermArchived {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "archived terms are read-only")
	}
	if _, err := s.repos.Faculty.FindByID(ctx, facultyMemberID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "faculty member not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty member")
	}

	if *req.HasExternalLoad {
		err = s.repos.ExternalLoads.Set(ctx, term.ID, facultyMemberID)
	} else {
		err = s.repos.ExternalLoads.Clear(ctx, term.ID, facultyMemberID)
	}
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update external load")
	}
	s.invalidate(ctx, term.ID)
	return nil
}

func (s *TermService) editableTerm(ctx context.Context, termID string) (*models.Term, error) {
	term, err := s.Get(ctx, termID)
	if err != nil {
		return nil, err
	}
	if term.Status != models.TermInitializing && term.Status != models.TermScheduling {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "term inputs can only change while INITIALIZING or SCHEDULING")
	}
	return term, nil
}

func (s *TermService) invalidate(ctx context.Context, termID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateTerm(ctx, termID); err != nil {
		s.logger.Warn("failed to invalidate recommendations", zap.String("term_id", termID), zap.Error(err))
	}
}

func assignmentCounts(meetings []models.ClassMeeting) map[string]int {
	counts := make(map[string]int)
	for _, meeting := range meetings {
		if meeting.Feedback != nil {
			counts[meeting.Feedback.FacultyMemberID]++
		}
	}
	return counts
}
