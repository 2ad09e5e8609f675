package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/faculty-loading-api/internal/dto"
	"github.com/noah-isme/faculty-loading-api/internal/models"
	"github.com/noah-isme/faculty-loading-api/internal/scheduler"
	appErrors "github.com/noah-isme/faculty-loading-api/pkg/errors"
)

type schedulerTermRepository interface {
	FindByID(ctx context.Context, id string) (*models.Term, error)
}

type schedulerFacultyRepository interface {
	ListActive(ctx context.Context) ([]models.FacultyMember, error)
	FindByID(ctx context.Context, id string) (*models.FacultyMember, error)
	FindByUserID(ctx context.Context, userID string) (*models.FacultyMember, error)
}

type schedulerClassMeetingRepository interface {
	List(ctx context.Context, filter models.ClassMeetingFilter) ([]models.ClassMeeting, error)
	FindByID(ctx context.Context, id string) (*models.ClassMeeting, error)
}

type schedulerFeedbackRepository interface {
	Assign(ctx context.Context, classMeetingID, facultyMemberID string) (*models.Feedback, error)
	UpdateStatus(ctx context.Context, id string, status models.FeedbackStatus) error
	ExperienceCounts(ctx context.Context) ([]models.ExperienceCount, error)
}

type termConstraintLister interface {
	ListByTerm(ctx context.Context, termID string) ([]models.TimeConstraint, error)
}

type termExternalLoadLister interface {
	ListByTerm(ctx context.Context, termID string) ([]models.ExternalLoad, error)
}

type termLocker interface {
	Acquire(ctx context.Context, termID string, ttl time.Duration) (func(context.Context) error, bool, error)
}

type recommendationCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	InvalidateTerm(ctx context.Context, termID string) error
}

// lockGrace covers the work done under the term lock outside the run timeout.
const lockGrace = 30 * time.Second

// SchedulerConfig tunes automatic assignment. LockTTL is raised to outlive RunTimeout.
type SchedulerConfig struct {
	RunTimeout     time.Duration
	ScoringWorkers int
	LockTTL        time.Duration
	CacheTTL       time.Duration
}

// SchedulerRepositories groups the stores the scheduler reads and writes.
type SchedulerRepositories struct {
	Terms         schedulerTermRepository
	Faculty       schedulerFacultyRepository
	ClassMeetings schedulerClassMeetingRepository
	Feedbacks     schedulerFeedbackRepository
	Constraints   termConstraintLister
	ExternalLoads termExternalLoadLister
}

// SchedulerService runs automatic assignment and the manual assignment workflow.
type SchedulerService struct {
	repos     SchedulerRepositories
	locks     termLocker
	cache     recommendationCache
	metrics   *MetricsService
	policy    scheduler.LoadPolicy
	scorer    *scheduler.Scorer
	ranker    *scheduler.Ranker
	validator *validator.Validate
	logger    *zap.Logger
	config    SchedulerConfig
}

// NewSchedulerService wires the scheduling engine to its stores. cache and metrics may be nil.
func NewSchedulerService(repos SchedulerRepositories, locks termLocker, cache recommendationCache, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg SchedulerConfig) *SchedulerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 2 * time.Minute
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 5 * time.Minute
	}
	if cfg.LockTTL < cfg.RunTimeout+lockGrace {
		cfg.LockTTL = cfg.RunTimeout + lockGrace
	}
	policy := scheduler.DefaultLoadPolicy()
	scorer := scheduler.NewScorer(policy, scheduler.DefaultWeights())
	return &SchedulerService{
		repos:     repos,
		locks:     locks,
		cache:     cache,
		metrics:   metrics,
		policy:    policy,
		scorer:    scorer,
		ranker:    scheduler.NewRanker(scorer, policy, cfg.ScoringWorkers),
		validator: validate,
		logger:    logger,
		config:    cfg,
	}
}

// termSnapshot is everything the engine needs about one term.
type termSnapshot struct {
	term     *models.Term
	meetings []models.ClassMeeting
	pool     []models.FacultyMember
	state    *scheduler.TermState
}

// AutoAssign assigns every open class meeting of a term in Scheduling status and
// returns the term's meetings afterwards.
func (s *SchedulerService) AutoAssign(ctx context.Context, termID string) (*dto.AutoAssignResponse, error) {
	term, err := s.findTerm(ctx, termID)
	if err != nil {
		return nil, err
	}
	if term.Status != models.TermScheduling {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "automatic assignment requires a term in SCHEDULING status")
	}

	unlock, ok, err := s.lockTerm(ctx, term.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.metrics.ObserveScheduleRun(RunOutcomeLocked, 0, 0, 0)
		return nil, appErrors.Clone(appErrors.ErrLocked, "another assignment is in progress for this term")
	}
	defer unlock()

	runCtx, cancel := context.WithTimeout(ctx, s.config.RunTimeout)
	defer cancel()

	snapshot, err := s.loadSnapshot(runCtx, term)
	if err != nil {
		return nil, err
	}

	driver := scheduler.NewDriver(s.ranker, feedbackCommitter{repo: s.repos.Feedbacks}, s.logger)
	report, runErr := driver.Run(runCtx, snapshot.meetings, snapshot.pool, snapshot.state)
	if len(report.Assigned) > 0 {
		s.invalidate(ctx, term.ID)
	}
	if runErr != nil {
		if errors.Is(runErr, context.DeadlineExceeded) {
			s.metrics.ObserveScheduleRun(RunOutcomeTimeout, len(report.Assigned), len(report.Skipped), report.Duration)
			return nil, appErrors.Wrap(runErr, appErrors.ErrTimeout.Code, appErrors.ErrTimeout.Status, "automatic assignment did not finish in time; completed assignments were kept")
		}
		s.metrics.ObserveScheduleRun(RunOutcomeFailed, len(report.Assigned), len(report.Skipped), report.Duration)
		return nil, appErrors.Wrap(runErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "automatic assignment failed")
	}
	s.metrics.ObserveScheduleRun(RunOutcomeCompleted, len(report.Assigned), len(report.Skipped), report.Duration)

	meetings, err := s.repos.ClassMeetings.List(ctx, models.ClassMeetingFilter{TermID: term.ID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class meetings")
	}

	skipped := make([]dto.SkippedClassMeeting, 0, len(report.Skipped))
	for _, item := range report.Skipped {
		skipped = append(skipped, dto.SkippedClassMeeting{ClassMeetingID: item.ClassMeetingID, Reason: item.Reason})
	}
	return &dto.AutoAssignResponse{
		TermID:        term.ID,
		Considered:    report.Considered,
		Assigned:      len(report.Assigned),
		Skipped:       skipped,
		DurationMs:    report.Duration.Milliseconds(),
		ClassMeetings: meetings,
	}, nil
}

// Recommend ranks every active faculty member for a meeting without committing anything.
func (s *SchedulerService) Recommend(ctx context.Context, termID, meetingID string, query dto.RecommendationQuery) (*dto.RecommendationResponse, error) {
	cacheKey := RecommendationCacheKey(termID, meetingID, query.All)
	if s.cache != nil {
		var cached dto.RecommendationResponse
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	term, err := s.findTerm(ctx, termID)
	if err != nil {
		return nil, err
	}
	meeting, err := s.findMeeting(ctx, term.ID, meetingID)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.loadSnapshot(ctx, term)
	if err != nil {
		return nil, err
	}
	// a meeting is never scored against its own current assignment
	snapshot.state.Release(meeting.ID)

	started := time.Now()
	candidates, err := s.ranker.Rank(ctx, *meeting, snapshot.pool, snapshot.state, scheduler.RankOptions{SkipFairness: query.All})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to rank candidates")
	}
	s.metrics.ObserveRanking(time.Since(started))

	resp := &dto.RecommendationResponse{
		ClassMeetingID: meeting.ID,
		GeneratedAt:    time.Now().UTC(),
		Candidates:     make([]dto.CandidateView, 0, len(candidates)),
	}
	for _, candidate := range candidates {
		count := snapshot.state.AssignmentCount(candidate.FacultyMemberID)
		resp.Candidates = append(resp.Candidates, dto.CandidateView{
			FacultyMemberID: candidate.FacultyMemberID,
			Name:            candidate.Faculty.FullName(),
			Rank:            candidate.Faculty.Rank,
			AssignmentCount: count,
			LoadStatus:      string(s.policy.Status(candidate.Faculty.Rank, count)),
			Score:           candidate.Score,
			Pros:            candidate.Pros,
			Cons:            candidate.Cons,
			Errors:          candidate.Errors,
			Eligible:        candidate.Eligible(),
		})
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, cacheKey, resp, s.config.CacheTTL)
	}
	return resp, nil
}

// SetFaculty assigns a meeting by hand. Pairings with hard errors are refused; soft
// cons are accepted as a human override. It shares the term lock with AutoAssign.
func (s *SchedulerService) SetFaculty(ctx context.Context, termID, meetingID, facultyMemberID string) (*models.ClassMeeting, error) {
	term, err := s.findTerm(ctx, termID)
	if err != nil {
		return nil, err
	}
	if term.Status != models.TermScheduling {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "manual assignment requires a term in SCHEDULING status")
	}

	unlock, ok, err := s.lockTerm(ctx, term.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrLocked, "another assignment is in progress for this term")
	}
	defer unlock()

	meeting, err := s.findMeeting(ctx, term.ID, meetingID)
	if err != nil {
		return nil, err
	}

	member, err := s.repos.Faculty.FindByID(ctx, facultyMemberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty member")
	}
	if !member.Active() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "faculty member is inactive")
	}

	snapshot, err := s.loadSnapshot(ctx, term)
	if err != nil {
		return nil, err
	}
	snapshot.state.Release(meeting.ID)

	result := s.scorer.Score(*member, *meeting, snapshot.state)
	if !result.Assignable() {
		return nil, appErrors.WithDetails(appErrors.ErrValidation, "faculty member cannot take this class meeting", result)
	}

	feedback, err := s.repos.Feedbacks.Assign(ctx, meeting.ID, member.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign class meeting")
	}
	s.invalidate(ctx, term.ID)

	s.logger.Info("class meeting assigned manually",
		zap.String("term_id", term.ID),
		zap.String("class_meeting_id", meeting.ID),
		zap.String("faculty_member_id", member.ID),
		zap.Strings("cons", result.Cons),
	)
	meeting.Feedback = feedback
	return meeting, nil
}

// SetFeedback records the assigned faculty member's answer while the term gathers feedback.
func (s *SchedulerService) SetFeedback(ctx context.Context, termID, meetingID, userID string, req dto.SetFeedbackRequest) (*models.Feedback, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid feedback payload")
	}
	term, err := s.findTerm(ctx, termID)
	if err != nil {
		return nil, err
	}
	if term.Status != models.TermFeedbackGathering {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "feedback is only accepted while the term is in FEEDBACK_GATHERING status")
	}
	meeting, err := s.findMeeting(ctx, term.ID, meetingID)
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
	if meeting.Feedback == nil || meeting.Feedback.FacultyMemberID != member.ID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "class meeting is not assigned to you")
	}

	if err := s.repos.Feedbacks.UpdateStatus(ctx, meeting.Feedback.ID, req.Status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record feedback")
	}
	// accepted feedback feeds the experience counts behind recommendations
	s.invalidate(ctx, term.ID)
	feedback := *meeting.Feedback
	feedback.Status = req.Status
	feedback.UpdatedAt = time.Now().UTC()
	return &feedback, nil
}

// lockTerm takes the single-writer lock of a term. ok is false when another writer holds it.
func (s *SchedulerService) lockTerm(ctx context.Context, termID string) (func(), bool, error) {
	release, ok, err := s.locks.Acquire(ctx, termID, s.config.LockTTL)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to lock term")
	}
	if !ok {
		return nil, false, nil
	}
	return func() {
		if err := release(context.Background()); err != nil {
			s.logger.Warn("failed to release term lock", zap.String("term_id", termID), zap.Error(err))
		}
	}, true, nil
}

func (s *SchedulerService) findTerm(ctx context.Context, termID string) (*models.Term, error) {
	term, err := s.repos.Terms.FindByID(ctx, termID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "term not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load term")
	}
	return term, nil
}

func (s *SchedulerService) findMeeting(ctx context.Context, termID, meetingID string) (*models.ClassMeeting, error) {
	meeting, err := s.repos.ClassMeetings.FindByID(ctx, meetingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class meeting not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class meeting")
	}
	if meeting.TermID != termID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "class meeting not found in term")
	}
	return meeting, nil
}

func (s *SchedulerService) loadSnapshot(ctx context.Context, term *models.Term) (*termSnapshot, error) {
	wrap := func(err error, what string) error {
		if errors.Is(err, context.DeadlineExceeded) {
			return appErrors.Wrap(err, appErrors.ErrTimeout.Code, appErrors.ErrTimeout.Status, "timed out loading "+what)
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load "+what)
	}

	meetings, err := s.repos.ClassMeetings.List(ctx, models.ClassMeetingFilter{TermID: term.ID})
	if err != nil {
		return nil, wrap(err, "class meetings")
	}
	pool, err := s.repos.Faculty.ListActive(ctx)
	if err != nil {
		return nil, wrap(err, "faculty members")
	}
	constraints, err := s.repos.Constraints.ListByTerm(ctx, term.ID)
	if err != nil {
		return nil, wrap(err, "time constraints")
	}
	externalLoads, err := s.repos.ExternalLoads.ListByTerm(ctx, term.ID)
	if err != nil {
		return nil, wrap(err, "external loads")
	}
	experience, err := s.repos.Feedbacks.ExperienceCounts(ctx)
	if err != nil {
		return nil, wrap(err, "teaching history")
	}

	return &termSnapshot{
		term:     term,
		meetings: meetings,
		pool:     pool,
		state:    scheduler.NewTermState(term.ID, meetings, constraints, externalLoads, experience),
	}, nil
}

func (s *SchedulerService) invalidate(ctx context.Context, termID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateTerm(ctx, termID); err != nil {
		s.logger.Warn("failed to invalidate recommendations", zap.String("term_id", termID), zap.Error(err))
	}
}

// feedbackCommitter persists driver commits as pending feedback rows.
type feedbackCommitter struct {
	repo schedulerFeedbackRepository
}

func (c feedbackCommitter) CommitAssignment(ctx context.Context, meeting models.ClassMeeting, facultyMemberID string) (*models.Feedback, error) {
	return c.repo.Assign(ctx, meeting.ID, facultyMemberID)
}
