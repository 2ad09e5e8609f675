package scheduler

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/faculty-loading-api/internal/models"
)

// Committer persists one assignment. It must be durable before it returns so later
// meetings of the run observe it.
type Committer interface {
	CommitAssignment(ctx context.Context, meeting models.ClassMeeting, facultyMemberID string) (*models.Feedback, error)
}

// SkippedMeeting is a meeting left unassigned because no candidate was eligible.
type SkippedMeeting struct {
	ClassMeetingID string `json:"class_meeting_id"`
	Reason         string `json:"reason"`
}

// Report summarises one scheduling run.
type Report struct {
	TermID     string            `json:"term_id"`
	Considered int               `json:"considered"`
	Assigned   []models.Feedback `json:"assigned"`
	Skipped    []SkippedMeeting  `json:"skipped"`
	Duration   time.Duration     `json:"duration"`
}

// Driver walks a term's open meetings in block order and commits the best eligible
// candidate for each, one at a time.
type Driver struct {
	ranker    *Ranker
	committer Committer
	logger    *zap.Logger
}

// NewDriver constructs a driver.
func NewDriver(ranker *Ranker, committer Committer, logger *zap.Logger) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{ranker: ranker, committer: committer, logger: logger}
}

// Run assigns every open meeting it can. Meetings with no eligible candidate are
// reported and skipped. A commit failure or context cancellation stops the run and
// returns the partial report together with the error.
func (d *Driver) Run(ctx context.Context, meetings []models.ClassMeeting, pool []models.FacultyMember, state *TermState) (Report, error) {
	started := time.Now()
	report := Report{
		TermID:   state.TermID,
		Assigned: []models.Feedback{},
		Skipped:  []SkippedMeeting{},
	}

	open := OrderForAssignment(meetings)
	report.Considered = len(open)

	for _, meeting := range open {
		if err := ctx.Err(); err != nil {
			report.Duration = time.Since(started)
			return report, err
		}

		candidates, err := d.ranker.Rank(ctx, meeting, pool, state, RankOptions{})
		if err != nil {
			report.Duration = time.Since(started)
			return report, err
		}
		eligible := EligibleOnly(candidates)
		if len(eligible) == 0 {
			report.Skipped = append(report.Skipped, SkippedMeeting{
				ClassMeetingID: meeting.ID,
				Reason:         fmt.Sprintf("no eligible candidate among %d", len(candidates)),
			})
			d.logger.Info("class meeting left unassigned",
				zap.String("term_id", state.TermID),
				zap.String("class_meeting_id", meeting.ID),
				zap.Int("candidates", len(candidates)),
			)
			continue
		}

		best := eligible[0]
		feedback, err := d.committer.CommitAssignment(ctx, meeting, best.FacultyMemberID)
		if err != nil {
			report.Duration = time.Since(started)
			return report, fmt.Errorf("commit class meeting %s: %w", meeting.ID, err)
		}
		state.Commit(best.FacultyMemberID, meeting)
		if feedback != nil {
			report.Assigned = append(report.Assigned, *feedback)
		}
		d.logger.Debug("class meeting assigned",
			zap.String("term_id", state.TermID),
			zap.String("class_meeting_id", meeting.ID),
			zap.String("faculty_member_id", best.FacultyMemberID),
			zap.Float64("score", best.Score),
		)
	}

	report.Duration = time.Since(started)
	d.logger.Info("schedule run finished",
		zap.String("term_id", state.TermID),
		zap.Int("considered", report.Considered),
		zap.Int("assigned", len(report.Assigned)),
		zap.Int("skipped", len(report.Skipped)),
		zap.Duration("duration", report.Duration),
	)
	return report, nil
}

// OrderForAssignment returns the unassigned, non-adjunct meetings sorted by block,
// then day pattern, then id. Earlier blocks must be committed before later ones are
// checked for conflicts and consecutive runs.
func OrderForAssignment(meetings []models.ClassMeeting) []models.ClassMeeting {
	open := make([]models.ClassMeeting, 0, len(meetings))
	for _, meeting := range meetings {
		if meeting.ForAdjunct || meeting.Assigned() {
			continue
		}
		open = append(open, meeting)
	}
	sort.SliceStable(open, func(i, j int) bool {
		a, b := open[i], open[j]
		if c := models.CompareMeetingHours(a.MeetingHours, b.MeetingHours); c != 0 {
			return c < 0
		}
		if a.MeetingDays.Index() != b.MeetingDays.Index() {
			return a.MeetingDays.Index() < b.MeetingDays.Index()
		}
		return a.ID < b.ID
	})
	return open
}
