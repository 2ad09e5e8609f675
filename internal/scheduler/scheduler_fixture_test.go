package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/noah-isme/faculty-loading-api/internal/models"
)

func faculty(id string, rank models.FacultyRank, credentials ...models.Credential) models.FacultyMember {
	return models.FacultyMember{
		ID:          id,
		FirstName:   id,
		Rank:        rank,
		Activity:    models.ActivityActive,
		Credentials: credentials,
	}
}

func credential(kind models.CredentialKind, programs ...string) models.Credential {
	return models.Credential{Kind: kind, AssociatedPrograms: programs}
}

func meeting(id, subjectID string, days models.MeetingDays, hours models.MeetingHours) models.ClassMeeting {
	return models.ClassMeeting{
		ID:           id,
		TermID:       "term-1",
		SubjectID:    subjectID,
		MeetingDays:  days,
		MeetingHours: hours,
		Subject: models.Subject{
			ID:       subjectID,
			Category: models.SubjectCategoryGeneral,
			Program:  "BSIT",
		},
	}
}

func majorMeeting(id, subjectID string, days models.MeetingDays, hours models.MeetingHours) models.ClassMeeting {
	m := meeting(id, subjectID, days, hours)
	m.Subject.Category = models.SubjectCategoryMajor
	return m
}

func assigned(m models.ClassMeeting, facultyID string) models.ClassMeeting {
	m.Feedback = &models.Feedback{
		ID:              "fb-" + m.ID,
		ClassMeetingID:  m.ID,
		FacultyMemberID: facultyID,
		Status:          models.FeedbackPending,
	}
	return m
}

func emptyState(meetings ...models.ClassMeeting) *TermState {
	return NewTermState("term-1", meetings, nil, nil, nil)
}

// memoryCommitter records commits in order.
type memoryCommitter struct {
	mu      sync.Mutex
	commits []models.Feedback
	failAt  int
}

func (c *memoryCommitter) CommitAssignment(_ context.Context, m models.ClassMeeting, facultyID string) (*models.Feedback, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failAt > 0 && len(c.commits)+1 == c.failAt {
		return nil, fmt.Errorf("insert feedback: boom")
	}
	fb := models.Feedback{
		ID:              fmt.Sprintf("fb-%d", len(c.commits)+1),
		ClassMeetingID:  m.ID,
		FacultyMemberID: facultyID,
		Status:          models.FeedbackPending,
	}
	c.commits = append(c.commits, fb)
	return &fb, nil
}
