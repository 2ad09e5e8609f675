package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/noah-isme/faculty-loading-api/internal/dto"
	"github.com/noah-isme/faculty-loading-api/internal/models"
	appErrors "github.com/noah-isme/faculty-loading-api/pkg/errors"
)

type termRepoStub struct {
	terms    map[string]*models.Term
	created  []*models.Term
	statuses []models.TermStatus
	exists   bool
	// vanish drops the term before an update, as a concurrent delete would.
	vanish bool
}

func newTermRepoStub(terms ...models.Term) *termRepoStub {
	stub := &termRepoStub{terms: make(map[string]*models.Term)}
	for i := range terms {
		term := terms[i]
		stub.terms[term.ID] = &term
	}
	return stub
}

func (s *termRepoStub) List(_ context.Context, filter models.TermFilter) ([]models.Term, int, error) {
	var out []models.Term
	for _, term := range s.terms {
		if filter.Status != nil && term.Status != *filter.Status {
			continue
		}
		out = append(out, *term)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (s *termRepoStub) FindByID(_ context.Context, id string) (*models.Term, error) {
	term, ok := s.terms[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *term
	return &cp, nil
}

func (s *termRepoStub) FindCurrent(_ context.Context) (*models.Term, error) {
	for _, term := range s.terms {
		if term.Status != models.TermArchived {
			cp := *term
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *termRepoStub) ExistsByYearAndOrdinal(_ context.Context, _ int, _ models.OrdinalTerm) (bool, error) {
	return s.exists, nil
}

func (s *termRepoStub) Create(_ context.Context, term *models.Term) error {
	term.ID = fmt.Sprintf("term-%d", len(s.terms)+1)
	for _, existing := range s.terms {
		existing.Status = models.TermArchived
	}
	cp := *term
	s.terms[term.ID] = &cp
	s.created = append(s.created, &cp)
	return nil
}

func (s *termRepoStub) UpdateStatus(_ context.Context, id string, status models.TermStatus) error {
	if s.vanish {
		delete(s.terms, id)
	}
	term, ok := s.terms[id]
	if !ok {
		return sql.ErrNoRows
	}
	term.Status = status
	s.statuses = append(s.statuses, status)
	return nil
}

type facultyRepoStub struct {
	members []models.FacultyMember
}

func (s *facultyRepoStub) ListActive(_ context.Context) ([]models.FacultyMember, error) {
	var out []models.FacultyMember
	for _, member := range s.members {
		if member.Active() {
			out = append(out, member)
		}
	}
	return out, nil
}

func (s *facultyRepoStub) FindByID(_ context.Context, id string) (*models.FacultyMember, error) {
	for _, member := range s.members {
		if member.ID == id {
			cp := member
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *facultyRepoStub) FindByUserID(_ context.Context, userID string) (*models.FacultyMember, error) {
	for _, member := range s.members {
		if member.UserID == userID {
			cp := member
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

// meetingStore backs both the class meeting and the feedback stubs so assignments
// show up in later listings.
type meetingStore struct {
	mu       sync.Mutex
	meetings []models.ClassMeeting
	assigns  int
	failOn   int
}

func (s *meetingStore) List(_ context.Context, filter models.ClassMeetingFilter) ([]models.ClassMeeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.ClassMeeting{}
	for _, meeting := range s.meetings {
		if meeting.TermID != filter.TermID {
			continue
		}
		if filter.FacultyMemberID != "" && (meeting.Feedback == nil || meeting.Feedback.FacultyMemberID != filter.FacultyMemberID) {
			continue
		}
		if filter.UnassignedOnly && meeting.Feedback != nil {
			continue
		}
		out = append(out, copyMeeting(meeting))
	}
	return out, nil
}

func (s *meetingStore) FindByID(_ context.Context, id string) (*models.ClassMeeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, meeting := range s.meetings {
		if meeting.ID == id {
			cp := copyMeeting(meeting)
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *meetingStore) Create(_ context.Context, meeting *models.ClassMeeting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	meeting.ID = fmt.Sprintf("cm-new-%d", len(s.meetings)+1)
	s.meetings = append(s.meetings, *meeting)
	return nil
}

func (s *meetingStore) Assign(_ context.Context, classMeetingID, facultyMemberID string) (*models.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assigns++
	if s.failOn > 0 && s.assigns == s.failOn {
		return nil, fmt.Errorf("insert feedback: connection reset")
	}
	for i := range s.meetings {
		if s.meetings[i].ID == classMeetingID {
			fb := &models.Feedback{
				ID:              "fb-" + classMeetingID,
				ClassMeetingID:  classMeetingID,
				FacultyMemberID: facultyMemberID,
				Status:          models.FeedbackPending,
			}
			s.meetings[i].Feedback = fb
			cp := *fb
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("class meeting %s missing", classMeetingID)
}

func (s *meetingStore) UpdateStatus(_ context.Context, id string, status models.FeedbackStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.meetings {
		if fb := s.meetings[i].Feedback; fb != nil && fb.ID == id {
			fb.Status = status
			return nil
		}
	}
	return sql.ErrNoRows
}

func (s *meetingStore) ExperienceCounts(_ context.Context) ([]models.ExperienceCount, error) {
	return nil, nil
}

func (s *meetingStore) owner(meetingID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, meeting := range s.meetings {
		if meeting.ID == meetingID && meeting.Feedback != nil {
			return meeting.Feedback.FacultyMemberID
		}
	}
	return ""
}

func copyMeeting(m models.ClassMeeting) models.ClassMeeting {
	if m.Feedback != nil {
		fb := *m.Feedback
		m.Feedback = &fb
	}
	return m
}

type constraintRepoStub struct {
	byTerm   []models.TimeConstraint
	replaced map[string][]models.TimeConstraint
}

func (s *constraintRepoStub) ListByTerm(_ context.Context, termID string) ([]models.TimeConstraint, error) {
	var out []models.TimeConstraint
	for _, tc := range s.byTerm {
		if tc.TermID == termID {
			out = append(out, tc)
		}
	}
	return out, nil
}

func (s *constraintRepoStub) Replace(_ context.Context, termID, facultyMemberID string, constraints []models.TimeConstraint) error {
	if s.replaced == nil {
		s.replaced = make(map[string][]models.TimeConstraint)
	}
	s.replaced[termID+"/"+facultyMemberID] = constraints
	return nil
}

type externalLoadRepoStub struct {
	loads []models.ExternalLoad
}

func (s *externalLoadRepoStub) ListByTerm(_ context.Context, termID string) ([]models.ExternalLoad, error) {
	var out []models.ExternalLoad
	for _, load := range s.loads {
		if load.TermID == termID {
			out = append(out, load)
		}
	}
	return out, nil
}

func (s *externalLoadRepoStub) Set(_ context.Context, termID, facultyMemberID string) error {
	s.loads = append(s.loads, models.ExternalLoad{TermID: termID, FacultyMemberID: facultyMemberID})
	return nil
}

func (s *externalLoadRepoStub) Clear(_ context.Context, termID, facultyMemberID string) error {
	kept := s.loads[:0]
	for _, load := range s.loads {
		if load.TermID != termID || load.FacultyMemberID != facultyMemberID {
			kept = append(kept, load)
		}
	}
	s.loads = kept
	return nil
}

type subjectRepoStub struct {
	subjects map[string]models.Subject
}

func (s *subjectRepoStub) FindByID(_ context.Context, id string) (*models.Subject, error) {
	subject, ok := s.subjects[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &subject, nil
}

type lockStub struct {
	held     bool
	released int
	ttl      time.Duration
}

func (l *lockStub) Acquire(_ context.Context, _ string, ttl time.Duration) (func(context.Context) error, bool, error) {
	l.ttl = ttl
	if l.held {
		return nil, false, nil
	}
	l.held = true
	return func(context.Context) error {
		l.held = false
		l.released++
		return nil
	}, true, nil
}

// cacheStub holds recommendation responses by pointer instead of encoding them.
type cacheStub struct {
	mu          sync.Mutex
	items       map[string]interface{}
	hits        int
	invalidated []string
}

func newCacheStub() *cacheStub {
	return &cacheStub{items: make(map[string]interface{})}
}

func (c *cacheStub) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.items[key]
	if !ok {
		return false, nil
	}
	target, ok := dest.(*dto.RecommendationResponse)
	if !ok {
		return false, appErrors.ErrInternal
	}
	*target = *(value.(*dto.RecommendationResponse))
	c.hits++
	return true, nil
}

func (c *cacheStub) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
	return nil
}

func (c *cacheStub) InvalidateTerm(_ context.Context, termID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, termID)
	prefix := strings.TrimSuffix(TermCachePattern(termID), "*")
	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
		}
	}
	return nil
}

func activeFaculty(id, userID string, rank models.FacultyRank) models.FacultyMember {
	return models.FacultyMember{
		ID:        id,
		UserID:    userID,
		FirstName: strings.ToUpper(id[:1]) + id[1:],
		LastName:  "Test",
		Rank:      rank,
		Activity:  models.ActivityActive,
	}
}

func classMeeting(id, subjectID string, days models.MeetingDays, hours models.MeetingHours) models.ClassMeeting {
	return models.ClassMeeting{
		ID:           id,
		TermID:       "term-1",
		SubjectID:    subjectID,
		MeetingDays:  days,
		MeetingHours: hours,
		Section:      "A",
		Room:         "R101",
		Subject: models.Subject{
			ID:       subjectID,
			Code:     strings.ToUpper(subjectID),
			Name:     "Subject " + subjectID,
			Category: models.SubjectCategoryGeneral,
			Program:  "BSIT",
		},
	}
}

func withFeedback(m models.ClassMeeting, facultyID string, status models.FeedbackStatus) models.ClassMeeting {
	m.Feedback = &models.Feedback{
		ID:              "fb-" + m.ID,
		ClassMeetingID:  m.ID,
		FacultyMemberID: facultyID,
		Status:          status,
	}
	return m
}
