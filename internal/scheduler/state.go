package scheduler

import "github.com/noah-isme/faculty-loading-api/internal/models"

// Assignment is a meeting already committed to a faculty member in the term.
type Assignment struct {
	MeetingID    string
	SubjectID    string
	MeetingDays  models.MeetingDays
	MeetingHours models.MeetingHours
}

// TermState is the in-memory view of one term that the scorer reads.
//
// It indexes committed assignments per faculty member and is updated by Commit
// right after each feedback is persisted, so later meetings of a run observe
// earlier commits without re-querying storage. Scoring only reads the state;
// Commit and Release must not run concurrently with scoring.
type TermState struct {
	TermID string

	assigned      map[string][]Assignment
	owner         map[string]string
	constraints   map[string][]models.TimeConstraint
	externalLoads map[string]bool
	experience    map[models.ExperienceKey]int
}

// NewTermState indexes the term's meetings, constraints, external loads and
// accepted teaching history.
func NewTermState(
	termID string,
	meetings []models.ClassMeeting,
	constraints []models.TimeConstraint,
	externalLoads []models.ExternalLoad,
	experience []models.ExperienceCount,
) *TermState {
	state := &TermState{
		TermID:        termID,
		assigned:      make(map[string][]Assignment),
		owner:         make(map[string]string),
		constraints:   make(map[string][]models.TimeConstraint),
		externalLoads: make(map[string]bool, len(externalLoads)),
		experience:    make(map[models.ExperienceKey]int, len(experience)),
	}
	for _, meeting := range meetings {
		if meeting.Feedback == nil {
			continue
		}
		state.Commit(meeting.Feedback.FacultyMemberID, meeting)
	}
	for _, tc := range constraints {
		if tc.TermID != "" && tc.TermID != termID {
			continue
		}
		state.constraints[tc.FacultyMemberID] = append(state.constraints[tc.FacultyMemberID], tc)
	}
	for _, el := range externalLoads {
		if el.TermID != "" && el.TermID != termID {
			continue
		}
		state.externalLoads[el.FacultyMemberID] = true
	}
	for _, row := range experience {
		state.experience[row.ExperienceKey] += row.Count
	}
	return state
}

// Commit records meeting as assigned to facultyID. Re-committing a meeting moves it.
func (s *TermState) Commit(facultyID string, meeting models.ClassMeeting) {
	s.Release(meeting.ID)
	s.assigned[facultyID] = append(s.assigned[facultyID], Assignment{
		MeetingID:    meeting.ID,
		SubjectID:    meeting.SubjectID,
		MeetingDays:  meeting.MeetingDays,
		MeetingHours: meeting.MeetingHours,
	})
	s.owner[meeting.ID] = facultyID
}

// Release forgets the assignment of meetingID, if any.
func (s *TermState) Release(meetingID string) {
	facultyID, ok := s.owner[meetingID]
	if !ok {
		return
	}
	delete(s.owner, meetingID)
	items := s.assigned[facultyID]
	kept := items[:0]
	for _, item := range items {
		if item.MeetingID != meetingID {
			kept = append(kept, item)
		}
	}
	if len(kept) == 0 {
		delete(s.assigned, facultyID)
		return
	}
	s.assigned[facultyID] = kept
}

// Owner returns the faculty member currently holding meetingID.
func (s *TermState) Owner(meetingID string) (string, bool) {
	id, ok := s.owner[meetingID]
	return id, ok
}

// Assignments returns the meetings committed to facultyID.
func (s *TermState) Assignments(facultyID string) []Assignment {
	return s.assigned[facultyID]
}

// AssignmentCount returns how many meetings facultyID holds this term.
func (s *TermState) AssignmentCount(facultyID string) int {
	return len(s.assigned[facultyID])
}

// HasExternalLoad reports the external load flag of facultyID.
func (s *TermState) HasExternalLoad(facultyID string) bool {
	return s.externalLoads[facultyID]
}

// Constraints returns the time constraints facultyID submitted for the term.
func (s *TermState) Constraints(facultyID string) []models.TimeConstraint {
	return s.constraints[facultyID]
}

// TimesTaught returns the accepted teaching history of facultyID for subjectID.
func (s *TermState) TimesTaught(facultyID, subjectID string) int {
	return s.experience[models.ExperienceKey{FacultyMemberID: facultyID, SubjectID: subjectID}]
}
