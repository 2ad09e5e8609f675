package scheduler

import (
	"fmt"

	"github.com/noah-isme/faculty-loading-api/internal/models"
)

// Reasons reported by the scorer. Handlers surface them verbatim.
const (
	ReasonOverMaximumLoad     = "over maximum load"
	ReasonExternalLoadCap     = "external load cap exceeded"
	ReasonAdjunctMajorSubject = "adjunct cannot teach major subject"
	ReasonScheduleConflict    = "schedule conflict"
	ReasonThirdConsecutive    = "third consecutive"
	ReasonTooManyPreps        = "too many preps"
	ReasonNotAvailable        = "not available"
)

// Result is the evaluation of one faculty member against one class meeting.
type Result struct {
	FacultyMemberID string   `json:"faculty_member_id"`
	Score           float64  `json:"score"`
	Pros            []string `json:"pros"`
	Cons            []string `json:"cons"`
	Errors          []string `json:"errors"`
}

// Assignable reports whether a human may commit the pairing. Cons are allowed.
func (r Result) Assignable() bool {
	return len(r.Errors) == 0
}

// Eligible reports whether the automatic driver may commit the pairing.
func (r Result) Eligible() bool {
	return len(r.Errors) == 0 && len(r.Cons) == 0
}

// Scorer evaluates faculty members against class meetings.
type Scorer struct {
	policy  LoadPolicy
	weights Weights
}

// NewScorer constructs a scorer from a load policy and a weight table.
func NewScorer(policy LoadPolicy, weights Weights) *Scorer {
	return &Scorer{policy: policy, weights: weights}
}

// Score evaluates faculty against meeting using the committed state of the term.
// It never mutates state.
func (s *Scorer) Score(faculty models.FacultyMember, meeting models.ClassMeeting, state *TermState) Result {
	result := Result{
		FacultyMemberID: faculty.ID,
		Pros:            []string{},
		Cons:            []string{},
		Errors:          []string{},
	}

	count := state.AssignmentCount(faculty.ID)
	limit, _ := s.policy.For(faculty.Rank)

	if count >= limit.Maximum {
		result.Errors = append(result.Errors, ReasonOverMaximumLoad)
	}
	if state.HasExternalLoad(faculty.ID) && count >= limit.Extra {
		result.Errors = append(result.Errors, ReasonExternalLoadCap)
	}
	if faculty.Rank == models.RankAdjunct && meeting.Subject.Category != models.SubjectCategoryGeneral {
		result.Errors = append(result.Errors, ReasonAdjunctMajorSubject)
	}
	if len(result.Errors) > 0 {
		return result
	}

	if count < limit.Minimum {
		result.Score += s.weights.UnderloadBonus
		result.Pros = append(result.Pros, fmt.Sprintf("underloaded (%d of minimum %d)", count, limit.Minimum))
	}

	result.Score += s.weights.Rank[faculty.Rank]
	s.scoreCredentials(&result, faculty, meeting)

	assignments := state.Assignments(faculty.ID)
	s.scorePreps(&result, meeting, assignments)
	scoreCompatibility(&result, meeting, assignments)

	if taught := state.TimesTaught(faculty.ID, meeting.SubjectID); taught > 0 {
		result.Score += DiminishingReturns(taught, s.weights.ExperienceBase, s.weights.ExperienceMultiplier)
		result.Pros = append(result.Pros, fmt.Sprintf("taught this subject %d time(s)", taught))
	}

	s.scoreAvailability(&result, meeting, state.Constraints(faculty.ID))
	return result
}

func (s *Scorer) scoreCredentials(result *Result, faculty models.FacultyMember, meeting models.ClassMeeting) {
	program := meeting.Subject.Program
	if program == "" {
		return
	}
	counts := make(map[models.CredentialKind]int, len(models.CredentialKinds))
	for _, credential := range faculty.Credentials {
		if credential.AssociatedWith(program) {
			counts[credential.Kind]++
		}
	}
	for _, kind := range models.CredentialKinds {
		n := counts[kind]
		if n == 0 {
			continue
		}
		result.Score += DiminishingReturns(n, s.weights.Credential[kind], s.weights.CredentialMultiplier)
		result.Pros = append(result.Pros, fmt.Sprintf("%d %s credential(s) in %s", n, kind, program))
	}
}

func (s *Scorer) scorePreps(result *Result, meeting models.ClassMeeting, assignments []Assignment) {
	subjects := make(map[string]struct{}, len(assignments))
	for _, a := range assignments {
		subjects[a.SubjectID] = struct{}{}
	}
	if _, ok := subjects[meeting.SubjectID]; ok {
		result.Score += s.weights.SameSubjectBonus
		result.Pros = append(result.Pros, "already teaching this subject")
		return
	}
	if len(subjects) >= MaximumPreps {
		result.Cons = append(result.Cons, ReasonTooManyPreps)
	}
}

func scoreCompatibility(result *Result, meeting models.ClassMeeting, assignments []Assignment) {
	booked := make(map[models.MeetingHours]bool)
	for _, a := range assignments {
		if a.MeetingDays == meeting.MeetingDays && a.MeetingID != meeting.ID {
			booked[a.MeetingHours] = true
		}
	}
	if booked[meeting.MeetingHours] {
		result.Errors = append(result.Errors, ReasonScheduleConflict)
	}
	preceding := meeting.MeetingHours.PrecedingTwo()
	if len(preceding) == 2 && booked[preceding[0]] && booked[preceding[1]] {
		result.Errors = append(result.Errors, ReasonThirdConsecutive)
	}
}

func (s *Scorer) scoreAvailability(result *Result, meeting models.ClassMeeting, constraints []models.TimeConstraint) {
	if len(constraints) == 0 {
		return
	}
	for _, tc := range constraints {
		if !tc.Matches(meeting.MeetingDays, meeting.MeetingHours) || tc.Availability != models.AvailabilityAvailable {
			continue
		}
		if tc.IsPreferred {
			result.Score += s.weights.PreferredBonus
			result.Pros = append(result.Pros, "preferred time slot")
		}
		return
	}
	result.Cons = append(result.Cons, ReasonNotAvailable)
}
