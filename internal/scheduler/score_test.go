package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/faculty-loading-api/internal/models"
)

func newTestScorer() *Scorer {
	return NewScorer(DefaultLoadPolicy(), DefaultWeights())
}

func TestDiminishingReturnsConcave(t *testing.T) {
	for _, multiplier := range []float64{0.1, 0.4, 0.5, 0.9} {
		prevGain := DiminishingReturns(1, 250, multiplier)
		for n := 1; n < 12; n++ {
			gain := DiminishingReturns(n+1, 250, multiplier) - DiminishingReturns(n, 250, multiplier)
			assert.GreaterOrEqual(t, gain, 0.0)
			assert.LessOrEqual(t, gain, prevGain, "multiplier %v n %d", multiplier, n)
			prevGain = gain
		}
	}
	assert.Zero(t, DiminishingReturns(0, 250, 0.5))
	assert.Zero(t, DiminishingReturns(-3, 250, 0.5))
	assert.InDelta(t, 250+125+62.5, DiminishingReturns(3, 250, 0.5), 1e-9)
}

func TestScoreConflictIsError(t *testing.T) {
	d := faculty("d", models.RankInstructor)
	booked := assigned(meeting("m1", "s1", models.MeetingDaysMonThu, models.MeetingHoursAM7To9), "d")
	state := emptyState(booked)

	m3 := meeting("m3", "s1", models.MeetingDaysMonThu, models.MeetingHoursAM7To9)
	result := newTestScorer().Score(d, m3, state)

	assert.Contains(t, result.Errors, ReasonScheduleConflict)
	assert.False(t, result.Assignable())
}

func TestScoreSameBlockOtherDaysIsFine(t *testing.T) {
	d := faculty("d", models.RankInstructor)
	state := emptyState(assigned(meeting("m1", "s1", models.MeetingDaysTueFri, models.MeetingHoursAM7To9), "d"))

	result := newTestScorer().Score(d, meeting("m3", "s1", models.MeetingDaysMonThu, models.MeetingHoursAM7To9), state)
	assert.Empty(t, result.Errors)
}

func TestScoreThirdConsecutive(t *testing.T) {
	c := faculty("c", models.RankInstructor)
	state := emptyState(
		assigned(meeting("m-9", "s1", models.MeetingDaysMonThu, models.MeetingHoursAM9To11), "c"),
		assigned(meeting("m-11", "s1", models.MeetingDaysMonThu, models.MeetingHoursAM11To1), "c"),
	)
	m2 := meeting("m2", "s1", models.MeetingDaysMonThu, models.MeetingHoursPM1To3)

	result := newTestScorer().Score(c, m2, state)
	assert.Contains(t, result.Errors, ReasonThirdConsecutive)
	assert.NotContains(t, result.Errors, ReasonScheduleConflict)
}

func TestScoreSinglePrecedingBlockIsNotThirdConsecutive(t *testing.T) {
	c := faculty("c", models.RankInstructor)
	state := emptyState(assigned(meeting("m-11", "s1", models.MeetingDaysMonThu, models.MeetingHoursAM11To1), "c"))

	result := newTestScorer().Score(c, meeting("m2", "s1", models.MeetingDaysMonThu, models.MeetingHoursPM1To3), state)
	assert.Empty(t, result.Errors)
}

func TestScoreLoadGatesShortCircuit(t *testing.T) {
	full := faculty("fp", models.RankFullProfessor)
	state := emptyState(
		assigned(meeting("a", "s1", models.MeetingDaysMonThu, models.MeetingHoursAM7To9), "fp"),
		assigned(meeting("b", "s1", models.MeetingDaysTueFri, models.MeetingHoursAM7To9), "fp"),
	)
	state.externalLoads["fp"] = true

	result := newTestScorer().Score(full, meeting("c", "s1", models.MeetingDaysWedSat, models.MeetingHoursAM7To9), state)
	assert.Equal(t, []string{ReasonOverMaximumLoad, ReasonExternalLoadCap}, result.Errors)
	assert.Zero(t, result.Score)
	assert.Empty(t, result.Pros)
}

func TestScoreAdjunctMajorSubject(t *testing.T) {
	adj := faculty("adj", models.RankAdjunct)
	result := newTestScorer().Score(adj, majorMeeting("m", "s1", models.MeetingDaysMonThu, models.MeetingHoursAM7To9), emptyState())
	assert.Equal(t, []string{ReasonAdjunctMajorSubject}, result.Errors)

	result = newTestScorer().Score(adj, meeting("m", "s1", models.MeetingDaysMonThu, models.MeetingHoursAM7To9), emptyState())
	assert.Empty(t, result.Errors)
}

func TestScoreComponents(t *testing.T) {
	f := faculty("f", models.RankAssociateProfessor,
		credential(models.CredentialDegree, "BSIT"),
		credential(models.CredentialDegree, "BSIT", "BSCS"),
		credential(models.CredentialRecognition, "BSCS"),
	)
	constraints := []models.TimeConstraint{{
		FacultyMemberID: "f",
		TermID:          "term-1",
		MeetingDays:     models.MeetingDaysMonThu,
		MeetingHours:    models.MeetingHoursAM7To9,
		Availability:    models.AvailabilityAvailable,
		IsPreferred:     true,
	}}
	experience := []models.ExperienceCount{{
		ExperienceKey: models.ExperienceKey{FacultyMemberID: "f", SubjectID: "s1"},
		Count:         2,
	}}
	state := NewTermState("term-1", nil, constraints, nil, experience)

	result := newTestScorer().Score(f, meeting("m", "s1", models.MeetingDaysMonThu, models.MeetingHoursAM7To9), state)
	require.Empty(t, result.Errors)
	require.Empty(t, result.Cons)

	expected := 100.0 + // underload
		300.0 + // associate professor
		(250.0 + 125.0) + // two matching degrees
		(100.0 + 40.0) + // taught twice
		100.0 // preferred slot
	assert.InDelta(t, expected, result.Score, 1e-9)
	assert.Len(t, result.Pros, 4)
}

func TestScoreRankOrdering(t *testing.T) {
	m := meeting("m", "s1", models.MeetingDaysMonThu, models.MeetingHoursAM7To9)
	scorer := newTestScorer()
	var previous float64
	for i, rank := range []models.FacultyRank{models.RankPartTime, models.RankAdjunct, models.RankInstructor, models.RankAssistantProfessor, models.RankAssociateProfessor, models.RankFullProfessor} {
		score := scorer.Score(faculty("f", rank), m, emptyState()).Score
		if i > 0 {
			assert.Greater(t, score, previous, string(rank))
		}
		previous = score
	}
}

func TestScorePreps(t *testing.T) {
	f := faculty("f", models.RankInstructor)
	state := emptyState(
		assigned(meeting("a", "s1", models.MeetingDaysMonThu, models.MeetingHoursAM7To9), "f"),
		assigned(meeting("b", "s2", models.MeetingDaysTueFri, models.MeetingHoursAM7To9), "f"),
	)
	scorer := newTestScorer()

	third := scorer.Score(f, meeting("c", "s3", models.MeetingDaysWedSat, models.MeetingHoursAM7To9), state)
	assert.Equal(t, []string{ReasonTooManyPreps}, third.Cons)
	assert.True(t, third.Assignable())
	assert.False(t, third.Eligible())

	same := scorer.Score(f, meeting("d", "s2", models.MeetingDaysWedSat, models.MeetingHoursAM7To9), state)
	assert.Empty(t, same.Cons)
	assert.Contains(t, same.Pros, "already teaching this subject")
	assert.Greater(t, same.Score, third.Score)
}

func TestScoreAvailability(t *testing.T) {
	f := faculty("f", models.RankInstructor)
	constraints := []models.TimeConstraint{
		{FacultyMemberID: "f", MeetingDays: models.MeetingDaysMonThu, MeetingHours: models.MeetingHoursAM7To9, Availability: models.AvailabilityAvailable},
		{FacultyMemberID: "f", MeetingDays: models.MeetingDaysMonThu, MeetingHours: models.MeetingHoursAM9To11, Availability: models.AvailabilityUnavailable},
	}
	state := NewTermState("term-1", nil, constraints, nil, nil)
	scorer := newTestScorer()

	ok := scorer.Score(f, meeting("a", "s1", models.MeetingDaysMonThu, models.MeetingHoursAM7To9), state)
	assert.Empty(t, ok.Cons)

	blocked := scorer.Score(f, meeting("b", "s1", models.MeetingDaysMonThu, models.MeetingHoursAM9To11), state)
	assert.Equal(t, []string{ReasonNotAvailable}, blocked.Cons)

	missing := scorer.Score(f, meeting("c", "s1", models.MeetingDaysTueFri, models.MeetingHoursPM5To7), state)
	assert.Equal(t, []string{ReasonNotAvailable}, missing.Cons)

	unconstrained := scorer.Score(faculty("g", models.RankInstructor), meeting("c", "s1", models.MeetingDaysTueFri, models.MeetingHoursPM5To7), state)
	assert.Empty(t, unconstrained.Cons)
}

func TestLoadPolicyStatus(t *testing.T) {
	policy := DefaultLoadPolicy()
	cases := map[int]LoadStatus{
		0: LoadUnassigned,
		2: LoadUnderloaded,
		3: LoadAdequate,
		4: LoadExtra,
		5: LoadExtra,
		6: LoadMax,
		7: LoadOverloaded,
	}
	for count, want := range cases {
		assert.Equal(t, want, policy.Status(models.RankInstructor, count), "count %d", count)
	}

	assert.True(t, policy.Within(models.RankInstructor, 5, false))
	assert.False(t, policy.Within(models.RankInstructor, 5, true))
	assert.False(t, policy.Within(models.RankInstructor, 2, false))
	assert.False(t, policy.Within(models.FacultyRank("DEAN"), 2, false))
}
