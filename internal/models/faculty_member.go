package models

import "time"

// FacultyRank is the academic rank of a faculty member.
type FacultyRank string

const (
	RankInstructor         FacultyRank = "INSTRUCTOR"
	RankAssistantProfessor FacultyRank = "ASSISTANT_PROFESSOR"
	RankAssociateProfessor FacultyRank = "ASSOCIATE_PROFESSOR"
	RankFullProfessor      FacultyRank = "FULL_PROFESSOR"
	RankPartTime           FacultyRank = "PART_TIME"
	RankAdjunct            FacultyRank = "ADJUNCT"
)

// Ranks lists every rank in ascending academic order.
var Ranks = []FacultyRank{
	RankPartTime,
	RankAdjunct,
	RankInstructor,
	RankAssistantProfessor,
	RankAssociateProfessor,
	RankFullProfessor,
}

// IsFullTime reports whether the rank carries a full-time load.
func (r FacultyRank) IsFullTime() bool {
	switch r {
	case RankInstructor, RankAssistantProfessor, RankAssociateProfessor, RankFullProfessor:
		return true
	default:
		return false
	}
}

// Valid reports whether r is a known rank.
func (r FacultyRank) Valid() bool {
	for _, rank := range Ranks {
		if rank == r {
			return true
		}
	}
	return false
}

// ActivityStatus flags whether a faculty member takes part in loading.
type ActivityStatus string

const (
	ActivityActive   ActivityStatus = "ACTIVE"
	ActivityInactive ActivityStatus = "INACTIVE"
)

// FacultyMember is a teaching staff record together with its credentials.
type FacultyMember struct {
	ID        string         `db:"id" json:"id"`
	UserID    string         `db:"user_id" json:"user_id"`
	FirstName string         `db:"first_name" json:"first_name"`
	LastName  string         `db:"last_name" json:"last_name"`
	PnuID     string         `db:"pnu_id" json:"pnu_id"`
	Rank      FacultyRank    `db:"rank" json:"rank"`
	Activity  ActivityStatus `db:"activity" json:"activity"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`

	Credentials []Credential `db:"-" json:"credentials,omitempty"`
}

// Active reports whether the member is eligible for loading.
func (f FacultyMember) Active() bool {
	return f.Activity == ActivityActive
}

// FullName joins the first and last name.
func (f FacultyMember) FullName() string {
	if f.LastName == "" {
		return f.FirstName
	}
	return f.FirstName + " " + f.LastName
}
