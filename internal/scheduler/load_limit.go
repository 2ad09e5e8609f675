package scheduler

import "github.com/noah-isme/faculty-loading-api/internal/models"

// LoadLimit bounds how many class meetings a rank carries in one term.
//
// Minimum is the fewest classes a member must carry, Maximum the most they may
// ever carry, and Extra the count at which a member holding an external load
// stops receiving classes.
type LoadLimit struct {
	Minimum int `json:"minimum"`
	Maximum int `json:"maximum"`
	Extra   int `json:"extra"`
}

// LoadPolicy maps ranks to their limits. It is read-only once built.
type LoadPolicy struct {
	limits map[models.FacultyRank]LoadLimit
}

// NewLoadPolicy copies limits into an immutable policy.
func NewLoadPolicy(limits map[models.FacultyRank]LoadLimit) LoadPolicy {
	copied := make(map[models.FacultyRank]LoadLimit, len(limits))
	for rank, limit := range limits {
		copied[rank] = limit
	}
	return LoadPolicy{limits: copied}
}

var defaultLoadPolicy = NewLoadPolicy(map[models.FacultyRank]LoadLimit{
	models.RankInstructor:         {Minimum: 3, Maximum: 6, Extra: 4},
	models.RankAssistantProfessor: {Minimum: 3, Maximum: 5, Extra: 4},
	models.RankAssociateProfessor: {Minimum: 2, Maximum: 4, Extra: 3},
	models.RankFullProfessor:      {Minimum: 2, Maximum: 2, Extra: 0},
	models.RankPartTime:           {Minimum: 2, Maximum: 2, Extra: 2},
	models.RankAdjunct:            {Minimum: 2, Maximum: 2, Extra: 2},
})

// DefaultLoadPolicy returns the institutional loading table.
func DefaultLoadPolicy() LoadPolicy {
	return defaultLoadPolicy
}

// For returns the limit of rank. Unknown ranks get a zero limit, which makes
// every assignment exceed the maximum.
func (p LoadPolicy) For(rank models.FacultyRank) (LoadLimit, bool) {
	limit, ok := p.limits[rank]
	return limit, ok
}

// LoadStatus classifies a member's assignment count against their limit.
type LoadStatus string

const (
	LoadUnassigned  LoadStatus = "UNASSIGNED"
	LoadUnderloaded LoadStatus = "UNDERLOADED"
	LoadAdequate    LoadStatus = "ADEQUATE"
	LoadExtra       LoadStatus = "EXTRA"
	LoadMax         LoadStatus = "MAX"
	LoadOverloaded  LoadStatus = "OVERLOADED"
)

// Status classifies count for rank.
func (p LoadPolicy) Status(rank models.FacultyRank, count int) LoadStatus {
	limit, _ := p.For(rank)
	switch {
	case count == 0:
		return LoadUnassigned
	case count < limit.Minimum:
		return LoadUnderloaded
	case count < limit.Extra:
		return LoadAdequate
	case count < limit.Maximum:
		return LoadExtra
	case count == limit.Maximum:
		return LoadMax
	default:
		return LoadOverloaded
	}
}

// Within reports whether count satisfies the published-term policy for rank.
// External load holders may not exceed their Extra threshold.
func (p LoadPolicy) Within(rank models.FacultyRank, count int, hasExternalLoad bool) bool {
	limit, ok := p.For(rank)
	if !ok {
		return false
	}
	if count < limit.Minimum || count > limit.Maximum {
		return false
	}
	if hasExternalLoad && count > limit.Extra {
		return false
	}
	return true
}
