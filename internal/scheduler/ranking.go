package scheduler

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/faculty-loading-api/internal/models"
)

// Candidate pairs a faculty member with their evaluation for one meeting.
type Candidate struct {
	Faculty models.FacultyMember `json:"faculty"`
	Result
}

// RankOptions tunes a ranking round.
type RankOptions struct {
	// SkipFairness disables the full-time minimum pre-pass. Recommendation views use it
	// to show part-time and adjunct members while full-time members are underloaded.
	SkipFairness bool
}

// Ranker scores a faculty pool against a meeting and orders it best first.
type Ranker struct {
	scorer  *Scorer
	policy  LoadPolicy
	workers int
}

// NewRanker constructs a ranker. workers bounds concurrent scoring; values below one score serially.
func NewRanker(scorer *Scorer, policy LoadPolicy, workers int) *Ranker {
	if workers < 1 {
		workers = 1
	}
	return &Ranker{scorer: scorer, policy: policy, workers: workers}
}

// Rank returns every candidate of pool for meeting, best first. Inactive members are
// dropped. Candidates carrying errors or cons are kept; callers filter them.
func (r *Ranker) Rank(ctx context.Context, meeting models.ClassMeeting, pool []models.FacultyMember, state *TermState, opts RankOptions) ([]Candidate, error) {
	active := make([]models.FacultyMember, 0, len(pool))
	for _, faculty := range pool {
		if faculty.Active() {
			active = append(active, faculty)
		}
	}
	if !opts.SkipFairness {
		active = r.fairnessPool(active, state)
	}

	candidates := make([]Candidate, len(active))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.workers)
	for i := range active {
		i := i
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			candidates[i] = Candidate{
				Faculty: active[i],
				Result:  r.scorer.Score(active[i], meeting, state),
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	SortCandidates(candidates)
	return candidates, nil
}

// fairnessPool restricts the pool to full-time members while any of them is below
// their rank minimum.
func (r *Ranker) fairnessPool(pool []models.FacultyMember, state *TermState) []models.FacultyMember {
	fullTime := make([]models.FacultyMember, 0, len(pool))
	underloaded := false
	for _, faculty := range pool {
		if !faculty.Rank.IsFullTime() {
			continue
		}
		fullTime = append(fullTime, faculty)
		limit, _ := r.policy.For(faculty.Rank)
		if state.AssignmentCount(faculty.ID) < limit.Minimum {
			underloaded = true
		}
	}
	if !underloaded {
		return pool
	}
	return fullTime
}

// SortCandidates orders by score descending, then faculty id ascending.
func SortCandidates(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].FacultyMemberID < candidates[j].FacultyMemberID
	})
}

// EligibleOnly keeps the candidates the automatic driver may commit.
func EligibleOnly(candidates []Candidate) []Candidate {
	eligible := make([]Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.Eligible() {
			eligible = append(eligible, candidate)
		}
	}
	return eligible
}
