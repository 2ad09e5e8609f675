package scheduler

import "github.com/noah-isme/faculty-loading-api/internal/models"

// BasePoints is the flat bonus used for underload, same-subject and preferred-slot boosts.
const BasePoints = 100.0

// MaximumPreps is the number of distinct subjects a member may prepare for in a term.
const MaximumPreps = 2

// Weights holds the scoring constants.
type Weights struct {
	Rank                 map[models.FacultyRank]float64
	Credential           map[models.CredentialKind]float64
	CredentialMultiplier float64
	ExperienceBase       float64
	ExperienceMultiplier float64
	UnderloadBonus       float64
	SameSubjectBonus     float64
	PreferredBonus       float64
}

// DefaultWeights returns the production scoring table.
func DefaultWeights() Weights {
	return Weights{
		Rank: map[models.FacultyRank]float64{
			models.RankFullProfessor:      350,
			models.RankAssociateProfessor: 300,
			models.RankAssistantProfessor: 250,
			models.RankInstructor:         200,
			models.RankAdjunct:            150,
			models.RankPartTime:           100,
		},
		Credential: map[models.CredentialKind]float64{
			models.CredentialDegree:                250,
			models.CredentialInstructionalMaterial: 200,
			models.CredentialPresentation:          150,
			models.CredentialExtensionWork:         100,
			models.CredentialRecognition:           50,
		},
		CredentialMultiplier: 0.5,
		ExperienceBase:       BasePoints,
		ExperienceMultiplier: 0.4,
		UnderloadBonus:       BasePoints,
		SameSubjectBonus:     BasePoints,
		PreferredBonus:       BasePoints,
	}
}
