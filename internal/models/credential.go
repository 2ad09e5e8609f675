package models

import (
	"time"

	"github.com/lib/pq"
)

// CredentialKind tags the five credential sub-document families.
type CredentialKind string

const (
	CredentialDegree                CredentialKind = "DEGREE"
	CredentialInstructionalMaterial CredentialKind = "INSTRUCTIONAL_MATERIAL"
	CredentialPresentation          CredentialKind = "PRESENTATION"
	CredentialExtensionWork         CredentialKind = "EXTENSION_WORK"
	CredentialRecognition           CredentialKind = "RECOGNITION"
)

// CredentialKinds lists every kind from the most to the least weighted.
var CredentialKinds = []CredentialKind{
	CredentialDegree,
	CredentialInstructionalMaterial,
	CredentialPresentation,
	CredentialExtensionWork,
	CredentialRecognition,
}

// Credential is a degree, instructional material, presentation, extension work or
// recognition owned by a faculty member.
type Credential struct {
	ID                 string         `db:"id" json:"id"`
	FacultyMemberID    string         `db:"faculty_member_id" json:"faculty_member_id"`
	Kind               CredentialKind `db:"kind" json:"kind"`
	Title              string         `db:"title" json:"title"`
	AssociatedPrograms pq.StringArray `db:"associated_programs" json:"associated_programs"`
	CreatedAt          time.Time      `db:"created_at" json:"created_at"`
}

// AssociatedWith reports whether the credential is tagged with program.
func (c Credential) AssociatedWith(program string) bool {
	for _, p := range c.AssociatedPrograms {
		if p == program {
			return true
		}
	}
	return false
}
