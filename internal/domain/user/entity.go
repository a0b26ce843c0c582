package user

import (
	"github.com/google/uuid"
)

// Profile is the slice of the user record the matching core reads.
type Profile struct {
	ID                 uuid.UUID
	FullName           string
	TargetRole         string
	Skills             []string
	LocationPreference string
}

// ExtractedResumeProfile holds fields parsed from one uploaded résumé.
type ExtractedResumeProfile struct {
	FullName           *string  `json:"full_name"`
	TargetRole         *string  `json:"target_role"`
	Skills             []string `json:"skills"`
	LocationPreference *string  `json:"location_preference"`
}

// MergeIfEmpty copies parsed fields into p only where p has no value yet and
// returns the names of the fields it filled.
func MergeIfEmpty(p *Profile, ext ExtractedResumeProfile) []string {
	updated := make([]string, 0, 4)
	if p == nil {
		return updated
	}
	if ext.FullName != nil && p.FullName == "" {
		p.FullName = *ext.FullName
		updated = append(updated, "full_name")
	}
	if ext.TargetRole != nil && p.TargetRole == "" {
		p.TargetRole = *ext.TargetRole
		updated = append(updated, "target_role")
	}
	if len(ext.Skills) > 0 && len(p.Skills) == 0 {
		p.Skills = append([]string(nil), ext.Skills...)
		updated = append(updated, "skills")
	}
	if ext.LocationPreference != nil && p.LocationPreference == "" {
		p.LocationPreference = *ext.LocationPreference
		updated = append(updated, "location_preference")
	}
	return updated
}
