package domain

import "time"

// Profile holds the display attributes of a user. There is exactly one per user.
type Profile struct {
	UserID       string    `json:"user"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Type         Role      `json:"type"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	File         string    `json:"file,omitempty"`
	Location     string    `json:"location"`
	Tel          string    `json:"tel"`
	Description  string    `json:"description"`
	WorkingHours string    `json:"working_hours"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProfilePatch carries the optional fields of a profile update. Nil means "leave as is".
type ProfilePatch struct {
	FirstName    *string
	LastName     *string
	File         *string
	Location     *string
	Tel          *string
	Description  *string
	WorkingHours *string
	// Extra holds request fields that have no patchable counterpart.
	Extra []string
}

// Fields returns the wire names of the fields set on the patch.
func (p ProfilePatch) Fields() []string {
	var out []string
	add := func(set bool, name string) {
		if set {
			out = append(out, name)
		}
	}
	add(p.FirstName != nil, "first_name")
	add(p.LastName != nil, "last_name")
	add(p.File != nil, "file")
	add(p.Location != nil, "location")
	add(p.Tel != nil, "tel")
	add(p.Description != nil, "description")
	add(p.WorkingHours != nil, "working_hours")
	return append(out, p.Extra...)
}

// Apply copies the set fields of p onto profile.
func (p ProfilePatch) Apply(profile *Profile) {
	if p.FirstName != nil {
		profile.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		profile.LastName = *p.LastName
	}
	if p.File != nil {
		profile.File = *p.File
	}
	if p.Location != nil {
		profile.Location = *p.Location
	}
	if p.Tel != nil {
		profile.Tel = *p.Tel
	}
	if p.Description != nil {
		profile.Description = *p.Description
	}
	if p.WorkingHours != nil {
		profile.WorkingHours = *p.WorkingHours
	}
}
