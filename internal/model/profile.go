package model

import "strings"

// Profile describes the person the homepage belongs to.
// All fields are plain strings; none of them are validated.
type Profile struct {
	// Name is the display name, e.g. "Min Wu, Ph.D.".
	Name string `json:"name"`

	// Title is the academic position, e.g. "Professor & Ph.D. Supervisor".
	Title string `json:"title"`

	// Department is the organisational unit inside the institution.
	Department string `json:"department"`

	// Institution is the employing university or hospital.
	Institution string `json:"institution"`

	// Email is shown in plain text in the hero section.
	Email string `json:"email"`

	// OrcidLink is the full ORCID profile URL.
	OrcidLink string `json:"orcidLink"`

	// Avatar is the image URL of the everyday portrait.
	Avatar string `json:"avatar,omitempty"`

	// AwardPhoto is the image URL shown on the left page of the award modal.
	AwardPhoto string `json:"awardPhoto,omitempty"`

	// Bio is an optional Markdown biography rendered below the hero links.
	Bio string `json:"bio,omitempty"`
}

// ShortName returns the name without trailing qualifications.
// "Min Wu, Ph.D." becomes "Min Wu".
func (p Profile) ShortName() string {
	name, _, _ := strings.Cut(p.Name, ",")
	return strings.TrimSpace(name)
}

// Surname returns the last word of ShortName, or "" for an empty name.
func (p Profile) Surname() string {
	fields := strings.Fields(p.ShortName())
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
