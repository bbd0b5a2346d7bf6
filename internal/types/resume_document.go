// Package types provides type definitions for structured data used throughout the resume comparison engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "slices"

// ResumeDocument is a structured resume snapshot. Every section is optional;
// a document with no sections is valid and diffs as empty.
type ResumeDocument struct {
	Summary        string               `json:"summary,omitempty"`
	Experience     []ExperienceEntry    `json:"experience,omitempty"`
	Skills         []string             `json:"skills,omitempty"`
	Education      []EducationEntry     `json:"education,omitempty"`
	Certifications []CertificationEntry `json:"certifications,omitempty"`
	Projects       []ProjectEntry       `json:"projects,omitempty"`
	Languages      []string             `json:"languages,omitempty"`
	Awards         []string             `json:"awards,omitempty"`
	Contact        *Contact             `json:"contact,omitempty"`
}

// ExperienceEntry represents a single role held at a company
type ExperienceEntry struct {
	Title   string   `json:"title,omitempty"`
	Company string   `json:"company,omitempty"`
	Dates   string   `json:"dates,omitempty"`
	Bullets []string `json:"bullets,omitempty"`
}

// EducationEntry represents a degree or program
type EducationEntry struct {
	Institution  string `json:"institution,omitempty"`
	Degree       string `json:"degree,omitempty"`
	FieldOfStudy string `json:"field_of_study,omitempty"`
	Dates        string `json:"dates,omitempty"`
}

// CertificationEntry represents a professional certification
type CertificationEntry struct {
	Name   string `json:"name,omitempty"`
	Issuer string `json:"issuer,omitempty"`
	Date   string `json:"date,omitempty"`
}

// ProjectEntry represents a personal or professional project
type ProjectEntry struct {
	Name         string   `json:"name,omitempty"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	Bullets      []string `json:"bullets,omitempty"`
}

// Contact holds the candidate's contact details
type Contact struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Website  string `json:"website,omitempty"`
}

// ContactFields returns the contact fields in display order as name/value pairs.
// A nil contact yields the same field names with empty values.
func (c *Contact) ContactFields() [][2]string {
	var v Contact
	if c != nil {
		v = *c
	}
	return [][2]string{
		{"name", v.Name},
		{"email", v.Email},
		{"phone", v.Phone},
		{"location", v.Location},
		{"linkedin", v.LinkedIn},
		{"website", v.Website},
	}
}

// Clone returns a deep copy of the document. Snapshots handed to or returned
// from a version store are always clones so callers cannot mutate history.
func (d *ResumeDocument) Clone() ResumeDocument {
	if d == nil {
		return ResumeDocument{}
	}

	out := ResumeDocument{
		Summary:   d.Summary,
		Skills:    slices.Clone(d.Skills),
		Languages: slices.Clone(d.Languages),
		Awards:    slices.Clone(d.Awards),
	}

	if d.Experience != nil {
		out.Experience = make([]ExperienceEntry, len(d.Experience))
		for i, e := range d.Experience {
			e.Bullets = slices.Clone(e.Bullets)
			out.Experience[i] = e
		}
	}
	out.Education = slices.Clone(d.Education)
	out.Certifications = slices.Clone(d.Certifications)
	if d.Projects != nil {
		out.Projects = make([]ProjectEntry, len(d.Projects))
		for i, p := range d.Projects {
			p.Technologies = slices.Clone(p.Technologies)
			p.Bullets = slices.Clone(p.Bullets)
			out.Projects[i] = p
		}
	}
	if d.Contact != nil {
		c := *d.Contact
		out.Contact = &c
	}

	return out
}

// IsEmpty reports whether the document has no content in any section.
func (d *ResumeDocument) IsEmpty() bool {
	if d == nil {
		return true
	}
	if d.Contact != nil && *d.Contact != (Contact{}) {
		return false
	}
	return d.Summary == "" &&
		len(d.Experience) == 0 &&
		len(d.Skills) == 0 &&
		len(d.Education) == 0 &&
		len(d.Certifications) == 0 &&
		len(d.Projects) == 0 &&
		len(d.Languages) == 0 &&
		len(d.Awards) == 0
}
