// Package schemas embeds the JSON Schemas that incoming documents are
// validated against.
package schemas

import "embed"

// FS holds every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS

// Schema file names.
const (
	ResumeDocument  = "resume_document.schema.json"
	JobRequirements = "job_requirements.schema.json"
	AppendVersion   = "append_version.schema.json"
)
