package domain

import "strings"

// TurkFieldPrefix marks the form fields carrying canvases in a HIT post
const TurkFieldPrefix = "exp-"

// TurkSubmission is a Mechanical Turk batch: one new sample and a PNG
// for each experiment it ran.
type TurkSubmission struct {
	UserAgent     string `json:"useragent" form:"useragent" validate:"required"`
	Input         string `json:"input" form:"input"`
	WebGLVendor   string `json:"webglvendor" form:"webglvendor"`
	WebGLVersion  string `json:"webglversion" form:"webglversion"`
	WebGLRenderer string `json:"renderer" form:"renderer"`
	AssignmentID  string `json:"assignmentId" form:"assignmentId"`
	// Canvases maps experiment name to PNG data URL
	Canvases map[string]string `json:"canvases" form:"-" validate:"required,min=1,dive,keys,experimentname,endkeys,required"`
}

// TurkCanvases extracts "exp-<name>" fields from a form
func TurkCanvases(fields map[string]string) map[string]string {
	out := make(map[string]string)
	for k, v := range fields {
		if name, ok := strings.CutPrefix(k, TurkFieldPrefix); ok && name != "" {
			out[name] = v
		}
	}
	return out
}
