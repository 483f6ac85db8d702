package domain

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Sample is one browser and device combination
type Sample struct {
	ID            uuid.UUID `json:"id"`
	UserAgent     string    `json:"userAgent"`
	UserInput     string    `json:"userInput"`
	WebGLVendor   string    `json:"webglVendor,omitempty"`
	WebGLVersion  string    `json:"webglVersion,omitempty"`
	WebGLRenderer string    `json:"webglRenderer,omitempty"`
	AssignmentID  string    `json:"assignmentId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// UserID is a stable anonymous key for the sample. Exclusion lists are
// written in terms of it.
func (s *Sample) UserID() string {
	sum := sha1.Sum([]byte(s.UserAgent + "\n" + s.UserInput))
	return hex.EncodeToString(sum[:])
}

// GraphicsCard returns the WebGL renderer, falling back to the vendor
func (s *Sample) GraphicsCard() string {
	if r := strings.TrimSpace(s.WebGLRenderer); r != "" {
		return r
	}
	if v := strings.TrimSpace(s.WebGLVendor); v != "" {
		return v
	}
	return "unknown"
}

// browserTokens is checked in order. Browsers that embed another engine's
// token come before the engine they imitate. version names the token the
// major version follows.
var browserTokens = []struct {
	token   string
	name    string
	version string
}{
	{"Edg/", "Edge", "Edg/"},
	{"Edge/", "Edge", "Edge/"},
	{"OPR/", "Opera", "OPR/"},
	{"Opera", "Opera", "Version/"},
	{"Chrome/", "Chrome", "Chrome/"},
	{"CriOS/", "Chrome", "CriOS/"},
	{"Firefox/", "Firefox", "Firefox/"},
	{"FxiOS/", "Firefox", "FxiOS/"},
	{"Safari/", "Safari", "Version/"},
	{"MSIE ", "Internet Explorer", "MSIE "},
	{"Trident/", "Internet Explorer", "rv:"},
}

// Browser returns the browser product parsed from the user agent with its
// major version, e.g. "Chrome 120". Unrecognised agents are returned as is.
func (s *Sample) Browser() string {
	ua := s.UserAgent
	for _, bt := range browserTokens {
		if !strings.Contains(ua, bt.token) {
			continue
		}
		if v := majorVersion(after(ua, bt.version)); v != "" {
			return bt.name + " " + v
		}
		return bt.name
	}
	if ua == "" {
		return "unknown"
	}
	return ua
}

func after(s, token string) string {
	idx := strings.Index(s, token)
	if idx < 0 {
		return ""
	}
	return s[idx+len(token):]
}

func majorVersion(s string) string {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return s[:end]
}
