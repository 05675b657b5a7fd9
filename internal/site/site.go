// Package site holds the document every page is rendered from.
package site

import (
	"errors"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/Zachkp/portfolio/internal/typewriter"
)

// ErrNotFound is returned when a project slug matches nothing.
var ErrNotFound = errors.New("site: not found")

type Site struct {
	Profile    Profile           `yaml:"profile"`
	Skills     []string          `yaml:"skills"`
	Learning   []Technology      `yaml:"learning"`
	Contact    Contact           `yaml:"contact"`
	Social     map[string]string `yaml:"social"`
	Projects   []Project         `yaml:"projects"`
	Typewriter Typewriter        `yaml:"typewriter"`
}

type Profile struct {
	Name   string `yaml:"name"`
	Title  string `yaml:"title"`
	Bio    string `yaml:"bio"`
	Avatar string `yaml:"avatar"`
}

// AvatarText is shown in place of a missing avatar image.
func (p Profile) AvatarText() string {
	return Initials(p.Name, 2)
}

// Technology is something being learned, with per-topic progress.
type Technology struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Progress    int     `yaml:"progress"`
	Topics      []Topic `yaml:"topics"`
}

type Topic struct {
	Name     string `yaml:"name"`
	Progress int    `yaml:"progress"`
}

type Contact struct {
	Email    string `yaml:"email"`
	Phone    string `yaml:"phone"`
	Location string `yaml:"location"`
}

type Project struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Tech        []string `yaml:"tech"`
	Link        string   `yaml:"link"`
	Image       string   `yaml:"image"`
	Featured    bool     `yaml:"featured"`
}

// Placeholder is shown in place of a missing project image.
func (p Project) Placeholder() string {
	return Initials(p.Title, 3)
}

// TechPreview is the short tag list shown on featured cards.
func (p Project) TechPreview() []string {
	if len(p.Tech) <= 3 {
		return p.Tech
	}
	return p.Tech[:3]
}

// Slug identifies the project in URLs.
func (p Project) Slug() string {
	return Slugify(p.Title)
}

// Typewriter configures the hero animation. Delays are milliseconds.
type Typewriter struct {
	Phrases      []string `yaml:"phrases"`
	StartDelayMs int      `yaml:"start_delay_ms"`
	TypeSpeedMs  int      `yaml:"type_speed_ms"`
	BackSpeedMs  int      `yaml:"back_speed_ms"`
	Loop         bool     `yaml:"loop"`
}

// Config converts the document block into engine configuration.
func (t Typewriter) Config() typewriter.Config {
	return typewriter.Config{
		Phrases:    t.Phrases,
		StartDelay: time.Duration(max(t.StartDelayMs, 0)) * time.Millisecond,
		TypeSpeed:  time.Duration(max(t.TypeSpeedMs, 1)) * time.Millisecond,
		BackSpeed:  time.Duration(max(t.BackSpeedMs, 1)) * time.Millisecond,
		Loop:       t.Loop,
	}
}

// Featured returns the projects marked for the home page, in order.
func (s *Site) Featured() []Project {
	var out []Project
	for _, p := range s.Projects {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}

// Project looks a project up by slug.
func (s *Site) Project(slug string) (Project, error) {
	for _, p := range s.Projects {
		if p.Slug() == slug {
			return p, nil
		}
	}
	return Project{}, ErrNotFound
}

// SocialLink is one platform with a configured URL.
type SocialLink struct {
	Platform string
	Label    string
	URL      string
}

var platformOrder = []string{"github", "bilibili", "linkedin", "twitter", "instagram", "facebook", "blog"}

var platformLabels = map[string]string{
	"github":    "GitHub",
	"bilibili":  "Bilibili",
	"linkedin":  "LinkedIn",
	"twitter":   "Twitter",
	"instagram": "Instagram",
	"facebook":  "Facebook",
	"blog":      "Blog",
}

// SocialLinks lists platforms that have a URL. Known platforms come
// first in a fixed order, the rest alphabetically. Platforms without a
// URL are left out so their buttons are hidden.
func (s *Site) SocialLinks() []SocialLink {
	seen := make(map[string]bool, len(platformOrder))
	var out []SocialLink
	add := func(platform string) {
		url := strings.TrimSpace(s.Social[platform])
		if url == "" {
			return
		}
		label, ok := platformLabels[platform]
		if !ok {
			label = platform
		}
		out = append(out, SocialLink{Platform: platform, Label: label, URL: url})
	}

	for _, p := range platformOrder {
		seen[p] = true
		add(p)
	}
	var rest []string
	for p := range s.Social {
		if !seen[p] {
			rest = append(rest, p)
		}
	}
	sort.Strings(rest)
	for _, p := range rest {
		add(p)
	}
	return out
}

// Initials returns the first n code points of s, upper-cased.
func Initials(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) > n {
		r = r[:n]
	}
	return strings.ToUpper(string(r))
}

// Slugify lower-cases s and joins its letter and digit runs with '-'.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
			continue
		}
		dash = true
	}
	return b.String()
}
