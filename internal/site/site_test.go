package site

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDocument(t *testing.T) {
	s := Default()
	assert.NotEmpty(t, s.Profile.Name)
	assert.NotEmpty(t, s.Projects)
	assert.NotEmpty(t, s.Featured())
	assert.NotEmpty(t, s.Typewriter.Phrases)
}

func TestParseKeepsTypewriterDefaults(t *testing.T) {
	s, err := Parse([]byte("typewriter:\n  phrases: [a]\n"))
	require.NoError(t, err)

	cfg := s.Typewriter.Config()
	assert.Equal(t, []string{"a"}, cfg.Phrases)
	assert.Equal(t, time.Second, cfg.StartDelay)
	assert.Equal(t, 80*time.Millisecond, cfg.TypeSpeed)
	assert.Equal(t, 50*time.Millisecond, cfg.BackSpeed)
	assert.True(t, cfg.Loop)
}

func TestParseEmptyDocument(t *testing.T) {
	s, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, s.Projects)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("profile:\n  nickname: z\n"))
	assert.Error(t, err)
}

func TestParseRejectsWrongShape(t *testing.T) {
	_, err := Parse([]byte("skills: {go: true}\n"))
	assert.Error(t, err)
}

func TestTypewriterConfigFloorsSpeeds(t *testing.T) {
	cfg := Typewriter{StartDelayMs: -5}.Config()
	assert.Zero(t, cfg.StartDelay)
	assert.Equal(t, time.Millisecond, cfg.TypeSpeed)
	assert.Equal(t, time.Millisecond, cfg.BackSpeed)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "ZA", Profile{Name: "zach"}.AvatarText())
	assert.Equal(t, "任邢", Profile{Name: "任邢浩然"}.AvatarText())
	assert.Equal(t, "POR", Project{Title: "portfolio"}.Placeholder())
	assert.Equal(t, "AB", Initials(" ab ", 3))
}

func TestTechPreview(t *testing.T) {
	p := Project{Tech: []string{"a", "b", "c", "d"}}
	assert.Equal(t, []string{"a", "b", "c"}, p.TechPreview())
	assert.Equal(t, []string{"a"}, Project{Tech: []string{"a"}}.TechPreview())
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "terminal-mail", Slugify("Terminal Mail"))
	assert.Equal(t, "go-1-24-notes", Slugify("  Go 1.24 -- notes! "))
	assert.Equal(t, "电商平台", Slugify("电商平台"))
}

func TestProjectLookup(t *testing.T) {
	s := &Site{Projects: []Project{{Title: "Terminal Mail"}, {Title: "Other"}}}
	p, err := s.Project("terminal-mail")
	require.NoError(t, err)
	assert.Equal(t, "Terminal Mail", p.Title)

	_, err = s.Project("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSocialLinksOrderAndHidden(t *testing.T) {
	s := &Site{Social: map[string]string{
		"twitter":  "https://x.example",
		"github":   "https://github.example",
		"linkedin": "",
		"mastodon": "https://m.example",
	}}
	links := s.SocialLinks()
	require.Len(t, links, 3)
	assert.Equal(t, "github", links[0].Platform)
	assert.Equal(t, "GitHub", links[0].Label)
	assert.Equal(t, "twitter", links[1].Platform)
	assert.Equal(t, "mastodon", links[2].Platform)
	assert.Equal(t, "mastodon", links[2].Label)
}

func TestLoadOrDefault(t *testing.T) {
	s, fromFile, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.False(t, fromFile)
	assert.Equal(t, Default().Profile.Name, s.Profile.Name)

	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte("profile:\n  name: Ada\n"), 0o644))
	s, fromFile, err = LoadOrDefault(path)
	require.NoError(t, err)
	assert.True(t, fromFile)
	assert.Equal(t, "Ada", s.Profile.Name)

	require.NoError(t, os.WriteFile(path, []byte("bogus: 1\n"), 0o644))
	_, _, err = LoadOrDefault(path)
	assert.Error(t, err)
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte("profile:\n  name: Ada\n"), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	h := NewHolder(s)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, Watch(ctx, path, h, logger))

	replace(t, path, "profile:\n  name: Grace\n")
	assert.Eventually(t, func() bool {
		return h.Load().Profile.Name == "Grace"
	}, 5*time.Second, 20*time.Millisecond)

	replace(t, path, "profile: [broken\n")
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, "Grace", h.Load().Profile.Name)
}

// replace swaps the file in one rename so the watcher never sees a
// half-written document.
func replace(t *testing.T, path, content string) {
	t.Helper()
	tmp := path + ".tmp"
	require.NoError(t, os.WriteFile(tmp, []byte(content), 0o644))
	require.NoError(t, os.Rename(tmp, path))
}

func TestHolderChanged(t *testing.T) {
	h := NewHolder(&Site{Profile: Profile{Name: "Ada"}})
	changed := h.Changed()

	select {
	case <-changed:
		t.Fatal("changed before any Store")
	default:
	}

	h.Store(&Site{Profile: Profile{Name: "Grace"}})
	select {
	case <-changed:
	default:
		t.Fatal("Store did not signal Changed")
	}
	assert.Equal(t, "Grace", h.Load().Profile.Name)

	next := h.Changed()
	select {
	case <-next:
		t.Fatal("new Changed channel is already closed")
	default:
	}
}

func TestHolderZeroValue(t *testing.T) {
	var h Holder
	changed := h.Changed()
	h.Store(&Site{})
	_, open := <-changed
	assert.False(t, open)
}
