package main

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Zachkp/portfolio/internal/analytics"
	"github.com/Zachkp/portfolio/internal/clock"
	"github.com/Zachkp/portfolio/internal/disclosure"
	"github.com/Zachkp/portfolio/internal/markup"
	"github.com/Zachkp/portfolio/internal/site"
	"github.com/Zachkp/portfolio/internal/theme"
	"github.com/Zachkp/portfolio/internal/typewriter"
)

// app carries what the handlers share.
type app struct {
	site      *site.Holder
	themes    theme.Store
	analytics *analytics.Store // nil when tracking is off
	admin     *adminAuth       // nil when no credentials are configured
	retention time.Duration
	clock     clock.Clock
	logger    *slog.Logger
	templates string
}

func (a *app) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(a.logger), clientHints())
	if a.analytics != nil {
		r.Use(a.visitorTracking())
	}

	r.SetFuncMap(templateFuncs())
	r.LoadHTMLGlob(a.templates)
	r.Static("/images", "./images")
	r.Static("/static", "./static")

	r.GET("/", a.handleHome)
	r.GET("/projects", a.handleProjects)
	r.GET("/projects/:slug/visit", a.handleProjectVisit)
	r.POST("/learning/:index/toggle", a.handleLearningToggle)
	r.POST("/nav/menu", a.handleMenuToggle)
	r.GET("/typed", a.handleTyped)
	r.GET("/typed/stream", a.handleTypedStream)
	r.POST("/theme", a.handleTheme)
	r.GET("/privacy", a.handlePrivacy)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if a.admin != nil && a.analytics != nil {
		a.setupAdminRoutes(r)
	}

	r.NoRoute(func(c *gin.Context) {
		a.renderError(c, http.StatusNotFound, Labels.NotFound)
	})
	return r
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"markdown": markup.Render,
		"percent":  disclosure.Clamp,
		"year":     func() int { return time.Now().Year() },
		"labels":   func() any { return Labels },
	}
}

// page is the data every full page template receives.
func (a *app) page(c *gin.Context, s *site.Site) gin.H {
	mode := a.themes.Get(c.Request)
	return gin.H{
		"site":   s,
		"labels": Labels,
		"theme":  theme.Resolve(mode, c.GetHeader(theme.HintHeader)),
		"mode":   mode,
		"social": s.SocialLinks(),
		"path":   c.Request.URL.Path,
		"menu":   menuView{},
	}
}

func (a *app) handleHome(c *gin.Context) {
	s := a.site.Load()
	data := a.page(c, s)

	cfg := s.Typewriter.Config()
	delay, frames := typewriter.Timeline(cfg)
	data["typed"] = typedView{
		Final:        typewriter.Final(cfg),
		StartDelayMs: delay.Milliseconds(),
		Loop:         cfg.Loop,
		Frames:       frames,
	}
	data["featured"] = projectCards(s.Featured(), site.Project.TechPreview)
	data["learning"] = learningCards(s)

	c.HTML(http.StatusOK, "index.html", data)
}

func (a *app) handleProjects(c *gin.Context) {
	s := a.site.Load()
	data := a.page(c, s)
	data["projects"] = projectCards(s.Projects, func(p site.Project) []string { return p.Tech })
	c.HTML(http.StatusOK, "projects.html", data)
}

func (a *app) handlePrivacy(c *gin.Context) {
	s := a.site.Load()
	data := a.page(c, s)
	data["tracking"] = a.analytics != nil
	c.HTML(http.StatusOK, "privacy.html", data)
}

// projectCard is a project with the tags its card shows.
type projectCard struct {
	site.Project
	Tags []string
}

func projectCards(projects []site.Project, tags func(site.Project) []string) []projectCard {
	cards := make([]projectCard, len(projects))
	for i, p := range projects {
		cards[i] = projectCard{Project: p, Tags: tags(p)}
	}
	return cards
}

// handleProjectVisit counts the click and sends the visitor on to the
// project's own link.
func (a *app) handleProjectVisit(c *gin.Context) {
	p, err := a.site.Load().Project(c.Param("slug"))
	if errors.Is(err, site.ErrNotFound) || p.Link == "" {
		a.renderError(c, http.StatusNotFound, Labels.NotFound)
		return
	}
	if a.analytics != nil && c.GetHeader("DNT") != "1" {
		if err := a.analytics.RecordClick(c.Request.Context(), p.Slug(), p.Link); err != nil {
			a.logger.Warn("recording project click", "slug", p.Slug(), "error", err)
		}
	}
	c.Redirect(http.StatusFound, p.Link)
}

// learningCard is one disclosure card on the home page.
type learningCard struct {
	Index int
	Tech  site.Technology
	Card  *disclosure.Card
}

func newLearningCard(i int, t site.Technology, s disclosure.State) learningCard {
	items := make([]disclosure.Item, len(t.Topics))
	for j, topic := range t.Topics {
		items[j] = disclosure.Item{Label: topic.Name, Progress: topic.Progress}
	}
	return learningCard{
		Index: i,
		Tech:  t,
		Card:  disclosure.Restore("learning-"+strconv.Itoa(i), items, s),
	}
}

func learningCards(s *site.Site) []learningCard {
	cards := make([]learningCard, len(s.Learning))
	for i, t := range s.Learning {
		cards[i] = newLearningCard(i, t, disclosure.State{})
	}
	return cards
}

// activation reads the posted state and input of a disclosure control.
func activation(c *gin.Context) (disclosure.State, disclosure.Input, error) {
	prev := disclosure.State{Expanded: c.PostForm("expanded") == "true"}
	in, err := disclosure.ParseInput(c.PostForm("event"), c.PostForm("button"), c.PostForm("key"))
	return prev, in, err
}

// handleLearningToggle flips one card. The card's state travels with
// the request, so no two cards (or visitors) share it.
func (a *app) handleLearningToggle(c *gin.Context) {
	s := a.site.Load()
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil || i < 0 || i >= len(s.Learning) {
		c.String(http.StatusNotFound, Labels.NotFound)
		return
	}
	prev, in, err := activation(c)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	card := newLearningCard(i, s.Learning[i], prev)
	out := card.Card.Handle(in)
	if out.PreventDefault {
		c.Header("X-Prevent-Default", "true")
	}
	c.HTML(http.StatusOK, "learning-card", card)
}

// menuView is the mobile navigation menu.
type menuView struct {
	Open bool
}

func (a *app) handleMenuToggle(c *gin.Context) {
	prev, in, err := activation(c)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	next, _ := disclosure.Activate(prev, in)
	c.HTML(http.StatusOK, "mobile-menu", menuView{Open: next.Expanded})
}

// typedView feeds the hero's typewriter. Final is rendered into the
// page so the hero reads correctly when the script never runs.
type typedView struct {
	Final        string                `json:"final"`
	StartDelayMs int64                 `json:"start_delay_ms"`
	Loop         bool                  `json:"loop"`
	Frames       []typewriter.Keyframe `json:"frames"`
}

func (a *app) handleTyped(c *gin.Context) {
	cfg := a.site.Load().Typewriter.Config()
	delay, frames := typewriter.Timeline(cfg)
	c.JSON(http.StatusOK, typedView{
		Final:        typewriter.Final(cfg),
		StartDelayMs: delay.Milliseconds(),
		Loop:         cfg.Loop,
		Frames:       frames,
	})
}

// handleTypedStream runs a live typewriter for one client and pushes
// every frame as a server-sent event until the animation ends or the
// client goes away. A new site document restarts the animation with
// its phrases.
func (a *app) handleTypedStream(c *gin.Context) {
	changed := a.site.Changed()
	cfg := a.site.Load().Typewriter.Config()

	// Frames are full snapshots, so a slow client only needs the newest
	// one. The engine renders under its own lock, which keeps this the
	// only sender.
	latest := make(chan typewriter.Frame, 1)
	h := typewriter.Start(a.clock, cfg, func(f typewriter.Frame) {
		select {
		case <-latest:
		default:
		}
		latest <- f
	})
	defer h.Stop()

	id := uuid.NewString()
	a.logger.Debug("typed stream opened", "stream", id)
	defer a.logger.Debug("typed stream closed", "stream", id)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Stream-ID", id)
	c.Status(http.StatusOK)

	send := func(f typewriter.Frame) {
		c.SSEvent("frame", f.Text)
		c.Writer.Flush()
	}
	done := h.Done()
	ctx := c.Request.Context()
	for {
		select {
		case f := <-latest:
			send(f)
		case <-changed:
			changed = a.site.Changed()
			h.Restart(a.site.Load().Typewriter.Config())
			done = h.Done()
			a.logger.Debug("typed stream restarted", "stream", id)
		case <-done:
			select {
			case f := <-latest:
				send(f)
			default:
			}
			return
		case <-ctx.Done():
			return
		}
	}
}

// handleTheme stores an explicit mode, or flips between light and dark
// when none is given.
func (a *app) handleTheme(c *gin.Context) {
	var mode theme.Mode
	if raw := c.PostForm("mode"); raw != "" {
		m, err := theme.ParseMode(raw)
		if err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		mode = m
	} else {
		current := theme.Resolve(a.themes.Get(c.Request), c.GetHeader(theme.HintHeader))
		mode = theme.Next(current)
	}
	a.themes.Set(c.Writer, mode)

	if c.GetHeader("HX-Request") == "true" {
		c.Header("HX-Refresh", "true")
		c.Status(http.StatusNoContent)
		return
	}
	c.Redirect(http.StatusSeeOther, backTo(c.GetHeader("Referer")))
}

// backTo keeps redirects on this site.
func backTo(referer string) string {
	u, err := url.Parse(referer)
	if err != nil || u.Path == "" || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") {
		return "/"
	}
	if u.RawQuery != "" {
		return u.Path + "?" + u.RawQuery
	}
	return u.Path
}

func (a *app) renderError(c *gin.Context, status int, msg string) {
	data := a.page(c, a.site.Load())
	data["status"] = status
	data["message"] = msg
	c.HTML(status, "error.html", data)
}

// requestLogger logs one line per request. Client addresses are left
// out on purpose.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.LogAttrs(context.Background(), slog.LevelInfo, "request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
		)
	}
}

// clientHints asks browsers to send their colour scheme preference.
func clientHints() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Accept-CH", theme.HintHeader)
		c.Header("Vary", theme.HintHeader)
		c.Next()
	}
}
