// admin.go - admin dashboard over the privacy-conscious visitor stats
package main

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/analytics"
)

const adminCookie = "admin_token"

// adminAuth holds the configured credentials and the session token
// minted at startup. Restarting the server logs everybody out.
type adminAuth struct {
	username string
	password string
	token    string
}

func newAdminAuth(username, password string) (*adminAuth, error) {
	if username == "" || password == "" {
		return nil, nil
	}
	token, err := generateAdminToken()
	if err != nil {
		return nil, err
	}
	return &adminAuth{username: username, password: password, token: token}, nil
}

func generateAdminToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate admin token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func (a *adminAuth) valid(username, password string) bool {
	u := subtle.ConstantTimeCompare([]byte(username), []byte(a.username))
	p := subtle.ConstantTimeCompare([]byte(password), []byte(a.password))
	return u&p == 1
}

// adminAuthMiddleware sends anyone without the session cookie to the
// login page.
func (a *app) adminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(a.admin.token)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// visitorTracking records page views in the background. Do-Not-Track
// and non-page paths are skipped.
func (a *app) visitorTracking() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		path := c.Request.URL.Path
		if c.Request.Method != http.MethodGet || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		if !analytics.ShouldTrack(path, c.GetHeader("DNT")) {
			return
		}
		ip, ua := c.ClientIP(), c.GetHeader("User-Agent")
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := a.analytics.RecordVisit(ctx, ip, ua, path); err != nil {
				a.logger.Warn("recording visitor", "error", err)
			}
		}()
	}
}

func (a *app) setupAdminRoutes(r *gin.Engine) {
	r.GET("/admin/login", func(c *gin.Context) {
		data := a.page(c, a.site.Load())
		c.HTML(http.StatusOK, "admin-login.html", data)
	})

	r.POST("/admin/login", func(c *gin.Context) {
		hashed := a.analytics.HashIP(c.ClientIP())
		if !a.admin.valid(c.PostForm("username"), c.PostForm("password")) {
			a.logger.Warn("failed admin login", "client", hashed)
			data := a.page(c, a.site.Load())
			data["error"] = "Invalid credentials"
			c.HTML(http.StatusUnauthorized, "admin-login.html", data)
			return
		}
		c.SetCookie(adminCookie, a.admin.token, 3600*24, "/admin", "", false, true)
		a.logger.Info("admin login", "client", hashed)
		c.Redirect(http.StatusFound, "/admin/dashboard")
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		c.Redirect(http.StatusFound, "/admin/login")
	})

	group := r.Group("/admin")
	group.Use(a.adminAuthMiddleware())

	group.GET("/dashboard", func(c *gin.Context) {
		stats, err := a.analytics.Stats(c.Request.Context(), 50)
		if err != nil {
			a.logger.Error("loading admin stats", "error", err)
			a.renderError(c, http.StatusInternalServerError, Labels.ServerError)
			return
		}
		data := a.page(c, a.site.Load())
		data["stats"] = stats
		c.HTML(http.StatusOK, "admin-dashboard.html", data)
	})

	group.GET("/api/stats", func(c *gin.Context) {
		stats, err := a.analytics.Stats(c.Request.Context(), 50)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load statistics"})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	group.GET("/export/stats", func(c *gin.Context) {
		stats, err := a.analytics.Stats(c.Request.Context(), 1000)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load statistics"})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		c.JSON(http.StatusOK, stats)
	})

	// Cleanup also runs on the retention schedule; this triggers it now.
	group.POST("/privacy/cleanup", func(c *gin.Context) {
		removed, err := a.analytics.Cleanup(c.Request.Context(), a.retention)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cleanup failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"removed": removed})
	})
}
