package seo

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Public pages listed in the sitemap. Portal internals sit behind a
// session and are left out.
var publicPaths = []string{
	"/",
	"/teacher-portal/login",
}

// Crawlers may not index these.
var disallowed = []string{
	"/admin",
	"/student-portal/login",
}

type Handler struct {
	SiteURL string
	Log     *zap.Logger
}

func NewHandler(siteURL string, logger *zap.Logger) *Handler {
	return &Handler{SiteURL: strings.TrimRight(siteURL, "/"), Log: logger}
}

// ServeRobots handles GET /robots.txt.
func (h *Handler) ServeRobots(w http.ResponseWriter, r *http.Request) {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	for _, p := range disallowed {
		fmt.Fprintf(&b, "Disallow: %s\n", p)
	}
	fmt.Fprintf(&b, "\nSitemap: %s/sitemap.xml\n", h.SiteURL)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write([]byte(b.String()))
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// ServeSitemap handles GET /sitemap.xml.
func (h *Handler) ServeSitemap(w http.ResponseWriter, r *http.Request) {
	set := urlSet{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, p := range publicPaths {
		u := sitemapURL{Loc: h.SiteURL + p, ChangeFreq: "monthly", Priority: "0.5"}
		if p == "/" {
			u.ChangeFreq, u.Priority = "weekly", "1.0"
		}
		set.URLs = append(set.URLs, u)
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		h.Log.Error("sitemap: marshal", zap.Error(err))
		http.Error(w, "sitemap unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write([]byte(xml.Header))
	_, _ = w.Write(out)
}
