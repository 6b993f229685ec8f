package handler

import (
	"encoding/xml"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/suwityarat/portfolio/config"
)

// SEOHandler serves robots.txt and sitemap.xml for the public site.
type SEOHandler struct {
	pages []config.SitePage
	now   func() time.Time
}

// NewSEOHandler creates a handler listing pages in the sitemap.
func NewSEOHandler(pages []config.SitePage) *SEOHandler {
	return &SEOHandler{pages: pages, now: time.Now}
}

// Register wires SEO routes onto the provided router.
func (h *SEOHandler) Register(router fiber.Router) {
	router.Get("/robots.txt", h.Robots)
	router.Get("/sitemap.xml", h.Sitemap)
}

// Robots handles GET /robots.txt
func (h *SEOHandler) Robots(c *fiber.Ctx) error {
	var b strings.Builder
	b.WriteString("User-agent: *\nAllow: /\n\n")
	b.WriteString("# Sitemap\nSitemap: " + c.BaseURL() + "/sitemap.xml\n\n")
	b.WriteString("# Disallow admin and private areas\nDisallow: /admin/\nDisallow: /resume-pdf/\n\n")
	b.WriteString("# Allow all other content\nAllow: /about\nAllow: /portfolio\nAllow: /contact")

	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(b.String())
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// Sitemap handles GET /sitemap.xml
func (h *SEOHandler) Sitemap(c *fiber.Ctx) error {
	base := c.BaseURL()
	lastmod := h.now().UTC().Format("2006-01-02")

	set := urlSet{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, page := range h.pages {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        base + page.Path,
			LastMod:    lastmod,
			ChangeFreq: page.ChangeFreq,
			Priority:   page.Priority,
		})
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	return c.Send(append([]byte(xml.Header), body...))
}
