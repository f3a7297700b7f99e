package controllers

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/techdealshub/techdealshub-backend/api/responses"
	"github.com/techdealshub/techdealshub-backend/internal/catalog"
	"github.com/techdealshub/techdealshub-backend/internal/content"
	pkgerrors "github.com/techdealshub/techdealshub-backend/pkg/errors"
	"github.com/techdealshub/techdealshub-backend/pkg/logger"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// Sitemap renders sitemap.xml from the live catalog and published posts.
func Sitemap(baseURL string, catalogRepo *catalog.Repository, contentRepo *content.Repository, logg *logger.Logger) http.HandlerFunc {
	base := strings.TrimRight(baseURL, "/")

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		set := sitemapURLSet{XMLNS: sitemapNamespace}
		set.URLs = append(set.URLs,
			sitemapURL{Loc: base + "/", ChangeFreq: "daily", Priority: "1.0"},
			sitemapURL{Loc: base + "/categories", ChangeFreq: "weekly", Priority: "0.8"},
			sitemapURL{Loc: base + "/blog", ChangeFreq: "daily", Priority: "0.8"},
		)

		categories, err := catalogRepo.ListCategories(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing categories for sitemap"))
			return
		}
		for _, category := range categories {
			set.URLs = append(set.URLs, sitemapURL{
				Loc:        fmt.Sprintf("%s/categories/%s", base, category.Slug),
				ChangeFreq: "weekly",
				Priority:   "0.7",
			})
		}

		products, err := catalogRepo.ListAll(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products for sitemap"))
			return
		}
		for _, product := range products {
			set.URLs = append(set.URLs, sitemapURL{
				Loc:        fmt.Sprintf("%s/products/%s", base, product.Slug),
				LastMod:    product.UpdatedAt.UTC().Format(time.RFC3339),
				ChangeFreq: "weekly",
				Priority:   "0.6",
			})
		}

		posts, err := contentRepo.ListPublishedAll(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing posts for sitemap"))
			return
		}
		for _, post := range posts {
			set.URLs = append(set.URLs, sitemapURL{
				Loc:        fmt.Sprintf("%s/blog/%s", base, post.Slug),
				LastMod:    post.UpdatedAt.UTC().Format(time.RFC3339),
				ChangeFreq: "monthly",
				Priority:   "0.5",
			})
		}

		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, xml.Header)
		if err := xml.NewEncoder(w).Encode(set); err != nil && logg != nil {
			logg.Error(ctx, "encoding sitemap", err)
		}
	}
}

// Robots serves robots.txt pointing crawlers at the sitemap and away from the
// admin and redirect surfaces.
func Robots(baseURL string) http.HandlerFunc {
	base := strings.TrimRight(baseURL, "/")
	body := strings.Join([]string{
		"User-agent: *",
		"Disallow: /admin/",
		"Disallow: /go/",
		"Allow: /",
		"",
		"Sitemap: " + base + "/sitemap.xml",
		"",
	}, "\n")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, body)
	}
}
