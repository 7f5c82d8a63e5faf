package api

import (
	"encoding/xml"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	atom "github.com/thomas11/atomgenerator"

	"myblog/database"
)

const (
	feedPostCount = 5
	excerptWords  = 30
)

type feedHandler struct {
	responder Responder
	logger    zerolog.Logger
	postRepo  *database.PostRepo
	baseURL   string
	siteTitle string
	author    string
}

func newFeedHandler(postRepo *database.PostRepo, baseURL, siteTitle, author string) feedHandler {
	logger := log.With().Str("handlerName", "feedHandler").Logger()

	return feedHandler{
		responder: NewResponder(logger),
		logger:    logger,
		postRepo:  postRepo,
		baseURL:   baseURL,
		siteTitle: siteTitle,
		author:    author,
	}
}

// atomFeed serves the most recent published posts as an Atom feed.
func (h feedHandler) atomFeed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := h.postRepo.RecentPublished(feedPostCount)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find posts", "posts", err))
			return
		}

		feed := atom.Feed{
			Title:   h.siteTitle,
			Link:    h.baseURL + "/",
			PubDate: time.Now(),
		}
		feed.AddAuthor(atom.Author{Name: h.author})

		for _, post := range posts {
			feed.AddEntry(&atom.Entry{
				Title:       post.Title,
				Description: excerpt(post.Body, excerptWords),
				Link:        h.baseURL + post.URLPath(),
				PubDate:     post.Publish,
			})
		}

		feedXML, err := feed.GenXml()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/atom+xml; charset=utf-8")
		if _, err := w.Write(feedXML); err != nil {
			h.logger.Error().Err(err).Msg("error writing feed response")
		}
	}
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// sitemap enumerates the canonical URL of every published post.
func (h feedHandler) sitemap() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := h.postRepo.AllPublished()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find posts", "posts", err))
			return
		}

		set := sitemapURLSet{
			Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
			URLs:  make([]sitemapURL, 0, len(posts)),
		}
		for _, post := range posts {
			set.URLs = append(set.URLs, sitemapURL{
				Loc:     h.baseURL + post.URLPath(),
				LastMod: post.Updated.UTC().Format("2006-01-02"),
			})
		}

		out, err := xml.MarshalIndent(set, "", "  ")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		if _, err := w.Write(append([]byte(xml.Header), out...)); err != nil {
			h.logger.Error().Err(err).Msg("error writing sitemap response")
		}
	}
}

// excerpt returns the first n words of body with an ellipsis when truncated.
func excerpt(body string, n int) string {
	words := strings.Fields(body)
	if len(words) <= n {
		return body
	}
	return strings.Join(words[:n], " ") + " ..."
}
