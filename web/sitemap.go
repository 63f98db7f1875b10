package web

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/golang/glog"
	"golang.org/x/net/trace"
)

type SitemapURLImage struct {
	Loc string `xml:"image:loc"` // image is the namespace 'http://www.google.com/schemas/sitemap-image/1.1'
}

type SitemapURL struct {
	XMLName xml.Name `xml:"url"`
	Loc     string   `xml:"loc"`
	LastMod string   `xml:"lastmod,omitempty"`

	Image []SitemapURLImage `xml:"image:image,omitempty"`
}

type SitemapURLSet struct {
	XMLName    xml.Name     `xml:"http://www.sitemaps.org/schemas/sitemap/0.9 urlset"`
	XMLNSImage string       `xml:"xmlns:image,attr"`
	URL        []SitemapURL `xml:"url,omitempty"` // up to 50k entries
}

func (e *SitemapURLSet) Write(w http.ResponseWriter, r *http.Request) {
	e.XMLNSImage = "http://www.google.com/schemas/sitemap-image/1.1"

	w.Header().Set("Content-Type", "application/xml")

	fmt.Fprintf(w, "%s", xml.Header)
	enc := xml.NewEncoder(w)
	enc.Indent("", " ")
	if err := enc.Encode(e); err != nil {
		glog.Errorf("web: encoding sitemap: %v", err)
	}
}

// sitemapHandler lists the page of every named sprite, with its first frame
// as the page image.
func (h *Handler) sitemapHandler(w http.ResponseWriter, r *http.Request) {
	tr := trace.New("swf.web", "sitemap")
	defer tr.Finish()

	files, err := h.listing(r.Context())
	if err != nil {
		tr.SetError()
		glog.Errorf("web: %v", err)
		http.Error(w, "<error>could not list sprites</error>", http.StatusInternalServerError)
		return
	}

	base := url.URL{Scheme: "http", Host: r.Host}
	if r.TLS != nil {
		base.Scheme = "https"
	}

	var set SitemapURLSet
	for _, f := range files {
		for _, s := range f.Sprites {
			page := base
			page.Path = "/swf/" + f.Name + "/sprite/" + s.Name
			img := base
			img.Path = "/swf/" + f.Name + "/sprite/" + strconv.Itoa(s.ID) + "/frame/1"
			set.URL = append(set.URL, SitemapURL{
				Loc:   page.String(),
				Image: []SitemapURLImage{{Loc: img.String()}},
			})
		}
	}
	set.Write(w, r)
}
