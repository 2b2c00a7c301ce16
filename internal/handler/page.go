package handler

import (
	"html/template"
	"log/slog"
	"math/rand/v2"
	"net/http"

	"github.com/microcosm-cc/bluemonday"

	"github.com/sakif/discord-lookup/internal/metrics"
	"github.com/sakif/discord-lookup/internal/profile"
	"github.com/sakif/discord-lookup/internal/widget"
	"github.com/sakif/discord-lookup/web"
)

var placeholders = []string{
	"paste user id",
	"discord id here",
	"123456789012345678",
	"enter id",
}

// PageHandler serves the widget page. GET / shows the empty form;
// GET /?id=... runs one widget search server-side and renders its result.
//
// Templates are parsed once at startup from the embedded web package.
type PageHandler struct {
	templates *template.Template
	lookup    widget.Lookuper
	formatter *profile.Formatter
	policy    *bluemonday.Policy
	logger    *slog.Logger
	pick      func(n int) int
}

func NewPageHandler(lookup widget.Lookuper, formatter *profile.Formatter, logger *slog.Logger) (*PageHandler, error) {
	tmpl, err := template.ParseFS(web.Templates, "templates/base.html", "templates/index.html")
	if err != nil {
		return nil, err
	}
	return &PageHandler{
		templates: tmpl,
		lookup:    lookup,
		formatter: formatter,
		// Override labels come from config; only text survives.
		policy: bluemonday.StrictPolicy(),
		logger: logger,
		pick:   rand.IntN,
	}, nil
}

type pageData struct {
	Title       string
	Query       string
	Placeholder string
	Glyph       string
	Autofocus   bool
	Busy        bool
	Notice      *noticeView
	Card        *cardView
}

type noticeView struct {
	Message string
	Kind    string // "error" or "success"; also the CSS class
}

type cardView struct {
	AvatarURL        string
	BannerImage      string
	BannerBackground template.CSS
	BannerLink       bool
	Name             string
	Tag              string
	UID              string
	Joined           string
	Age              string
	Status           string
	AccountType      template.HTML
	Badges           []profile.Badge
	Flags            string
}

// pageView is the render target, notifier and controls of one request.
// The Searcher writes into it; the template reads it afterwards.
type pageView struct {
	policy *bluemonday.Policy
	data   *pageData
}

var (
	_ profile.Target  = (*pageView)(nil)
	_ widget.Notifier = (*pageView)(nil)
	_ widget.Controls = (*pageView)(nil)
)

func (v *pageView) Notify(msg string, kind widget.NoticeKind) {
	class := "error"
	if kind == widget.NoticeSuccess {
		class = "success"
	}
	// Only the latest notice is shown.
	v.data.Notice = &noticeView{Message: msg, Kind: class}
}

func (v *pageView) SetBusy(busy bool) { v.data.Busy = busy }
func (v *pageView) FocusInput() { v.data.Autofocus = true }

func (v *pageView) ShowCard() { v.data.Card = &cardView{} }

func (v *pageView) SetBanner(b profile.Banner) {
	v.data.Card.BannerImage = b.ImageURL
	// Background is built by profile.AccentGradient from an integer colour.
	v.data.Card.BannerBackground = template.CSS(b.Background)
	v.data.Card.BannerLink = b.LinkVisible()
}

func (v *pageView) SetAvatar(url string) { v.data.Card.AvatarURL = url }
func (v *pageView) SetName(s string) { v.data.Card.Name = s }
func (v *pageView) SetTag(s string) { v.data.Card.Tag = s }
func (v *pageView) SetUID(s string) { v.data.Card.UID = s }
func (v *pageView) SetJoined(s string) { v.data.Card.Joined = s }
func (v *pageView) SetStatus(s profile.Status) { v.data.Card.Status = string(s) }
func (v *pageView) SetBadges(b []profile.Badge) { v.data.Card.Badges = b }
func (v *pageView) SetFlags(s string) { v.data.Card.Flags = s }
func (v *pageView) SetAge(s string) { v.data.Card.Age = s }

// SetAccountType decorates override labels with the gradient style. The label
// is sanitised first since it is emitted as HTML.
func (v *pageView) SetAccountType(a profile.AccountType) {
	if a.Override {
		v.data.Card.AccountType = template.HTML(`<span class="gradient-text">` + v.policy.Sanitize(a.Label) + `</span>`)
		return
	}
	v.data.Card.AccountType = template.HTML(template.HTMLEscapeString(a.Label))
}

// HandlePage handles GET / and GET /?id={raw}.
func (h *PageHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	data := &pageData{
		Title:       "Discord Lookup",
		Placeholder: placeholders[h.pick(len(placeholders))],
		Glyph:       profile.Glyph,
	}

	q := r.URL.Query()
	if q.Has("id") {
		data.Query = q.Get("id")
		view := &pageView{policy: h.policy, data: data}
		searcher := widget.NewSearcher(widget.Config{
			Lookup:    h.lookup,
			Formatter: h.formatter,
			Target:    view,
			Notifier:  view,
			Controls:  view,
			Logger:    h.logger,
			Observe: func(o widget.Outcome) {
				metrics.WidgetSearchesTotal.WithLabelValues(o.String()).Inc()
			},
		})
		searcher.Search(r.Context(), data.Query)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, "base", data); err != nil {
		h.logger.Error("failed to render template",
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
