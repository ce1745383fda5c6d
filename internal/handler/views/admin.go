package views

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	appI18n "github.com/pavelanni/scanner/internal/i18n"
	"github.com/pavelanni/scanner/internal/model"
)

// TallyRow is one archetype's share of the booth tally.
type TallyRow struct {
	Archetype model.Archetype
	Count     int
}

// AdminScansView is the operator dashboard.
type AdminScansView struct {
	Info    model.EventInfo
	Total   int
	Tally   []TallyRow
	Recent  []model.ScanRecord
	Titles  map[string]string
	IsAdmin bool
}

func adminNav(ctx context.Context, p *page, isAdmin bool) {
	p.raw(`<nav class="nav"><a`)
	p.attr("href", href(ctx, "/admin"))
	p.raw(`>`)
	p.text(t(ctx, "AdminScans"))
	p.raw(`</a>`)
	if isAdmin {
		p.raw(`<a`)
		p.attr("href", href(ctx, "/admin/users"))
		p.raw(`>`)
		p.text(t(ctx, "Users"))
		p.raw(`</a>`)
	}
	if u := model.UserFromContext(ctx); u != nil {
		p.raw(`<span>`)
		p.text(u.DisplayName)
		p.raw(`</span>`)
	}
	p.postButton(ctx, "/logout", t(ctx, "Logout"), "btn", false)
	p.raw(`</nav>`)
}

// AdminScansPage renders the booth tally.
func AdminScansPage(v AdminScansView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &page{w: w}
		layout(ctx, p, t(ctx, "AdminScans"), func() {
			adminNav(ctx, p, v.IsAdmin)
			p.raw(`<section class="card"><h2>`)
			p.text(t(ctx, "AdminScans"))
			p.raw(`</h2>`)
			if v.Info.Event != "" {
				p.raw(`<p>`)
				p.text(t(ctx, "Event") + ": " + v.Info.Event)
				if v.Info.Venue != "" {
					p.text(", " + v.Info.Venue)
				}
				if v.Info.Date != "" {
					p.text(" (" + v.Info.Date + ")")
				}
				p.raw(`</p>`)
			}
			p.raw(`<p id="total">`)
			p.text(appI18n.Tp(ctx, "TotalScans", v.Total))
			p.raw(`</p><table><tbody>`)
			for _, row := range v.Tally {
				pct := 0.0
				if v.Total > 0 {
					pct = float64(row.Count) / float64(v.Total) * 100
				}
				p.raw(`<tr`)
				p.attr("data-archetype", row.Archetype.Key)
				p.raw(`><td>`)
				p.text(row.Archetype.Emoji + " " + row.Archetype.Title)
				p.raw(`</td><td class="count">`)
				p.text(strconv.Itoa(row.Count))
				p.raw(`</td><td style="width:50%"><div class="bar"><div`)
				p.attr("style", "width:"+strconv.FormatFloat(pct, 'f', 1, 64)+"%")
				p.raw(`></div></div></td></tr>`)
			}
			p.raw(`</tbody></table><p class="nav"><a class="btn"`)
			p.attr("href", href(ctx, "/admin/export"))
			p.raw(`>`)
			p.text(t(ctx, "ExportJSON"))
			p.raw(`</a>`)
			if v.IsAdmin {
				p.postButton(ctx, "/admin/scans/clear", t(ctx, "ClearScans"), "btn", v.Total == 0)
			}
			p.raw(`</p></section>`)

			p.raw(`<section class="card"><h3>`)
			p.text(t(ctx, "RecentScans"))
			p.raw(`</h3>`)
			if len(v.Recent) == 0 {
				p.raw(`<p>`)
				p.text(t(ctx, "NoScans"))
				p.raw(`</p>`)
			} else {
				p.raw(`<table><thead><tr><th>`)
				p.text(t(ctx, "Name"))
				p.raw(`</th><th>`)
				p.text(t(ctx, "PrimaryShort"))
				p.raw(`</th><th>`)
				p.text(t(ctx, "SecondaryShort"))
				p.raw(`</th><th>`)
				p.text(t(ctx, "CompletedAt"))
				p.raw(`</th></tr></thead><tbody>`)
				for _, sc := range v.Recent {
					name := sc.DisplayName
					if name == "" {
						name = t(ctx, "Anonymous")
					}
					p.raw(`<tr><td>`)
					p.text(name)
					p.raw(`</td><td>`)
					p.text(title(v.Titles, sc.Primary))
					p.raw(`</td><td>`)
					p.text(title(v.Titles, sc.Secondary))
					p.raw(`</td><td>`)
					p.text(sc.CompletedAt.Local().Format("2006-01-02 15:04"))
					p.raw(`</td></tr>`)
				}
				p.raw(`</tbody></table>`)
			}
			p.raw(`</section>`)
		})
		return p.err
	})
}

func title(titles map[string]string, key string) string {
	if s, ok := titles[key]; ok {
		return s
	}
	return key
}

// AdminUsersPage renders operator management.
func AdminUsersPage(users []model.User, msg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &page{w: w}
		layout(ctx, p, t(ctx, "Users"), func() {
			adminNav(ctx, p, true)
			if msg != "" {
				p.raw(`<p class="notice">`)
				p.text(msg)
				p.raw(`</p>`)
			}
			p.raw(`<section class="card"><h2>`)
			p.text(t(ctx, "Users"))
			p.raw(`</h2><table><thead><tr><th>`)
			p.text(t(ctx, "Username"))
			p.raw(`</th><th>`)
			p.text(t(ctx, "DisplayName"))
			p.raw(`</th><th>`)
			p.text(t(ctx, "Role"))
			p.raw(`</th><th>`)
			p.text(t(ctx, "Active"))
			p.raw(`</th><th>`)
			p.text(t(ctx, "Actions"))
			p.raw(`</th></tr></thead><tbody>`)
			for _, u := range users {
				active, action := t(ctx, "No"), t(ctx, "Activate")
				if u.Active {
					active, action = t(ctx, "Yes"), t(ctx, "Deactivate")
				}
				p.raw(`<tr><td>`)
				p.text(u.Username)
				p.raw(`</td><td>`)
				p.text(u.DisplayName)
				p.raw(`</td><td>`)
				p.text(string(u.Role))
				p.raw(`</td><td>`)
				p.text(active)
				p.raw(`</td><td>`)
				p.postButton(ctx, "/admin/users/"+strconv.FormatInt(u.ID, 10)+"/toggle", action, "btn", false)
				p.raw(`</td></tr>`)
			}
			p.raw(`</tbody></table></section>`)

			p.raw(`<section class="card"><h3>`)
			p.text(t(ctx, "CreateUser"))
			p.raw(`</h3><form method="post"`)
			p.attr("action", href(ctx, "/admin/users"))
			p.raw(`>`)
			p.csrf(ctx)
			p.raw(`<p><input name="username" required`)
			p.attr("placeholder", t(ctx, "Username"))
			p.raw(`> <input name="display_name"`)
			p.attr("placeholder", t(ctx, "DisplayName"))
			p.raw(`> <input type="password" name="password" required`)
			p.attr("placeholder", t(ctx, "Password"))
			p.raw(`> <select name="role">`)
			for _, r := range []model.UserRole{model.UserRoleOperator, model.UserRoleAdmin} {
				p.raw(`<option`)
				p.attr("value", string(r))
				p.raw(`>`)
				p.text(string(r))
				p.raw(`</option>`)
			}
			p.raw(`</select> <button type="submit" class="btn primary">`)
			p.text(t(ctx, "CreateUser"))
			p.raw(`</button></p></form></section>`)
		})
		return p.err
	})
}
