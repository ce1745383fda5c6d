// Package views renders the scanner's HTML as templ components.
package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	appI18n "github.com/pavelanni/scanner/internal/i18n"
	"github.com/pavelanni/scanner/internal/model"
)

// page accumulates the first write error so components can render straight
// through and report once.
type page struct {
	w   io.Writer
	err error
}

func (p *page) raw(s string) {
	if p.err == nil {
		_, p.err = io.WriteString(p.w, s)
	}
}

func (p *page) text(s string) {
	p.raw(templ.EscapeString(s))
}

func (p *page) rawf(format string, args ...any) {
	p.raw(fmt.Sprintf(format, args...))
}

// attr writes name="value" with value escaped.
func (p *page) attr(name, value string) {
	p.raw(" " + name + "=\"" + templ.EscapeString(value) + "\"")
}

func (p *page) csrf(ctx context.Context) {
	p.raw(`<input type="hidden" name="csrf_token"`)
	p.attr("value", model.CSRFTokenFromContext(ctx))
	p.raw(">")
}

// postButton renders a single-button form posting to action.
func (p *page) postButton(ctx context.Context, action, label, class string, disabled bool) {
	p.raw(`<form method="post"`)
	p.attr("action", href(ctx, action))
	p.raw(`>`)
	p.csrf(ctx)
	p.raw(`<button type="submit"`)
	p.attr("class", class)
	if disabled {
		p.raw(" disabled")
	}
	p.raw(">")
	p.text(label)
	p.raw("</button></form>")
}

func href(ctx context.Context, path string) string {
	return model.BasePathFromContext(ctx) + path
}

func t(ctx context.Context, id string) string {
	return appI18n.T(ctx, id)
}

// layout wraps body in the shared document shell.
func layout(ctx context.Context, p *page, title string, body func()) {
	p.raw("<!DOCTYPE html>\n<html")
	p.attr("lang", appI18n.LangFromContext(ctx))
	p.raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
	p.text(title)
	p.raw(`</title><style>` + stylesheet + `</style></head><body><main class="container">`)
	p.raw(`<header><h1>`)
	p.text(t(ctx, "AppTitle"))
	p.raw(`</h1><nav class="langs">`)
	for _, l := range appI18n.Languages() {
		p.raw(`<a`)
		p.attr("href", href(ctx, "/quiz")+"?lang="+l)
		if l == appI18n.LangFromContext(ctx) {
			p.raw(` class="current"`)
		}
		p.raw(`>`)
		p.text(l)
		p.raw(`</a>`)
	}
	p.raw(`</nav></header>`)
	body()
	p.raw(`<footer>`)
	p.text(t(ctx, "Footer"))
	p.raw(`</footer></main></body></html>`)
}

const stylesheet = `
body{font-family:system-ui,sans-serif;background:linear-gradient(135deg,#eef2ff,#fdf2f8);margin:0;color:#1f2937}
.container{max-width:960px;margin:0 auto;padding:1.5rem}
header{display:flex;justify-content:space-between;align-items:center}
h1{background:linear-gradient(90deg,#4f46e5,#db2777);-webkit-background-clip:text;color:transparent}
.langs a{margin-left:.5rem;color:#6b7280}.langs a.current{font-weight:700;color:#4f46e5}
.card{background:#fff;border-radius:1rem;padding:1.25rem;box-shadow:0 4px 16px rgba(0,0,0,.06);margin:1rem 0}
.steps{display:flex;gap:.5rem;list-style:none;padding:0}.steps li{padding:.25rem .75rem;border-radius:999px;background:#e5e7eb}
.steps li.done{background:#c7d2fe}.steps li.current{background:#4f46e5;color:#fff}
.grid{display:grid;grid-template-columns:repeat(auto-fit,minmax(200px,1fr));gap:1rem}
.option{width:100%;text-align:left;border:2px solid #e5e7eb;border-radius:.75rem;padding:.75rem;background:#fff;cursor:pointer}
.option.selected{border-color:#4f46e5;background:#eef2ff}
.option img{width:100%;height:140px;object-fit:cover;border-radius:.5rem}
.option small{display:block;color:#6b7280}
.nav{display:flex;justify-content:space-between;align-items:center;gap:1rem;flex-wrap:wrap;border-top:1px solid #e5e7eb;padding-top:1rem}
.btn{padding:.6rem 1.2rem;border-radius:.75rem;border:2px solid #c7d2fe;background:#fff;cursor:pointer}
.btn.primary{background:#4f46e5;color:#fff;border-color:#4f46e5}.btn[disabled]{opacity:.5;cursor:not-allowed}
.bar{background:#e5e7eb;border-radius:999px;height:.75rem;overflow:hidden}.bar div{height:100%;background:linear-gradient(90deg,#6366f1,#a855f7)}
.notice{background:#fef9c3;border:1px solid #fde68a;border-radius:.5rem;padding:.75rem}
.error{background:#fee2e2;border:1px solid #fecaca;border-radius:.5rem;padding:.75rem}
#toast{position:fixed;bottom:1rem;right:1rem;padding:.75rem 1rem;border-radius:.5rem;color:#fff;display:none}
#toast.ok{background:#059669;display:block}#toast.fail{background:#dc2626;display:block}
table{width:100%;border-collapse:collapse}td,th{padding:.4rem;border-bottom:1px solid #e5e7eb;text-align:left}
footer{margin-top:2rem;text-align:center;font-size:.8rem;color:#6b7280}
`

// LoginPage renders the operator login form with an optional error.
func LoginPage(errMsg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &page{w: w}
		layout(ctx, p, t(ctx, "Login"), func() {
			p.raw(`<section class="card"><h2>`)
			p.text(t(ctx, "Login"))
			p.raw(`</h2>`)
			if errMsg != "" {
				p.raw(`<p class="error">`)
				p.text(errMsg)
				p.raw(`</p>`)
			}
			p.raw(`<form method="post"`)
			p.attr("action", href(ctx, "/login"))
			p.raw(`>`)
			p.csrf(ctx)
			p.raw(`<p><label>`)
			p.text(t(ctx, "Username"))
			p.raw(`<br><input name="username" autocomplete="username" required></label></p><p><label>`)
			p.text(t(ctx, "Password"))
			p.raw(`<br><input type="password" name="password" autocomplete="current-password" required></label></p>`)
			p.raw(`<button type="submit" class="btn primary">`)
			p.text(t(ctx, "Login"))
			p.raw(`</button></form></section>`)
		})
		return p.err
	})
}
