package views

import (
	"context"
	"encoding/json"
	"io"
	"strconv"

	"github.com/a-h/templ"

	appI18n "github.com/pavelanni/scanner/internal/i18n"
	"github.com/pavelanni/scanner/internal/model"
	"github.com/pavelanni/scanner/internal/quiz"
)

// QuizView is everything the quiz screen needs.
type QuizView struct {
	Stage      quiz.Stage
	Module     model.Module
	Selections map[string]string
	Name       string
	Answers    int
	Complete   bool
	Notice     string

	// Results stage only.
	Top             []model.Archetype
	Breakdown       []model.Standing
	MaxPoints       int
	Cheer           []quiz.Burst
	InsightsEnabled bool
	InsightHeadline string
	InsightText     string
}

var stageLabels = []string{"StageImages", "StageStories", "StageForced", "StageResults"}

// QuizPage renders the current stage, or the results.
func QuizPage(v QuizView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &page{w: w}
		layout(ctx, p, t(ctx, "AppTitle"), func() {
			stepper(ctx, p, v.Stage)
			if v.Notice != "" {
				p.raw(`<p class="notice">`)
				p.text(v.Notice)
				p.raw(`</p>`)
			}
			if v.Stage.IsResults() {
				results(ctx, p, v)
			} else {
				stage(ctx, p, v)
			}
		})
		return p.err
	})
}

func stepper(ctx context.Context, p *page, current quiz.Stage) {
	p.raw(`<p>`)
	p.text(appI18n.Td(ctx, "StepIndicator", map[string]any{
		"Step":  int(min(current, quiz.StageResults)) + 1,
		"Total": len(stageLabels),
	}))
	p.raw(`</p><ol class="steps">`)
	for i, id := range stageLabels {
		class := ""
		switch s := quiz.Stage(i); {
		case s == min(current, quiz.StageResults):
			class = "current"
		case s < current:
			class = "done"
		}
		p.raw(`<li`)
		if class != "" {
			p.attr("class", class)
		}
		p.raw(`>`)
		p.text(t(ctx, id))
		p.raw(`</li>`)
	}
	p.raw(`</ol>`)
}

func stage(ctx context.Context, p *page, v QuizView) {
	m := v.Module
	p.raw(`<section class="card"><h2>`)
	p.text(m.Title)
	p.raw(`</h2>`)
	if m.Hint != "" {
		p.raw(`<p><small>`)
		p.text(m.Hint)
		p.raw(`</small></p>`)
	}
	for _, q := range m.Questions {
		p.raw(`<div class="question">`)
		if q.Prompt != "" && m.Kind != model.ModuleImage {
			p.raw(`<h3>`)
			p.text(q.Prompt)
			p.raw(`</h3>`)
		}
		p.raw(`<div class="grid">`)
		for _, o := range q.Options {
			option(ctx, p, q, o, v.Selections[q.ID] == o.ID)
		}
		p.raw(`</div></div>`)
	}
	p.raw(`</section>`)

	p.raw(`<section class="nav"><form method="post"`)
	p.attr("action", href(ctx, "/quiz/name"))
	p.raw(`>`)
	p.csrf(ctx)
	p.raw(`<label>`)
	p.text(t(ctx, "NameLabel"))
	p.raw(` <input name="name" maxlength="60"`)
	p.attr("value", v.Name)
	p.attr("placeholder", t(ctx, "NamePlaceholder"))
	p.raw(`></label> <button type="submit" class="btn">`)
	p.text(t(ctx, "SaveName"))
	p.raw(`</button></form><span>`)
	p.text(appI18n.Tp(ctx, "AnswersGiven", v.Answers))
	p.raw(`</span><div class="nav">`)
	if v.Stage > quiz.StageImages {
		p.postButton(ctx, "/quiz/back", "← "+t(ctx, "Back"), "btn", false)
	}
	next := t(ctx, "Continue")
	if v.Stage == quiz.StageForced {
		next = t(ctx, "SeeResults")
	}
	p.postButton(ctx, "/quiz/next", next+" →", "btn primary", !v.Complete)
	p.raw(`</div></section>`)
	if !v.Complete {
		p.raw(`<p><small>`)
		p.text(t(ctx, "IncompleteStage"))
		p.raw(`</small></p>`)
	}
}

func option(ctx context.Context, p *page, q model.Question, o model.Option, selected bool) {
	class := "option"
	if selected {
		class += " selected"
	}
	p.raw(`<form method="post"`)
	p.attr("action", href(ctx, "/quiz/choose"))
	p.raw(`>`)
	p.csrf(ctx)
	p.raw(`<input type="hidden" name="question"`)
	p.attr("value", q.ID)
	p.raw(`><input type="hidden" name="option"`)
	p.attr("value", o.ID)
	p.raw(`><button type="submit"`)
	p.attr("class", class)
	if selected {
		p.raw(` aria-pressed="true"`)
	}
	p.raw(`>`)
	if o.ImageURL != "" {
		p.raw(`<img loading="lazy"`)
		p.attr("src", o.ImageURL)
		p.attr("alt", o.Text)
		p.raw(`>`)
	}
	p.raw(`<strong>`)
	p.text(o.Text)
	p.raw(`</strong>`)
	if o.Subtitle != "" {
		p.raw(`<small>`)
		p.text(o.Subtitle)
		p.raw(`</small>`)
	}
	p.raw(`</button></form>`)
}

func results(ctx context.Context, p *page, v QuizView) {
	p.raw(`<section><h2>🎉 `)
	p.text(t(ctx, "ResultsTitle"))
	p.raw(` 🎉</h2><p>`)
	p.text(t(ctx, "ResultsSubtitle"))
	p.raw(`</p><div class="grid">`)
	for i, a := range v.Top {
		label := t(ctx, "PrimaryType")
		if i > 0 {
			label = t(ctx, "SecondaryType")
		}
		p.raw(`<article class="card result"`)
		p.attr("data-archetype", a.Key)
		p.raw(`><small>`)
		p.text(label)
		p.raw(`</small><h3>`)
		p.text(a.Emoji + " " + a.Title)
		p.raw(`</h3><p><em>`)
		p.text(a.Short)
		p.raw(`</em></p><p>`)
		p.text(a.Description)
		p.raw(`</p><h4>💡 `)
		p.text(t(ctx, "Tips"))
		p.raw(`</h4><ul>`)
		for _, tip := range a.Tips {
			p.raw(`<li>`)
			p.text(tip)
			p.raw(`</li>`)
		}
		p.raw(`</ul></article>`)
	}
	p.raw(`</div>`)

	p.raw(`<section class="card"><h3>📊 `)
	p.text(t(ctx, "ScoreBreakdown"))
	p.raw(`</h3>`)
	for _, s := range v.Breakdown {
		p.raw(`<div class="standing"><div class="nav"><span>`)
		p.text(s.Archetype.Emoji + " " + s.Archetype.Title)
		p.raw(`</span><strong>`)
		p.text(appI18n.Td(ctx, "Points", map[string]any{"Points": s.Points}))
		p.raw(`</strong></div><div class="bar"><div`)
		p.attr("style", "width:"+strconv.FormatFloat(s.Percent, 'f', 1, 64)+"%")
		p.raw(`></div></div></div>`)
	}
	p.raw(`<p class="nav"><span>`)
	p.text(appI18n.Tp(ctx, "AnswersGiven", v.Answers))
	p.raw(`</span><span>`)
	p.text(appI18n.Td(ctx, "MaxPoints", map[string]any{"Max": v.MaxPoints}))
	p.raw(`</span></p></section>`)

	if v.InsightText != "" {
		p.raw(`<section class="card insight"><h3>✨ `)
		if v.InsightHeadline != "" {
			p.text(v.InsightHeadline)
		} else {
			p.text(t(ctx, "Insight"))
		}
		p.raw(`</h3><p>`)
		p.text(v.InsightText)
		p.raw(`</p></section>`)
	}

	p.raw(`<div class="nav">`)
	p.postButton(ctx, "/quiz/restart", "🔄 "+t(ctx, "Restart"), "btn", false)
	if v.InsightsEnabled && v.InsightText == "" {
		p.postButton(ctx, "/quiz/insight", "✨ "+t(ctx, "GetInsight"), "btn", false)
	}
	p.raw(`<button type="button" id="share" class="btn primary"`)
	p.attr("data-url", href(ctx, "/quiz/share"))
	p.attr("data-ok", t(ctx, "CopySuccess"))
	p.attr("data-fail", t(ctx, "CopyFailed"))
	p.raw(`>📋 `)
	p.text(t(ctx, "ShareResults"))
	p.raw(`</button></div><p class="notice">ℹ️ `)
	p.text(t(ctx, "Disclaimer"))
	p.raw(`</p></section><div id="toast" role="status"></div>`)
	p.raw(shareScript)

	if len(v.Cheer) > 0 {
		data, err := json.Marshal(v.Cheer)
		if err == nil {
			p.raw(`<script type="application/json" id="cheer">`)
			p.raw(string(data))
			p.raw(`</script>`)
			p.raw(confettiScript)
		}
	}
}

const shareScript = `<script>
(function(){
  var btn=document.getElementById("share"),toast=document.getElementById("toast");
  function show(ok){toast.textContent=btn.dataset[ok?"ok":"fail"];toast.className=ok?"ok":"fail";setTimeout(function(){toast.className=""},3000)}
  btn.addEventListener("click",function(){
    fetch(btn.dataset.url,{credentials:"same-origin"})
      .then(function(r){if(!r.ok)throw new Error(r.status);return r.text()})
      .then(function(text){return navigator.clipboard.writeText(text)})
      .then(function(){show(true)},function(){show(false)});
  });
})();
</script>`

const confettiScript = `<script src="https://cdn.jsdelivr.net/npm/canvas-confetti@1.9.3/dist/confetti.browser.min.js"></script>
<script>
(function(){
  var el=document.getElementById("cheer");
  if(!el||typeof confetti!=="function")return;
  try{
    JSON.parse(el.textContent).forEach(function(b){
      setTimeout(function(){try{confetti(b)}catch(e){}},b.delay||0);
    });
  }catch(e){}
})();
</script>`
