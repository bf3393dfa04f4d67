package dom_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/raysh454/phishview/internal/dom"
	"github.com/raysh454/phishview/internal/model"
	"github.com/raysh454/phishview/internal/render"
)

func newPage(t *testing.T) *dom.Page {
	t.Helper()
	p, err := dom.NewPage(dom.DefaultPageData())
	if err != nil {
		t.Fatalf("NewPage: %v", err)
	}
	return p
}

// reparse round-trips the page through its serialised HTML so assertions
// see exactly what a browser would receive.
func reparse(t *testing.T, p *dom.Page) *goquery.Document {
	t.Helper()
	out, err := p.HTML()
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	return doc
}

func TestBind_MissingElements(t *testing.T) {
	t.Parallel()
	_, err := dom.Parse(strings.NewReader(`<html><body><form id="url-form"></form><input id="url-input"></body></html>`))
	var mee *dom.MissingElementsError
	if !errors.As(err, &mee) {
		t.Fatalf("expected MissingElementsError, got %v", err)
	}
	for _, id := range mee.IDs {
		if id == dom.IDForm || id == dom.IDInput {
			t.Errorf("%s is present but reported missing", id)
		}
	}
	if len(mee.IDs) != 12 {
		t.Errorf("expected 12 missing ids, got %v", mee.IDs)
	}
	if !strings.Contains(err.Error(), "#analyze-btn") {
		t.Errorf("expected ids in message, got %q", err.Error())
	}
}

func TestTemplate_StartsHiddenAndIdle(t *testing.T) {
	t.Parallel()
	doc := reparse(t, newPage(t))

	if !doc.Find("#result-container").HasClass("d-none") {
		t.Error("result container should start hidden")
	}
	if !doc.Find("#spinner").HasClass("d-none") {
		t.Error("spinner should start hidden")
	}
	if _, disabled := doc.Find("#analyze-btn").Attr("disabled"); disabled {
		t.Error("button should start enabled")
	}
	if action, _ := doc.Find("#url-form").Attr("action"); action != "/" {
		t.Errorf("unexpected form action %q", action)
	}
}

func TestPage_RenderEndToEnd(t *testing.T) {
	t.Parallel()
	p := newPage(t)
	r, err := p.Renderer()
	if err != nil {
		t.Fatalf("Renderer: %v", err)
	}

	r.Render(&model.Result{
		Probability: 75.3,
		RiskLevel:   "High",
		IsPhishing:  true,
		SafeBrowsing: model.SafeBrowsing{
			Threats: []model.Threat{{ThreatType: "MALWARE", PlatformType: "WINDOWS"}},
		},
		Features: model.Features{{Name: "https", Value: 1.0}},
	})

	doc := reparse(t, p)

	if doc.Find("#result-container").HasClass("d-none") {
		t.Error("result container should be visible")
	}
	meter := doc.Find("#risk-meter")
	if cls, _ := meter.Attr("class"); cls != render.ClassMeterHigh {
		t.Errorf("unexpected meter class %q", cls)
	}
	if style, _ := meter.Attr("style"); style != "width: 75.3%" {
		t.Errorf("unexpected meter style %q", style)
	}
	if cls, _ := doc.Find("#result-alert").Attr("class"); cls != render.ClassAlertPhishing {
		t.Errorf("unexpected alert class %q", cls)
	}
	if !strings.Contains(doc.Find("#result-message").Text(), "75.3%") {
		t.Errorf("unexpected message %q", doc.Find("#result-message").Text())
	}
	if doc.Find("#risk-level").Text() != "High" {
		t.Errorf("unexpected risk level %q", doc.Find("#risk-level").Text())
	}

	items := doc.Find("#threat-list li")
	if items.Length() != 1 || items.Text() != "MALWARE (WINDOWS)" {
		t.Errorf("unexpected threat items %d %q", items.Length(), items.Text())
	}
	if !items.HasClass("list-group-item-danger") {
		t.Error("threat item missing danger class")
	}

	rows := doc.Find("#features-table tr")
	if rows.Length() != 1 {
		t.Fatalf("expected 1 feature row, got %d", rows.Length())
	}
	cells := rows.First().Find("td")
	if cells.Eq(0).Text() != "https" || cells.Eq(1).Text() != "1" {
		t.Errorf("unexpected cells %q %q", cells.Eq(0).Text(), cells.Eq(1).Text())
	}
}

func TestPage_TextIsEscaped(t *testing.T) {
	t.Parallel()
	p := newPage(t)
	r, _ := p.Renderer()
	r.Render(&model.Result{
		RiskLevel:    "<b>Low</b>",
		SafeBrowsing: model.SafeBrowsing{IsSafe: true},
		Features:     model.Features{{Name: "<script>alert(1)</script>", Value: "x"}},
	})

	out, _ := p.HTML()
	if strings.Contains(out, "<script>alert(1)</script>") || strings.Contains(out, "<b>Low</b>") {
		t.Fatalf("markup from result leaked into page")
	}
	doc := reparse(t, p)
	if doc.Find("#risk-level").Text() != "<b>Low</b>" {
		t.Errorf("expected literal text, got %q", doc.Find("#risk-level").Text())
	}
}

func TestPage_ControlsToggle(t *testing.T) {
	t.Parallel()
	p := newPage(t)

	p.MarkInvalid()
	p.SetBusy(true)
	doc := reparse(t, p)
	if !doc.Find("#url-input").HasClass("is-invalid") {
		t.Error("expected invalid marker")
	}
	if _, ok := doc.Find("#analyze-btn").Attr("disabled"); !ok {
		t.Error("expected disabled button while busy")
	}
	if doc.Find("#spinner").HasClass("d-none") {
		t.Error("expected spinner visible while busy")
	}

	p.ClearInvalid()
	p.SetBusy(false)
	doc = reparse(t, p)
	if doc.Find("#url-input").HasClass("is-invalid") {
		t.Error("expected invalid marker cleared")
	}
	if _, ok := doc.Find("#analyze-btn").Attr("disabled"); ok {
		t.Error("expected button re-enabled")
	}
	if !doc.Find("#spinner").HasClass("d-none") {
		t.Error("expected spinner hidden")
	}
}

func TestPage_AlertAndInputValue(t *testing.T) {
	t.Parallel()
	p := newPage(t)
	p.SetInputValue("https://example.com/?a=1&b=2")
	p.Alert("An error occurred")

	doc := reparse(t, p)
	if v, _ := doc.Find("#url-input").Attr("value"); v != "https://example.com/?a=1&b=2" {
		t.Errorf("unexpected input value %q", v)
	}
	banner := doc.Find("#error-alert")
	if banner.HasClass("d-none") || banner.Text() != "An error occurred" {
		t.Errorf("unexpected error banner %q (hidden=%v)", banner.Text(), banner.HasClass("d-none"))
	}
	if got := p.Alerts(); len(got) != 1 || got[0] != "An error occurred" {
		t.Errorf("unexpected recorded alerts %v", got)
	}
}
