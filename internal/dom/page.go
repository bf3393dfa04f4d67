// Package dom binds the analysis page markup to render targets and submit
// controls using goquery. Elements are looked up once, by id, when the page is
// bound; a page missing any of them is rejected up front.
package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/raysh454/phishview/internal/model"
	"github.com/raysh454/phishview/internal/render"
)

// Element ids the page must carry.
const (
	IDForm                = "url-form"
	IDInput               = "url-input"
	IDButton              = "analyze-btn"
	IDSpinner             = "spinner"
	IDResultContainer     = "result-container"
	IDResultAlert         = "result-alert"
	IDResultHeading       = "result-heading"
	IDResultMessage       = "result-message"
	IDRiskMeter           = "risk-meter"
	IDRiskLevel           = "risk-level"
	IDRiskDetails         = "risk-details"
	IDSafeBrowsingMessage = "safe-browsing-message"
	IDThreatList          = "threat-list"
	IDFeaturesTable       = "features-table"

	// IDErrorAlert is optional; without it Alert only records the message.
	IDErrorAlert = "error-alert"
)

const (
	classHidden  = "d-none"
	classInvalid = "is-invalid"
)

var requiredIDs = []string{
	IDForm, IDInput, IDButton, IDSpinner,
	IDResultContainer, IDResultAlert, IDResultHeading, IDResultMessage,
	IDRiskMeter, IDRiskLevel, IDRiskDetails, IDSafeBrowsingMessage,
	IDThreatList, IDFeaturesTable,
}

// MissingElementsError lists required ids absent from the document.
type MissingElementsError struct {
	IDs []string
}

func (e *MissingElementsError) Error() string {
	return fmt.Sprintf("page is missing required elements: #%s", strings.Join(e.IDs, ", #"))
}

// Page is a bound analysis page. It is not safe for concurrent use.
type Page struct {
	doc    *goquery.Document
	els    map[string]*goquery.Selection
	alerts []string
}

// Parse reads markup and binds it.
func Parse(r io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}
	return Bind(doc)
}

// Bind locates every required element in doc.
func Bind(doc *goquery.Document) (*Page, error) {
	p := &Page{doc: doc, els: make(map[string]*goquery.Selection, len(requiredIDs)+1)}

	var missing []string
	for _, id := range requiredIDs {
		sel := doc.Find("#" + id).First()
		if sel.Length() == 0 {
			missing = append(missing, id)
			continue
		}
		p.els[id] = sel
	}
	if len(missing) > 0 {
		return nil, &MissingElementsError{IDs: missing}
	}

	if sel := doc.Find("#" + IDErrorAlert).First(); sel.Length() > 0 {
		p.els[IDErrorAlert] = sel
	}
	return p, nil
}

// Targets returns render targets backed by the page's elements.
func (p *Page) Targets() render.Targets {
	return render.Targets{
		Container:           visibility{p.els[IDResultContainer]},
		Meter:               meter{p.els[IDRiskMeter]},
		RiskLevel:           text{p.els[IDRiskLevel]},
		Alert:               class{p.els[IDResultAlert]},
		Heading:             text{p.els[IDResultHeading]},
		Message:             text{p.els[IDResultMessage]},
		RiskDetails:         text{p.els[IDRiskDetails]},
		SafeBrowsingMessage: text{p.els[IDSafeBrowsingMessage]},
		ThreatList:          list{p.els[IDThreatList]},
		FeatureTable:        table{p.els[IDFeaturesTable]},
	}
}

// Renderer returns a render.Renderer writing into the page.
func (p *Page) Renderer() (*render.Renderer, error) {
	return render.NewRenderer(p.Targets())
}

// SetInputValue pre-fills the URL field.
func (p *Page) SetInputValue(v string) {
	p.els[IDInput].SetAttr("value", v)
}

// MarkInvalid flags the URL field.
func (p *Page) MarkInvalid() {
	p.els[IDInput].AddClass(classInvalid)
}

// ClearInvalid removes the invalid flag from the URL field.
func (p *Page) ClearInvalid() {
	p.els[IDInput].RemoveClass(classInvalid)
}

// SetBusy disables the trigger and shows the spinner, or reverses both.
func (p *Page) SetBusy(busy bool) {
	btn, spinner := p.els[IDButton], p.els[IDSpinner]
	if busy {
		btn.SetAttr("disabled", "disabled")
		spinner.RemoveClass(classHidden)
		return
	}
	btn.RemoveAttr("disabled")
	spinner.AddClass(classHidden)
}

// Alert shows msg in the page's error banner, if it has one.
func (p *Page) Alert(msg string) {
	p.alerts = append(p.alerts, msg)
	if sel, ok := p.els[IDErrorAlert]; ok {
		setText(sel, msg)
		sel.RemoveClass(classHidden)
	}
}

// Alerts returns every message passed to Alert.
func (p *Page) Alerts() []string {
	return append([]string(nil), p.alerts...)
}

// Document exposes the underlying goquery document.
func (p *Page) Document() *goquery.Document { return p.doc }

// HTML serialises the whole document.
func (p *Page) HTML() (string, error) {
	var b strings.Builder
	for n := p.doc.Nodes[0].FirstChild; n != nil; n = n.NextSibling {
		if err := html.Render(&b, n); err != nil {
			return "", fmt.Errorf("rendering page: %w", err)
		}
	}
	return b.String(), nil
}

// ─── targets ───────────────────────────────────────────────────────────

type text struct{ sel *goquery.Selection }

func (t text) SetText(s string) { setText(t.sel, s) }

type class struct{ sel *goquery.Selection }

func (c class) SetClass(s string) { c.sel.SetAttr("class", s) }

type visibility struct{ sel *goquery.Selection }

func (v visibility) Show() { v.sel.RemoveClass(classHidden) }
func (v visibility) Hide() { v.sel.AddClass(classHidden) }

type meter struct{ sel *goquery.Selection }

func (m meter) SetWidth(p float64) {
	w := model.FormatNumber(p)
	m.sel.SetAttr("style", "width: "+w+"%")
	m.sel.SetAttr("aria-valuenow", w)
}

func (m meter) SetClass(s string) { m.sel.SetAttr("class", s) }

type list struct{ sel *goquery.Selection }

func (l list) Clear() { l.sel.Empty() }

func (l list) AppendItem(s, cls string) {
	li := element(atom.Li, cls)
	li.AppendChild(textNode(s))
	l.sel.AppendNodes(li)
}

type table struct{ sel *goquery.Selection }

func (t table) Clear() { t.sel.Empty() }

func (t table) AppendRow(cells ...string) {
	tr := element(atom.Tr, "")
	for _, c := range cells {
		td := element(atom.Td, "")
		td.AppendChild(textNode(c))
		tr.AppendChild(td)
	}
	t.sel.AppendNodes(tr)
}

// setText replaces an element's children with a single text node.
func setText(sel *goquery.Selection, s string) {
	sel.Empty()
	sel.AppendNodes(textNode(s))
}

func element(a atom.Atom, cls string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	if cls != "" {
		n.Attr = []html.Attribute{{Key: "class", Val: cls}}
	}
	return n
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
