package render

import (
	"fmt"
	"strings"
)

// Text is any element whose text content can be replaced.
type Text interface {
	SetText(s string)
}

// Class is any element whose class attribute can be replaced.
type Class interface {
	SetClass(class string)
}

// Visibility toggles whether an element is displayed.
type Visibility interface {
	Show()
	Hide()
}

// Meter is the risk gauge: a bounded width plus a colour class.
type Meter interface {
	SetWidth(percent float64)
	SetClass(class string)
}

// List is an element that holds a flat list of items.
type List interface {
	Clear()
	AppendItem(text, class string)
}

// Table is an element that holds rows of text cells.
type Table interface {
	Clear()
	AppendRow(cells ...string)
}

// Targets are the render destinations a Renderer writes to. Every field is
// required.
type Targets struct {
	Container           Visibility
	Meter               Meter
	RiskLevel           Text
	Alert               Class
	Heading             Text
	Message             Text
	RiskDetails         Text
	SafeBrowsingMessage Text
	ThreatList          List
	FeatureTable        Table
}

// MissingTargetsError lists every required target that was not supplied.
type MissingTargetsError struct {
	Names []string
}

func (e *MissingTargetsError) Error() string {
	return fmt.Sprintf("missing render targets: %s", strings.Join(e.Names, ", "))
}

func (t Targets) missing() []string {
	var out []string
	check := func(name string, ok bool) {
		if !ok {
			out = append(out, name)
		}
	}
	check("container", t.Container != nil)
	check("meter", t.Meter != nil)
	check("risk_level", t.RiskLevel != nil)
	check("alert", t.Alert != nil)
	check("heading", t.Heading != nil)
	check("message", t.Message != nil)
	check("risk_details", t.RiskDetails != nil)
	check("safe_browsing_message", t.SafeBrowsingMessage != nil)
	check("threat_list", t.ThreatList != nil)
	check("feature_table", t.FeatureTable != nil)
	return out
}
