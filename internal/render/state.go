package render

// Item is one rendered list entry.
type Item struct {
	Text  string `json:"text"`
	Class string `json:"class"`
}

// State is an in-memory view: every target the renderer knows about, held as
// plain values. It backs the CLI, JSON and websocket outputs. A State is not
// safe for concurrent use.
type State struct {
	Visible             bool       `json:"visible"`
	MeterWidth          float64    `json:"meter_width"`
	MeterClass          string     `json:"meter_class"`
	RiskLevel           string     `json:"risk_level"`
	AlertClass          string     `json:"alert_class"`
	Heading             string     `json:"heading"`
	Message             string     `json:"message"`
	RiskDetails         string     `json:"risk_details"`
	SafeBrowsingMessage string     `json:"safe_browsing_message"`
	Threats             []Item     `json:"threats"`
	Features            [][]string `json:"features"`
}

// NewState returns an empty, hidden view.
func NewState() *State {
	return &State{Threats: []Item{}, Features: [][]string{}}
}

// Targets binds every render target to a field of s.
func (s *State) Targets() Targets {
	return Targets{
		Container:           stateVisibility{s},
		Meter:               stateMeter{s},
		RiskLevel:           stateText{&s.RiskLevel},
		Alert:               stateClass{&s.AlertClass},
		Heading:             stateText{&s.Heading},
		Message:             stateText{&s.Message},
		RiskDetails:         stateText{&s.RiskDetails},
		SafeBrowsingMessage: stateText{&s.SafeBrowsingMessage},
		ThreatList:          stateList{s},
		FeatureTable:        stateTable{s},
	}
}

// Renderer returns a Renderer writing into s. It cannot fail because every
// target is bound.
func (s *State) Renderer() *Renderer {
	return &Renderer{t: s.Targets()}
}

// Snapshot returns a deep copy of s.
func (s *State) Snapshot() State {
	out := *s
	out.Threats = append([]Item{}, s.Threats...)
	out.Features = make([][]string, len(s.Features))
	for i, row := range s.Features {
		out.Features[i] = append([]string(nil), row...)
	}
	return out
}

type stateText struct{ dst *string }

func (t stateText) SetText(s string) { *t.dst = s }

type stateClass struct{ dst *string }

func (c stateClass) SetClass(s string) { *c.dst = s }

type stateVisibility struct{ s *State }

func (v stateVisibility) Show() { v.s.Visible = true }
func (v stateVisibility) Hide() { v.s.Visible = false }

type stateMeter struct{ s *State }

func (m stateMeter) SetWidth(p float64)    { m.s.MeterWidth = p }
func (m stateMeter) SetClass(class string) { m.s.MeterClass = class }

type stateList struct{ s *State }

func (l stateList) Clear() { l.s.Threats = []Item{} }
func (l stateList) AppendItem(text, class string) {
	l.s.Threats = append(l.s.Threats, Item{Text: text, Class: class})
}

type stateTable struct{ s *State }

func (t stateTable) Clear() { t.s.Features = [][]string{} }
func (t stateTable) AppendRow(cells ...string) {
	t.s.Features = append(t.s.Features, append([]string(nil), cells...))
}
