// Package render maps an analysis verdict onto a fixed set of view targets.
// The mapping is total and deterministic: the same Result always produces the
// same view, and each render replaces everything the previous one wrote.
package render

import (
	"github.com/raysh454/phishview/internal/model"
)

// Tier is the three-way risk band shared by the meter colour and narrative.
type Tier int

const (
	TierLow Tier = iota
	TierElevated
	TierHigh
)

// Band boundaries, inclusive on the low side.
const (
	ElevatedThreshold = 20.0
	HighThreshold     = 60.0
)

const (
	ClassMeterLow      = "progress-bar bg-success"
	ClassMeterElevated = "progress-bar bg-warning"
	ClassMeterHigh     = "progress-bar bg-danger"

	ClassAlertPhishing = "alert phishing"
	ClassAlertSafe     = "alert safe"

	ClassThreatItem = "list-group-item list-group-item-danger"
)

const (
	HeadingPhishing = "Potential Phishing URL Detected"
	HeadingSafe     = "URL Appears Safe"

	NarrativeLow      = "This URL shows few or no indicators of being a phishing site."
	NarrativeElevated = "This URL shows some indicators of being a phishing site. Proceed with caution."
	NarrativeHigh     = "This URL shows strong indicators of being a phishing site. We recommend not visiting this site."

	SafeBrowsingClean  = "This URL is not on Google Safe Browsing's list of dangerous sites."
	SafeBrowsingListed = "This URL is on Google Safe Browsing's list of dangerous sites:"
)

// TierFor places p in its band.
func TierFor(p float64) Tier {
	switch {
	case p < ElevatedThreshold:
		return TierLow
	case p < HighThreshold:
		return TierElevated
	default:
		return TierHigh
	}
}

func (t Tier) String() string {
	switch t {
	case TierLow:
		return "low"
	case TierElevated:
		return "elevated"
	default:
		return "high"
	}
}

// MeterClass returns the class list for the risk meter at probability p.
func MeterClass(p float64) string {
	switch TierFor(p) {
	case TierLow:
		return ClassMeterLow
	case TierElevated:
		return ClassMeterElevated
	default:
		return ClassMeterHigh
	}
}

// RiskNarrative returns the explanatory sentence for probability p.
func RiskNarrative(p float64) string {
	switch TierFor(p) {
	case TierLow:
		return NarrativeLow
	case TierElevated:
		return NarrativeElevated
	default:
		return NarrativeHigh
	}
}

// VerdictMessage returns the banner sentence. Phishing verdicts quote p,
// safe verdicts quote 100-p, both to one decimal place.
func VerdictMessage(isPhishing bool, p float64) string {
	if isPhishing {
		return "This URL has been identified as a potential phishing site with " +
			model.FormatFixed1(p) + "% confidence."
	}
	return "This URL appears to be safe with " + model.FormatFixed1(100-p) + "% confidence."
}

// ThreatLabel renders a threat as "TYPE (PLATFORM)".
func ThreatLabel(t model.Threat) string {
	return t.ThreatType + " (" + t.PlatformType + ")"
}

// Renderer writes results into a fixed set of targets.
type Renderer struct {
	t Targets
}

// NewRenderer checks that every target is present.
func NewRenderer(t Targets) (*Renderer, error) {
	if names := t.missing(); len(names) > 0 {
		return nil, &MissingTargetsError{Names: names}
	}
	return &Renderer{t: t}, nil
}

// Render replaces the whole view with res. A nil res is ignored.
func (r *Renderer) Render(res *model.Result) {
	if res == nil {
		return
	}
	t := r.t
	p := res.Probability

	t.Container.Show()

	t.Meter.SetWidth(p)
	t.Meter.SetClass(MeterClass(p))
	t.RiskLevel.SetText(res.RiskLevel)

	if res.IsPhishing {
		t.Alert.SetClass(ClassAlertPhishing)
		t.Heading.SetText(HeadingPhishing)
	} else {
		t.Alert.SetClass(ClassAlertSafe)
		t.Heading.SetText(HeadingSafe)
	}
	t.Message.SetText(VerdictMessage(res.IsPhishing, p))

	t.RiskDetails.SetText(RiskNarrative(p))

	t.ThreatList.Clear()
	if res.SafeBrowsing.IsSafe {
		t.SafeBrowsingMessage.SetText(SafeBrowsingClean)
	} else {
		t.SafeBrowsingMessage.SetText(SafeBrowsingListed)
		for _, threat := range res.SafeBrowsing.Threats {
			t.ThreatList.AppendItem(ThreatLabel(threat), ClassThreatItem)
		}
	}

	t.FeatureTable.Clear()
	for _, f := range res.Features {
		t.FeatureTable.AppendRow(f.Name, f.Display())
	}
}
