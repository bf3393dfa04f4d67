package model

import (
	"bytes"
	"encoding/json"
)

// Result is the verdict the analysis backend returns for one submitted URL.
// It lives for a single render and is never stored.
type Result struct {
	URL          string       `json:"url,omitempty"`
	Probability  float64      `json:"probability"`
	RiskLevel    string       `json:"risk_level"`
	IsPhishing   bool         `json:"is_phishing"`
	SafeBrowsing SafeBrowsing `json:"safe_browsing"`
	Features     Features     `json:"features"`
}

// SafeBrowsing is the threat-list portion of a Result.
type SafeBrowsing struct {
	IsSafe  bool     `json:"is_safe"`
	Threats []Threat `json:"threats"`
}

// Threat is a single flagged hazard.
type Threat struct {
	ThreatType      string `json:"threat_type"`
	PlatformType    string `json:"platform_type"`
	ThreatEntryType string `json:"threat_entry_type,omitempty"`
}

// Feature is one named scalar from the backend's feature extraction.
// Value holds float64, string, bool or nil.
type Feature struct {
	Name  string
	Value any
}

// Display returns the value the way it is shown in the feature table.
func (f Feature) Display() string {
	return FormatScalar(f.Value)
}

// Features keeps backend features in the order they appeared on the wire.
type Features []Feature

// Get returns the value for name and whether it exists.
func (fs Features) Get(name string) (any, bool) {
	for _, f := range fs {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Set replaces the value of an existing feature in place or appends a new one.
func (fs *Features) Set(name string, value any) {
	for i := range *fs {
		if (*fs)[i].Name == name {
			(*fs)[i].Value = value
			return
		}
	}
	*fs = append(*fs, Feature{Name: name, Value: value})
}

// MarshalJSON encodes features as a JSON object, preserving order.
func (fs Features) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fs {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
