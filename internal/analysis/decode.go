package analysis

import (
	"errors"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/raysh454/phishview/internal/model"
)

var errNotJSON = errors.New("body is not valid JSON")

// Decode validates body against the Analysis Result shape and returns the
// parsed value. Bodies that are not JSON at all yield a *TransportError of
// KindMalformed; JSON of the wrong shape yields a *SchemaError. Nothing is
// returned partially filled.
func Decode(body []byte) (*model.Result, error) {
	if !gjson.ValidBytes(body) {
		return nil, &TransportError{Kind: KindMalformed, Err: errNotJSON}
	}

	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, &SchemaError{Field: "$", Reason: "expected object, got " + typeName(root)}
	}

	res := &model.Result{}

	prob, err := requireType(root, "probability", gjson.Number)
	if err != nil {
		return nil, err
	}
	res.Probability = prob.Float()
	if res.Probability < 0 || res.Probability > 100 {
		return nil, &SchemaError{Field: "probability", Reason: "out of range [0,100]: " + prob.Raw}
	}

	level, err := requireType(root, "risk_level", gjson.String)
	if err != nil {
		return nil, err
	}
	res.RiskLevel = level.String()

	phishing, err := requireBool(root, "is_phishing")
	if err != nil {
		return nil, err
	}
	res.IsPhishing = phishing

	if u := root.Get("url"); u.Exists() {
		if u.Type != gjson.String {
			return nil, &SchemaError{Field: "url", Reason: "expected string, got " + typeName(u)}
		}
		res.URL = u.String()
	}

	if err := decodeSafeBrowsing(root, res); err != nil {
		return nil, err
	}

	if err := decodeFeatures(root, res); err != nil {
		return nil, err
	}

	return res, nil
}

func decodeSafeBrowsing(root gjson.Result, res *model.Result) error {
	sb := root.Get("safe_browsing")
	if !sb.Exists() {
		return &SchemaError{Field: "safe_browsing", Reason: "missing"}
	}
	if !sb.IsObject() {
		return &SchemaError{Field: "safe_browsing", Reason: "expected object, got " + typeName(sb)}
	}

	safe, err := requireBool(sb, "is_safe")
	if err != nil {
		return prefixed("safe_browsing", err)
	}
	res.SafeBrowsing.IsSafe = safe
	res.SafeBrowsing.Threats = []model.Threat{}

	// A clean bill never lists threats, so their shape is irrelevant.
	if safe {
		return nil
	}

	threats := sb.Get("threats")
	if !threats.Exists() {
		return &SchemaError{Field: "safe_browsing.threats", Reason: "missing"}
	}
	if !threats.IsArray() {
		return &SchemaError{Field: "safe_browsing.threats", Reason: "expected array, got " + typeName(threats)}
	}

	for i, item := range threats.Array() {
		path := "safe_browsing.threats." + strconv.Itoa(i)
		if !item.IsObject() {
			return &SchemaError{Field: path, Reason: "expected object, got " + typeName(item)}
		}
		tt, err := requireType(item, "threat_type", gjson.String)
		if err != nil {
			return prefixed(path, err)
		}
		pt, err := requireType(item, "platform_type", gjson.String)
		if err != nil {
			return prefixed(path, err)
		}
		threat := model.Threat{ThreatType: tt.String(), PlatformType: pt.String()}
		if et := item.Get("threat_entry_type"); et.Type == gjson.String {
			threat.ThreatEntryType = et.String()
		}
		res.SafeBrowsing.Threats = append(res.SafeBrowsing.Threats, threat)
	}
	return nil
}

func decodeFeatures(root gjson.Result, res *model.Result) error {
	features := root.Get("features")
	if !features.Exists() {
		return &SchemaError{Field: "features", Reason: "missing"}
	}
	if !features.IsObject() {
		return &SchemaError{Field: "features", Reason: "expected object, got " + typeName(features)}
	}

	res.Features = model.Features{}
	var schemaErr error
	features.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		switch value.Type {
		case gjson.Number:
			res.Features.Set(name, value.Float())
		case gjson.String:
			res.Features.Set(name, value.String())
		case gjson.True, gjson.False:
			res.Features.Set(name, value.Bool())
		case gjson.Null:
			res.Features.Set(name, nil)
		default:
			schemaErr = &SchemaError{Field: "features." + name, Reason: "expected scalar, got " + typeName(value)}
			return false
		}
		return true
	})
	return schemaErr
}

func requireType(obj gjson.Result, field string, want gjson.Type) (gjson.Result, error) {
	v := obj.Get(field)
	if !v.Exists() {
		return v, &SchemaError{Field: field, Reason: "missing"}
	}
	if v.Type != want {
		return v, &SchemaError{Field: field, Reason: "expected " + typeLabel(want) + ", got " + typeName(v)}
	}
	return v, nil
}

func requireBool(obj gjson.Result, field string) (bool, error) {
	v := obj.Get(field)
	if !v.Exists() {
		return false, &SchemaError{Field: field, Reason: "missing"}
	}
	if v.Type != gjson.True && v.Type != gjson.False {
		return false, &SchemaError{Field: field, Reason: "expected boolean, got " + typeName(v)}
	}
	return v.Bool(), nil
}

func prefixed(prefix string, err error) error {
	var se *SchemaError
	if errors.As(err, &se) {
		return &SchemaError{Field: prefix + "." + se.Field, Reason: se.Reason}
	}
	return err
}

func typeName(v gjson.Result) string {
	switch {
	case !v.Exists():
		return "nothing"
	case v.IsObject():
		return "object"
	case v.IsArray():
		return "array"
	case v.Type == gjson.True || v.Type == gjson.False:
		return "boolean"
	}
	return typeLabel(v.Type)
}

func typeLabel(t gjson.Type) string {
	switch t {
	case gjson.Number:
		return "number"
	case gjson.String:
		return "string"
	case gjson.Null:
		return "null"
	case gjson.True, gjson.False:
		return "boolean"
	default:
		return "json"
	}
}
