package logrotate

import (
	"math"
	"strconv"
	"strings"
)

// Params is a parameter set of a single rule as it comes from configuration.
// Loosely typed fields are resolved by Normalize.
type Params struct {
	// string or list of strings
	Logs interface{} `mapstructure:"logs" yaml:"logs"`

	// true, false or "delayed"
	Compress interface{} `mapstructure:"compress" yaml:"compress"`

	Create    string `mapstructure:"create" yaml:"create"`
	Frequency string `mapstructure:"frequency" yaml:"frequency"`

	// positive integer
	Keep interface{} `mapstructure:"keep" yaml:"keep"`

	MissingOK     *bool `mapstructure:"missingok" yaml:"missingok"`
	RotateIfEmpty *bool `mapstructure:"rotate_if_empty" yaml:"rotate_if_empty"`
	SharedScripts *bool `mapstructure:"sharedscripts" yaml:"sharedscripts"`

	PreRotateScript   string `mapstructure:"prerotate_script" yaml:"prerotate_script"`
	PostRotateScript  string `mapstructure:"postrotate_script" yaml:"postrotate_script"`
	FirstActionScript string `mapstructure:"firstaction_script" yaml:"firstaction_script"`
	LastActionScript  string `mapstructure:"lastaction_script" yaml:"lastaction_script"`
}

// Normalize applies defaults to params and validates them. The first failing
// check is reported as *ConfigError.
func Normalize(name string, p Params) (Rule, error) {
	rule := Rule{
		Name:          name,
		Create:        p.Create,
		MissingOK:     boolOr(p.MissingOK, true),
		RotateIfEmpty: boolOr(p.RotateIfEmpty, true),
		SharedScripts: boolOr(p.SharedScripts, false),
	}

	if !validName(name) {
		return Rule{}, &ConfigError{Rule: name, Field: "name", Value: name, Kind: InvalidValue}
	}

	logs, ok := normalizeLogs(p.Logs)
	if !ok || len(logs) == 0 {
		return Rule{}, &ConfigError{Rule: name, Field: "logs", Value: p.Logs, Kind: MissingRequiredField}
	}
	rule.Logs = logs

	rule.Frequency = Daily
	if p.Frequency != "" {
		f, ok := frequencies[p.Frequency]
		if !ok {
			return Rule{}, &ConfigError{Rule: name, Field: "frequency", Value: p.Frequency, Kind: InvalidEnumValue}
		}
		rule.Frequency = f
	}

	compress, ok := normalizeCompress(p.Compress)
	if !ok {
		return Rule{}, &ConfigError{Rule: name, Field: "compress", Value: p.Compress, Kind: InvalidEnumValue}
	}
	rule.Compress = compress

	keep, ok := normalizeKeep(p.Keep)
	if !ok {
		return Rule{}, &ConfigError{Rule: name, Field: "keep", Value: p.Keep, Kind: InvalidValue}
	}
	rule.Keep = keep

	for _, s := range []Script{
		{Slot: PreRotate, Body: p.PreRotateScript},
		{Slot: PostRotate, Body: p.PostRotateScript},
		{Slot: FirstAction, Body: p.FirstActionScript},
		{Slot: LastAction, Body: p.LastActionScript},
	} {
		if s.Body != "" {
			rule.Scripts = append(rule.Scripts, s)
		}
	}

	return rule, nil
}

// Name becomes a file name inside the config directory.
func validName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, "/\\\x00")
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func normalizeLogs(v interface{}) ([]string, bool) {
	var logs []string

	switch t := v.(type) {
	case nil:
		return nil, true
	case string:
		if t != "" {
			logs = append(logs, t)
		}
	case []string:
		for _, s := range t {
			if s != "" {
				logs = append(logs, s)
			}
		}
	case []interface{}:
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			if s != "" {
				logs = append(logs, s)
			}
		}
	default:
		return nil, false
	}

	return logs, true
}

func normalizeCompress(v interface{}) (Compression, bool) {
	switch t := v.(type) {
	case nil:
		return CompressOn, true
	case bool:
		if t {
			return CompressOn, true
		}
		return CompressOff, true
	case string:
		switch strings.ToLower(t) {
		case "", "true":
			return CompressOn, true
		case "false":
			return CompressOff, true
		case "delayed":
			return CompressDelayed, true
		}
	}

	return 0, false
}

func normalizeKeep(v interface{}) (int, bool) {
	var n int64

	switch t := v.(type) {
	case nil:
		return DefaultKeep, true
	case int:
		n = int64(t)
	case int64:
		n = t
	case uint64:
		if t > math.MaxInt32 {
			return 0, false
		}
		n = int64(t)
	case float64:
		if t != math.Trunc(t) {
			return 0, false
		}
		n = int64(t)
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}

	if n <= 0 || n > math.MaxInt32 {
		return 0, false
	}

	return int(n), true
}
