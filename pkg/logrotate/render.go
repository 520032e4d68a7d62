package logrotate

import (
	"bytes"
	"strconv"
	"strings"
)

// Header starts every generated file. Files without it are never touched.
const Header = "# THIS FILE IS AUTOMATICALLY DISTRIBUTED BY LOGROTATED\n" +
	"# ANY LOCAL CHANGES WILL BE OVERWRITTEN, DO NOT EDIT IT BY HAND\n"

func IsGenerated(content []byte) bool {
	return bytes.HasPrefix(content, []byte(Header))
}

// RenderParams normalizes params and renders them. Nothing is rendered for invalid params.
func RenderParams(name string, p Params) (string, error) {
	rule, err := Normalize(name, p)
	if err != nil {
		return "", err
	}

	return Render(rule), nil
}

// Render returns a logrotate stanza for the rule.
func Render(rule Rule) string {
	var b strings.Builder

	b.WriteString(Header)
	b.WriteString("\n")

	b.WriteString(strings.Join(rule.Logs, " "))
	b.WriteString(" {\n")

	switch rule.Compress {
	case CompressOn:
		directive(&b, "compress")
	case CompressDelayed:
		directive(&b, "compress")
		directive(&b, "delaycompress")
	case CompressOff:
		directive(&b, "nocompress")
	}

	directive(&b, rule.Frequency.String())
	directive(&b, "rotate "+strconv.Itoa(rule.Keep))

	directive(&b, pick(rule.MissingOK, "missingok", "nomissingok"))
	directive(&b, pick(rule.RotateIfEmpty, "ifempty", "notifempty"))
	directive(&b, pick(rule.SharedScripts, "sharedscripts", "nosharedscripts"))

	if rule.Create != "" {
		directive(&b, "create "+rule.Create)
	}

	for _, s := range rule.Scripts {
		directive(&b, s.Slot.String())
		for _, line := range strings.Split(strings.TrimRight(s.Body, "\n"), "\n") {
			b.WriteString("\t\t")
			b.WriteString(line)
			b.WriteString("\n")
		}
		directive(&b, "endscript")
	}

	b.WriteString("}\n")

	return b.String()
}

func directive(b *strings.Builder, d string) {
	b.WriteString("\t")
	b.WriteString(d)
	b.WriteString("\n")
}

func pick(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}
