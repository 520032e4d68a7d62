package logrotate

import "path"

const DefaultDirectory = "/etc/logrotate.d"

const (
	DefaultKeep = 7
)

type Frequency int

const (
	Daily Frequency = iota
	Weekly
	Monthly
	Yearly
)

var frequencies = map[string]Frequency{
	"daily":   Daily,
	"weekly":  Weekly,
	"monthly": Monthly,
	"yearly":  Yearly,
}

func (f Frequency) String() string {
	switch f {
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	case Yearly:
		return "yearly"
	default:
		return "daily"
	}
}

type Compression int

const (
	// compress
	CompressOn Compression = iota

	// compress + delaycompress
	CompressDelayed

	// nocompress
	CompressOff
)

func (c Compression) String() string {
	switch c {
	case CompressDelayed:
		return "delayed"
	case CompressOff:
		return "false"
	default:
		return "true"
	}
}

type ScriptSlot int

const (
	PreRotate ScriptSlot = iota
	PostRotate
	FirstAction
	LastAction
)

func (s ScriptSlot) String() string {
	switch s {
	case PostRotate:
		return "postrotate"
	case FirstAction:
		return "firstaction"
	case LastAction:
		return "lastaction"
	default:
		return "prerotate"
	}
}

type Script struct {
	Slot ScriptSlot
	Body string
}

// Rule is a normalized, validated logging rule. Build it with Normalize.
type Rule struct {
	Name string

	// absolute paths in declaration order, never empty
	Logs []string

	Compress  Compression
	Create    string
	Frequency Frequency
	Keep      int

	MissingOK     bool
	RotateIfEmpty bool
	SharedScripts bool

	// Scripts holds at most one script per slot, always in prerotate,
	// postrotate, firstaction, lastaction order regardless of declaration order.
	Scripts []Script
}

// Path returns the location of the rule's config file within dir.
func (r Rule) Path(dir string) string {
	if dir == "" {
		dir = DefaultDirectory
	}
	return path.Join(dir, r.Name)
}
