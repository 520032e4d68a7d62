package catalog

import (
	"fmt"
	"os"
	"time"
)

type Ensure string

const (
	EnsurePresent Ensure = "present"
)

const SystemPackage = "logrotate"

// PackageResource asks a package manager to bring a package to the Ensure state.
type PackageResource struct {
	Name   string `json:"name"`
	Ensure Ensure `json:"ensure"`
}

func (r PackageResource) Ref() string {
	return fmt.Sprintf("package[%s]", r.Name)
}

// System declares the package every host with rules needs.
func System() PackageResource {
	return PackageResource{Name: SystemPackage, Ensure: EnsurePresent}
}

// FileResource is a rendered rule waiting to be written to Path.
type FileResource struct {
	Rule    string
	Path    string
	Content string
	Mode    os.FileMode
}

func (r FileResource) Ref() string {
	return fmt.Sprintf("file[%s]", r.Path)
}

// InvalidRule is a rule rejected by validation. Its file is left as is.
type InvalidRule struct {
	Name string
	Err  error
}

type Catalog struct {
	Directory string

	Packages []PackageResource
	Files    []FileResource
	Invalid  []InvalidRule
}

type ResourceStatus string

const (
	StatusUnchanged ResourceStatus = "unchanged"
	StatusChanged   ResourceStatus = "changed"
	StatusRemoved   ResourceStatus = "removed"
	StatusFailed    ResourceStatus = "failed"
	StatusInvalid   ResourceStatus = "invalid"
)

type JournalEntry struct {
	Id int64 // identifier for DB

	RunId string

	ResourceType string // "file" or "package"
	ResourceName string // rule or package name
	Path         string
	Checksum     string // sha256 of written content

	Status ResourceStatus
	Error  string

	AppliedAt time.Time
}
