package types

// ActionType defines what kind of operation a rule action performs
type ActionType string

const (
	// MoveAction moves a file to a target directory
	MoveAction ActionType = "move"
	// CopyAction copies a file to a target directory
	CopyAction ActionType = "copy"
	// RenameAction renames a file in place using a template
	RenameAction ActionType = "rename"
	// DeleteAction deletes a file, optionally via the trash
	DeleteAction ActionType = "delete"
	// ExecuteAction runs a specified command against the file
	ExecuteAction ActionType = "execute"
	// SkipAction leaves the file untouched
	SkipAction ActionType = "skip"
)

// Action defines a single action to be executed on a matched file.
// The fields that apply depend on Type: Move/Copy use To and
// PreserveStructure, Rename uses To as a name template, Delete uses
// Trash, Execute uses Command and Args. Skip carries nothing.
type Action struct {
	Type              ActionType `yaml:"type" json:"type"`
	To                string     `yaml:"to,omitempty" json:"to,omitempty"`
	PreserveStructure bool       `yaml:"preserve_structure,omitempty" json:"preserve_structure,omitempty"`
	Trash             bool       `yaml:"trash,omitempty" json:"trash,omitempty"`
	Command           string     `yaml:"command,omitempty" json:"command,omitempty"`
	Args              []string   `yaml:"args,omitempty" json:"args,omitempty"`
}

// SizeRange bounds a file size in whole kilobytes, inclusive.
// A nil bound is open: no Min means 0, no Max means unbounded.
type SizeRange struct {
	MinKB *uint64 `yaml:"min,omitempty" json:"min,omitempty"`
	MaxKB *uint64 `yaml:"max,omitempty" json:"max,omitempty"`
}

// DateRange bounds a date-only timestamp. Bounds are "YYYY-MM-DD"
// strings; a missing bound defaults to 1970-01-01 or 9999-12-31.
type DateRange struct {
	From string `yaml:"from,omitempty" json:"from,omitempty"`
	To   string `yaml:"to,omitempty" json:"to,omitempty"`
}

// MetadataField names one metadata key that must exist on the file,
// with an optional glob the value must match.
type MetadataField struct {
	Key   string `yaml:"key" json:"key"`
	Value string `yaml:"value,omitempty" json:"value,omitempty"`
}

// Conditions describes when a rule applies. Every sub-condition is
// optional; absent ones place no constraint. Any selects OR over the
// present sub-conditions instead of the default AND. The metadata
// list is AND-ed internally regardless of Any.
type Conditions struct {
	Any          bool            `yaml:"any,omitempty" json:"any,omitempty"`
	Filename     string          `yaml:"filename,omitempty" json:"filename,omitempty"`
	Extensions   []string        `yaml:"extensions,omitempty" json:"extensions,omitempty"`
	Path         string          `yaml:"path,omitempty" json:"path,omitempty"`
	SizeKB       *SizeRange      `yaml:"size_kb,omitempty" json:"size_kb,omitempty"`
	MimeType     string          `yaml:"mime_type,omitempty" json:"mime_type,omitempty"`
	CreatedDate  *DateRange      `yaml:"created_date,omitempty" json:"created_date,omitempty"`
	ModifiedDate *DateRange      `yaml:"modified_date,omitempty" json:"modified_date,omitempty"`
	IsSymlink    *bool           `yaml:"is_symlink,omitempty" json:"is_symlink,omitempty"`
	Metadata     []MetadataField `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

// Rule is a named, prioritized binding of conditions to an ordered
// action list. Higher Priority wins when several rules match a file;
// declaration order breaks ties.
type Rule struct {
	ID          string     `yaml:"id" json:"id"`
	Name        string     `yaml:"name" json:"name"`
	Enabled     bool       `yaml:"enabled" json:"enabled"`
	Priority    uint       `yaml:"priority,omitempty" json:"priority,omitempty"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty"`
	When        Conditions `yaml:"when,omitempty" json:"when,omitempty"`
	Then        []Action   `yaml:"then" json:"then"`
}

// RulesFile is the on-disk shape of a rule set.
type RulesFile struct {
	Rules []Rule `yaml:"rules" json:"rules"`
}
