package rules

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	serr "declutter/internal/errors"
	"declutter/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rulesYAML = `
rules:
  - id: archive-pdfs
    name: Archive PDFs
    enabled: true
    priority: 5
    when:
      extensions: [pdf]
    then:
      - type: move
        to: ~/Documents/PDFs
  - id: shots
    name: Screenshots
    enabled: false
    when:
      filename: '^Screenshot'
    then:
      - type: delete
        trash: true
`

const singleRuleYAML = `
id: lone
name: Lone rule
enabled: true
then:
  - type: skip
`

func writeRules(t *testing.T, content string) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return NewStore(path)
}

func TestLoadRulesFile(t *testing.T) {
	store := writeRules(t, rulesYAML)
	require.NoError(t, store.Load())

	all := store.Rules()
	require.Len(t, all, 2)
	assert.Equal(t, "archive-pdfs", all[0].ID)
	assert.Equal(t, uint(5), all[0].Priority)
	assert.Equal(t, types.MoveAction, all[0].Then[0].Type)
	assert.True(t, all[1].Then[0].Trash)

	enabled := store.Enabled()
	require.Len(t, enabled, 1)
	assert.Equal(t, "archive-pdfs", enabled[0].ID)
}

func TestLoadSingleRuleDocument(t *testing.T) {
	store := writeRules(t, singleRuleYAML)
	require.NoError(t, store.Load())

	all := store.Rules()
	require.Len(t, all, 1)
	assert.Equal(t, "lone", all[0].ID)
}

func TestLoadMissingFileYieldsEmptySet(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, store.Load())
	assert.Empty(t, store.Rules())
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	store := writeRules(t, `
rules:
  - id: bad
    name: Bad
    enabled: true
    surprise: field
    then:
      - type: skip
`)
	assert.Error(t, store.Load())
}

func TestValidate(t *testing.T) {
	base := func() types.Rule {
		return types.Rule{
			ID:      "ok",
			Name:    "Ok",
			Enabled: true,
			Then:    []types.Action{{Type: types.SkipAction}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*types.Rule)
		wantErr bool
	}{
		{"valid rule", func(r *types.Rule) {}, false},
		{"missing id", func(r *types.Rule) { r.ID = "" }, true},
		{"missing name", func(r *types.Rule) { r.Name = "" }, true},
		{"no actions", func(r *types.Rule) { r.Then = nil }, true},
		{"move without destination", func(r *types.Rule) {
			r.Then = []types.Action{{Type: types.MoveAction}}
		}, true},
		{"rename without template", func(r *types.Rule) {
			r.Then = []types.Action{{Type: types.RenameAction}}
		}, true},
		{"execute without command", func(r *types.Rule) {
			r.Then = []types.Action{{Type: types.ExecuteAction}}
		}, true},
		{"unknown action type", func(r *types.Rule) {
			r.Then = []types.Action{{Type: "compress"}}
		}, true},
		{"size min above max", func(r *types.Rule) {
			min, max := uint64(10), uint64(5)
			r.When.SizeKB = &types.SizeRange{MinKB: &min, MaxKB: &max}
		}, true},
		{"date from after to", func(r *types.Rule) {
			r.When.ModifiedDate = &types.DateRange{From: "2024-06-01", To: "2024-01-01"}
		}, true},
		{"malformed date bound", func(r *types.Rule) {
			r.When.CreatedDate = &types.DateRange{From: "June 1st"}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := base()
			tt.mutate(&rule)
			err := Validate([]types.Rule{rule})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateDuplicateIDs(t *testing.T) {
	rule := types.Rule{ID: "dup", Name: "Dup", Then: []types.Action{{Type: types.SkipAction}}}
	err := Validate([]types.Rule{rule, rule})
	require.Error(t, err)
	assert.True(t, serr.IsDuplicateRule(err))
}

func TestAddRemoveToggle(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "rules.yaml"))
	require.NoError(t, store.Load())

	rule := types.Rule{
		ID:      "new-rule",
		Name:    "New rule",
		Enabled: true,
		Then:    []types.Action{{Type: types.SkipAction}},
	}
	require.NoError(t, store.Add(rule))
	assert.Error(t, store.Add(rule), "duplicate id must be rejected")

	// Persisted: a fresh store sees the rule
	again := NewStore(store.path)
	require.NoError(t, again.Load())
	require.Len(t, again.Rules(), 1)

	require.NoError(t, store.SetEnabled("new-rule", false))
	found, ok := store.Find("new-rule")
	require.True(t, ok)
	assert.False(t, found.Enabled)
	assert.Empty(t, store.Enabled())

	require.NoError(t, store.Remove("new-rule"))
	assert.Empty(t, store.Rules())
	assert.Error(t, store.Remove("new-rule"))
}

func TestExportJSON(t *testing.T) {
	store := writeRules(t, rulesYAML)
	require.NoError(t, store.Load())

	var buf bytes.Buffer
	require.NoError(t, store.ExportJSON(&buf))

	var decoded types.RulesFile
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Rules, 2)
	assert.Equal(t, "archive-pdfs", decoded.Rules[0].ID)
}
