package services

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"jiracsvimporter/config"
	"jiracsvimporter/models"
)

func sampleResult() *models.ImportResult {
	result := models.NewImportResult()
	assignee := "bob"
	estimate := decimal.RequireFromString("3")
	result.AddIssue(models.Issue{
		Title:      "Fix bug",
		Status:     "Open",
		Priority:   2,
		URL:        "https://acme.atlassian.net/browse/PROJ-1",
		AssigneeID: &assignee,
		Labels:     []string{"Type: Bug"},
		Estimate:   &estimate,
	})
	result.AddLabel("Type: Bug")
	result.AddUser("bob")
	result.AddStatus("Open")
	return result
}

func TestWriteResult_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResult(&buf, sampleResult(), config.FormatJSON))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	issues := decoded["issues"].([]any)
	require.Len(t, issues, 1)
	issue := issues[0].(map[string]any)
	assert.Equal(t, "bob", issue["assigneeId"])
	assert.NotContains(t, issue, "description")
	assert.Contains(t, decoded["labels"], "Type: Bug")
}

func TestWriteResult_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResult(&buf, sampleResult(), config.FormatYAML))

	var decoded struct {
		Issues []struct {
			Title    string `yaml:"title"`
			Priority int    `yaml:"priority"`
		} `yaml:"issues"`
		Statuses map[string]models.Status `yaml:"statuses"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))

	require.Len(t, decoded.Issues, 1)
	assert.Equal(t, "Fix bug", decoded.Issues[0].Title)
	assert.Equal(t, 2, decoded.Issues[0].Priority)
	assert.Equal(t, "Open", decoded.Statuses["Open"].Name)
}

func TestWriteResult_UnsupportedFormat(t *testing.T) {
	err := WriteResult(&bytes.Buffer{}, sampleResult(), "xml")
	assert.ErrorIs(t, err, config.ErrUnsupportedFormat)
}

func TestWriteResultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")
	require.NoError(t, WriteResultFile(path, sampleResult(), config.FormatJSON))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"title": "Fix bug"`)
}
