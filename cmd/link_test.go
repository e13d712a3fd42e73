package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/chriserin/ftl/internal/ui"
)

func TestLink_Success(t *testing.T) {
	inTempDir(t)
	writeProject(t)

	var buf bytes.Buffer
	require.NoError(t, RunLink(context.Background(), &buf, testConfig(t), "text"))

	assert.Contains(t, buf.String(), "linked 2 files: 3 bound, 0 unbound")
}

func TestLink_DoesNotNeedIndex(t *testing.T) {
	inTempDir(t)
	writeProject(t)

	var buf bytes.Buffer
	require.NoError(t, RunLink(context.Background(), &buf, testConfig(t), "text"))

	assert.NoFileExists(t, "fts/ftl.db")
}

func TestLink_FailureReturnsError(t *testing.T) {
	inTempDir(t)
	writeProject(t)
	writeFile(t, "fts/broken.ft", brokenFeature)

	var buf bytes.Buffer
	err := RunLink(context.Background(), &buf, testConfig(t), "text")

	assert.ErrorIs(t, err, ErrLinkFailed)
	assert.Contains(t, buf.String(), "did you mean 'Given I open the login page'?")
}

func TestLink_Paths(t *testing.T) {
	inTempDir(t)
	writeProject(t)
	writeFile(t, "other/click.ft", "Feature: Click\n  Scenario: Once\n    When I click the button\n")

	var buf bytes.Buffer
	require.NoError(t, RunLink(context.Background(), &buf, testConfig(t), "text", "other"))

	assert.Contains(t, buf.String(), "other/click.ft  1 bound")
	assert.NotContains(t, buf.String(), "fts/login.ft")
}

func TestLink_YAML(t *testing.T) {
	inTempDir(t)
	writeProject(t)
	writeFile(t, "fts/broken.ft", brokenFeature)

	var buf bytes.Buffer
	err := RunLink(context.Background(), &buf, testConfig(t), "yaml")
	require.ErrorIs(t, err, ErrLinkFailed)

	var report ui.YAMLReport
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &report))
	assert.False(t, report.Success)
	assert.Equal(t, 3, report.Files)
	assert.Equal(t, 3, report.Bound)
	assert.Equal(t, 1, report.Unbound)

	require.Len(t, report.Messages, 1)
	msg := report.Messages[0]
	assert.Equal(t, "fts/broken.ft", msg.Source)
	assert.Equal(t, "FTL20001", msg.Code)
	assert.Equal(t, "error", msg.Severity)
	assert.Contains(t, msg.Hints, "Given I open the login page")

	require.Len(t, report.Results, 3)
	login := report.Results[1]
	assert.Equal(t, "fts/login.ft", login.Path)
	require.Len(t, login.Steps, 2)
	assert.Equal(t, "bound", login.Steps[0].Status)
	assert.Equal(t, "Given I log in as {user}", login.Steps[0].Definition)
	assert.Equal(t, map[string]string{"user": "admin"}, login.Steps[0].Arguments)
}

func TestLink_UnknownFormat(t *testing.T) {
	inTempDir(t)

	var buf bytes.Buffer
	err := RunLink(context.Background(), &buf, testConfig(t), "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown format "json"`)
}
