package app

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/devghori1264/aerophoenix/robot-service/internal/api"
	"github.com/devghori1264/aerophoenix/robot-service/internal/metrics"
	"github.com/devghori1264/aerophoenix/robot-service/internal/models"
	"github.com/devghori1264/aerophoenix/robot-service/internal/server"
	"github.com/devghori1264/aerophoenix/robot-service/internal/storage"
)

func startAPI(t *testing.T) string {
	t.Helper()
	srv := server.New(storage.NewMemoryStore(), metrics.New(), nil, zap.NewNop())
	ts := httptest.NewServer(api.NewHTTPHandler(srv, nil, zap.NewNop()))
	t.Cleanup(ts.Close)
	return ts.URL
}

func execute(t *testing.T, url string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand(&out)
	cmd.SetArgs(append([]string{"--server", url}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func addRobot(t *testing.T, url string, args ...string) models.Robot {
	t.Helper()
	out, err := execute(t, url, append([]string{"-o", "json", "add"}, args...)...)
	require.NoError(t, err)
	var r models.Robot
	require.NoError(t, json.Unmarshal([]byte(out), &r), out)
	return r
}

func TestAddListGet(t *testing.T) {
	url := startAPI(t)

	r := addRobot(t, url, "--name", "Test Robot", "--type", "Type ABC")
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, "idle", r.Status)

	out, err := execute(t, url, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "STATUS")
	assert.Contains(t, out, r.ID)
	assert.Contains(t, out, "Test Robot")

	out, err = execute(t, url, "-o", "json", "list")
	require.NoError(t, err)
	var robots []models.Robot
	require.NoError(t, json.Unmarshal([]byte(out), &robots))
	assert.Equal(t, []models.Robot{r}, robots)

	out, err = execute(t, url, "-o", "json", "get", r.ID)
	require.NoError(t, err)
	var got models.Robot
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, r, got)
}

func TestListEmptyJSON(t *testing.T) {
	out, err := execute(t, startAPI(t), "-o", "json", "list")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)
}

func TestUpdateSendsOnlyChangedFlags(t *testing.T) {
	url := startAPI(t)
	r := addRobot(t, url, "--name", "Test Robot", "--type", "Type ABC")

	out, err := execute(t, url, "-o", "json", "update", r.ID, "--status", "busy")
	require.NoError(t, err)
	var got models.Robot
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, models.Robot{ID: r.ID, Name: "Test Robot", Type: "Type ABC", Status: "busy"}, got)

	_, err = execute(t, url, "update", r.ID)
	assert.ErrorContains(t, err, "nothing to update")
}

func TestCommandErrors(t *testing.T) {
	url := startAPI(t)

	_, err := execute(t, url, "get", "abc123")
	assert.ErrorContains(t, err, "Robot not found")

	_, err = execute(t, url, "add", "--name", "only-name")
	assert.Error(t, err, "--type is required")

	_, err = execute(t, url, "-o", "yaml", "list")
	assert.ErrorContains(t, err, "--output")
}

func TestExport(t *testing.T) {
	url := startAPI(t)
	a := addRobot(t, url, "--name", "a", "--type", "t1")
	b := addRobot(t, url, "--name", "b", "--type", "t2", "--status", "busy")
	path := filepath.Join(t.TempDir(), "robots.xlsx")

	out, err := execute(t, url, "export", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "exported 2 robots")

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, exportHeader, rows[0])
	assert.Equal(t, []string{a.ID, "a", "t1", "idle"}, rows[1])
	assert.Equal(t, []string{b.ID, "b", "t2", "busy"}, rows[2])
}
