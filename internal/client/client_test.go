package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/devghori1264/aerophoenix/robot-service/internal/api"
	"github.com/devghori1264/aerophoenix/robot-service/internal/metrics"
	"github.com/devghori1264/aerophoenix/robot-service/internal/models"
	"github.com/devghori1264/aerophoenix/robot-service/internal/server"
	"github.com/devghori1264/aerophoenix/robot-service/internal/storage"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	srv := server.New(storage.NewMemoryStore(), metrics.New(), nil, zap.NewNop())
	ts := httptest.NewServer(api.NewHTTPHandler(srv, nil, zap.NewNop()))
	t.Cleanup(ts.Close)
	return New(ts.URL, 5*time.Second, zap.NewNop())
}

func strPtr(s string) *string { return &s }

func TestClientRoundTrip(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	robots, err := c.ListRobots(ctx)
	require.NoError(t, err)
	assert.Empty(t, robots)

	created, err := c.CreateRobot(ctx, models.RobotCreate{Name: "Test Robot", Type: "Type ABC"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "idle", created.Status)

	got, err := c.GetRobot(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	patched, err := c.PatchRobot(ctx, created.ID, models.RobotPatch{Status: strPtr("busy")})
	require.NoError(t, err)
	assert.Equal(t, models.Robot{ID: created.ID, Name: "Test Robot", Type: "Type ABC", Status: "busy"}, patched)

	robots, err = c.ListRobots(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Robot{patched}, robots)
}

func TestClientErrors(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.GetRobot(ctx, "abc123")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "Robot not found")

	_, err = c.CreateRobot(ctx, models.RobotCreate{Name: "Test Robot"})
	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	require.NotEmpty(t, apiErr.Fields)
	assert.Equal(t, "string_too_short", apiErr.Fields[0].Type)
}

func TestClientTransportError(t *testing.T) {
	c := New("http://127.0.0.1:1", time.Second, zap.NewNop())

	_, err := c.ListRobots(context.Background())
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
}
