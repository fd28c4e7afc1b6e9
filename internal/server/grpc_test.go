package server

import (
	"context"
	"net"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func dialBufconn(t *testing.T, s *Server) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	gs := grpc.NewServer()
	s.RegisterGRPC(gs)
	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func method(name string) string {
	return "/" + RobotServiceName + "/" + name
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func TestGRPCCreateListPatch(t *testing.T) {
	s, _ := newTestServer(t, nil)
	conn := dialBufconn(t, s)
	ctx := context.Background()

	created := &structpb.Struct{}
	err := conn.Invoke(ctx, method("CreateRobot"), mustStruct(t, map[string]any{"name": "Test Robot", "type": "Type ABC"}), created)
	require.NoError(t, err)
	id := created.AsMap()["id"].(string)
	assert.NotEmpty(t, id)
	assert.Equal(t, "idle", created.AsMap()["status"])
	assert.Equal(t, 1.0, testutil.ToFloat64(s.Metrics().RobotsAdded))

	list := &structpb.ListValue{}
	require.NoError(t, conn.Invoke(ctx, method("ListRobots"), &emptypb.Empty{}, list))
	require.Len(t, list.GetValues(), 1)
	assert.Equal(t, id, list.AsSlice()[0].(map[string]any)["id"])

	patched := &structpb.Struct{}
	req := mustStruct(t, map[string]any{"robot_id": id, "robot": map[string]any{"status": "busy"}})
	require.NoError(t, conn.Invoke(ctx, method("PatchRobot"), req, patched))
	assert.Equal(t, map[string]any{"id": id, "name": "Test Robot", "type": "Type ABC", "status": "busy"}, patched.AsMap())

	got := &structpb.Struct{}
	require.NoError(t, conn.Invoke(ctx, method("GetRobot"), wrapperspb.String(id), got))
	assert.Equal(t, "busy", got.AsMap()["status"])
}

func TestGRPCErrorCodes(t *testing.T) {
	s, _ := newTestServer(t, nil)
	conn := dialBufconn(t, s)
	ctx := context.Background()

	err := conn.Invoke(ctx, method("CreateRobot"), mustStruct(t, map[string]any{"name": "Test Robot"}), &structpb.Struct{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	assert.Contains(t, status.Convert(err).Message(), "Field required")

	err = conn.Invoke(ctx, method("CreateRobot"), mustStruct(t, map[string]any{"name": "a", "type": "b", "invalid": "invalid"}), &structpb.Struct{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	assert.Contains(t, status.Convert(err).Message(), "Extra inputs are not permitted")
	assert.Equal(t, 0.0, testutil.ToFloat64(s.Metrics().RobotsAdded))

	req := mustStruct(t, map[string]any{"robot_id": "abc123", "robot": map[string]any{"status": "busy"}})
	err = conn.Invoke(ctx, method("PatchRobot"), req, &structpb.Struct{})
	assert.Equal(t, codes.NotFound, status.Code(err))
	assert.Equal(t, "Robot not found", status.Convert(err).Message())

	err = conn.Invoke(ctx, method("PatchRobot"), mustStruct(t, map[string]any{}), &structpb.Struct{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	err = conn.Invoke(ctx, method("GetRobot"), wrapperspb.String(""), &structpb.Struct{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestGRPCHealth(t *testing.T) {
	s, _ := newTestServer(t, nil)
	conn := dialBufconn(t, s)

	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: RobotServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}
