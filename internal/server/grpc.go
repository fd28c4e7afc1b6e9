package server

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/devghori1264/aerophoenix/robot-service/internal/models"
	"github.com/devghori1264/aerophoenix/robot-service/internal/storage"
	"github.com/devghori1264/aerophoenix/robot-service/internal/validation"
)

// RobotServiceName is the fully qualified gRPC service name.
const RobotServiceName = "robot.v1.RobotService"

// RobotServiceServer is the gRPC contract. Messages are protobuf well-known
// types so no generated code is needed; robots travel as Struct values with
// the same fields as the HTTP JSON body.
type RobotServiceServer interface {
	ListRobots(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	GetRobot(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	CreateRobot(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// PatchRobot expects {"robot_id": <id>, "robot": {<partial fields>}}.
	PatchRobot(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var robotServiceDesc = grpc.ServiceDesc{
	ServiceName: RobotServiceName,
	HandlerType: (*RobotServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("ListRobots", RobotServiceServer.ListRobots),
		unary("GetRobot", RobotServiceServer.GetRobot),
		unary("CreateRobot", RobotServiceServer.CreateRobot),
		unary("PatchRobot", RobotServiceServer.PatchRobot),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "robot/v1/robot.proto",
}

func unary[Req, Resp any](name string, call func(RobotServiceServer, context.Context, *Req) (Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(RobotServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + RobotServiceName + "/" + name}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(srv.(RobotServiceServer), ctx, req.(*Req))
			})
		},
	}
}

// RegisterGRPC registers the robot service and the standard health service.
func (s *Server) RegisterGRPC(gs *grpc.Server) {
	gs.RegisterService(&robotServiceDesc, &grpcService{srv: s})

	hs := health.NewServer()
	hs.SetServingStatus(RobotServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(gs, hs)
}

// grpcService adapts Server to RobotServiceServer.
type grpcService struct {
	srv *Server
}

var _ RobotServiceServer = (*grpcService)(nil)

func (g *grpcService) ListRobots(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	robots, err := g.srv.ListRobots(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	values := make([]any, 0, len(robots))
	for _, r := range robots {
		values = append(values, r.Map())
	}
	out, err := structpb.NewList(values)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func (g *grpcService) GetRobot(ctx context.Context, in *wrapperspb.StringValue) (*structpb.Struct, error) {
	if in.GetValue() == "" {
		return nil, toStatus(validation.NewError([]validation.FieldError{validation.Missing("robot_id")}))
	}
	r, err := g.srv.GetRobot(ctx, in.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}
	return robotStruct(r)
}

func (g *grpcService) CreateRobot(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := validation.Create(in.AsMap())
	if err != nil {
		return nil, toStatus(err)
	}
	r, err := g.srv.CreateRobot(ctx, req)
	if err != nil {
		return nil, toStatus(err)
	}
	return robotStruct(r)
}

func (g *grpcService) PatchRobot(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	fields := in.GetFields()
	var errs []validation.FieldError

	id := fields["robot_id"].GetStringValue()
	if id == "" {
		errs = append(errs, validation.Missing("robot_id"))
	}
	var patch models.RobotPatch
	body, ok := fields["robot"]
	if !ok {
		errs = append(errs, validation.Missing("robot"))
	} else {
		var err error
		patch, err = validation.Patch(body.AsInterface())
		if fe, isValidation := validation.AsError(err); isValidation {
			errs = append(errs, fe...)
		}
	}
	if err := validation.NewError(errs); err != nil {
		return nil, toStatus(err)
	}

	r, err := g.srv.PatchRobot(ctx, id, patch)
	if err != nil {
		return nil, toStatus(err)
	}
	return robotStruct(r)
}

func robotStruct(r models.Robot) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(r.Map())
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func toStatus(err error) error {
	if _, ok := validation.AsError(err); ok {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	if errors.Is(err, storage.ErrNotFound) {
		return status.Error(codes.NotFound, "Robot not found")
	}
	return status.Error(codes.Internal, err.Error())
}
