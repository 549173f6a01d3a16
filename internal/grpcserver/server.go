package grpcserver

import (
	"context"
	"net/http"

	"github.com/hashicorp/go-hclog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"moviefinder/internal/tools"
)

const (
	ServiceName = "moviefinder.v1.ToolService"
	CallMethod  = "/" + ServiceName + "/Call"
)

// ToolServiceServer takes the same envelope POST /mcp/messages does and
// returns the same success body.
type ToolServiceServer interface {
	Call(ctx context.Context, req any) (any, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ToolServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Call", Handler: callHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "moviefinder/v1/tools",
}

func callHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	var in any
	if err := dec(&in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ToolServiceServer).Call(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: CallMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ToolServiceServer).Call(ctx, req)
	}
	return interceptor(ctx, in, info, handler)
}

type Server struct {
	Dispatcher *tools.Dispatcher
	Logger     hclog.Logger
}

func NewServer(d *tools.Dispatcher, logger hclog.Logger) *Server {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Server{Dispatcher: d, Logger: logger}
}

// New builds a grpc.Server with the tool service and panic recovery.
func New(d *tools.Dispatcher, logger hclog.Logger, opts ...grpc.ServerOption) *grpc.Server {
	svc := NewServer(d, logger)
	opts = append(opts, grpc.ChainUnaryInterceptor(svc.recoverUnary))
	gs := grpc.NewServer(opts...)
	gs.RegisterService(&ServiceDesc, svc)
	return gs
}

func (s *Server) Call(ctx context.Context, req any) (any, error) {
	call := tools.ParseEnvelope(req)

	res, err := s.Dispatcher.Dispatch(context.WithoutCancel(ctx), call)
	if err != nil {
		s.Logger.Error("tool call failed", "tool", call.Tool, "client_id", call.ClientID, "error", err)
		res = tools.ServerError(err)
	}
	return toStatus(res)
}

func toStatus(res tools.Result) (any, error) {
	if res.Status < http.StatusBadRequest {
		return res.Body, nil
	}

	code := codes.InvalidArgument
	if res.Status >= http.StatusInternalServerError {
		code = codes.Internal
	}

	msg := http.StatusText(res.Status)
	if e, ok := res.Body.(tools.ErrorResponse); ok {
		msg = e.Error
		switch {
		case e.Tool != "":
			msg += ": " + e.Tool
		case e.Details != "":
			msg += ": " + e.Details
		}
	}
	return nil, status.Error(code, msg)
}

func (s *Server) recoverUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.Logger.Error("panic in grpc handler", "method", info.FullMethod, "panic", r)
			resp, err = toStatus(tools.ServerError(r))
		}
	}()
	return handler(ctx, req)
}

// Invoke calls the tool service over conn with the JSON codec.
func Invoke(ctx context.Context, conn grpc.ClientConnInterface, req, reply any) error {
	return conn.Invoke(ctx, CallMethod, req, reply, grpc.CallContentSubtype(CodecName))
}
