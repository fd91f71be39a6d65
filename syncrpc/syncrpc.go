// Package syncrpc implements the external synchronization routine behind the
// sync-expenses deferred-sync tag: a small gRPC service that receives batches
// of pending expense records, and a client that drains a durable queue and
// transmits it with its own retry policy.
//
// It uses [grpc.ServiceDesc] registration so that no protobuf code generation
// is required. Because the request/response types are plain Go structs (not
// generated protobuf messages), the package registers a thin codec wrapper
// that JSON-encodes sync types while delegating all other messages to the
// standard proto codec. Import this package (or call [Register]) to activate
// the codec automatically.
package syncrpc

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/grpc"
	grpcEncoding "google.golang.org/grpc/encoding"
	_ "google.golang.org/grpc/encoding/proto" // ensure default proto codec is registered first
	"google.golang.org/protobuf/proto"
)

// fullMethod is the wire path of the Sync RPC.
const fullMethod = "/nuthoard.ExpenseSync/Sync"

// Expense is one durable pending write awaiting transmission.
type Expense struct {
	ID           string `json:"id"`
	Category     string `json:"category"`
	AmountCents  int64  `json:"amount_cents"`
	RecordedUnix int64  `json:"recorded_unix"`
}

// SyncRequest is the input for the Sync method.
type SyncRequest struct {
	Tag      string    `json:"tag"`
	Expenses []Expense `json:"expenses"`
}

// SyncResponse is the output of the Sync method.
type SyncResponse struct {
	Accepted       int   `json:"accepted"`
	ServerTimeUnix int64 `json:"server_time_unix"`
}

// syncMsg is a marker interface satisfied by SyncRequest and SyncResponse.
type syncMsg interface {
	isSyncMsg()
}

func (*SyncRequest) isSyncMsg()  {}
func (*SyncResponse) isSyncMsg() {}

// Handler is the interface a sync service implementation must satisfy.
type Handler interface {
	Sync(ctx context.Context, req *SyncRequest) (*SyncResponse, error)
}

// AcceptAllHandler returns a Handler that accepts every transmitted expense
// and attaches the current server time. Useful for demos and tests.
func AcceptAllHandler() Handler { return acceptAll{} }

type acceptAll struct{}

func (acceptAll) Sync(_ context.Context, req *SyncRequest) (*SyncResponse, error) {
	return &SyncResponse{
		Accepted:       len(req.Expenses),
		ServerTimeUnix: time.Now().Unix(),
	}, nil
}

// ServiceDesc is the grpc.ServiceDesc for the nuthoard.ExpenseSync service.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: "nuthoard.ExpenseSync",
	HandlerType: (*Handler)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Sync",
			Handler:    syncHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "nuthoard/expensesync.proto",
}

func syncHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := new(SyncRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(Handler).Sync(ctx, req)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: fullMethod,
	}
	handler := func(ctx context.Context, r any) (any, error) {
		return srv.(Handler).Sync(ctx, r.(*SyncRequest))
	}
	return interceptor(ctx, req, info, handler)
}

// Register registers a sync service implementation on the given gRPC server.
func Register(s *grpc.Server, h Handler) {
	s.RegisterService(&ServiceDesc, h)
}

// ---------- codec wrapper ----------

func init() {
	// Replace the default proto codec with a thin wrapper that JSON-encodes
	// sync types and delegates all other (protobuf) messages to proto.Marshal.
	grpcEncoding.RegisterCodec(syncCodec{})
}

// syncCodec wraps the default proto codec. It handles SyncRequest and
// SyncResponse via JSON, and delegates all other types to proto.Marshal/Unmarshal.
type syncCodec struct{}

func (syncCodec) Name() string { return "proto" }

func (syncCodec) Marshal(v any) ([]byte, error) {
	if _, ok := v.(syncMsg); ok {
		return json.Marshal(v)
	}
	if m, ok := v.(proto.Message); ok {
		return proto.Marshal(m)
	}
	return nil, fmt.Errorf("sync codec: unsupported message type %T", v)
}

func (syncCodec) Unmarshal(data []byte, v any) error {
	if _, ok := v.(syncMsg); ok {
		return json.Unmarshal(data, v)
	}
	if m, ok := v.(proto.Message); ok {
		return proto.Unmarshal(data, m)
	}
	return fmt.Errorf("sync codec: unsupported message type %T", v)
}
