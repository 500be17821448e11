package grpc

// proto.go defines the server interface and messages of
// loandefault.v1.PredictionService. Messages travel with the JSON codec.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"
)

const serviceName = "loandefault.v1.PredictionService"

// Full method names, used for auth skip lists and clients.
const (
	PredictMethod      = "/" + serviceName + "/Predict"
	GetModelInfoMethod = "/" + serviceName + "/GetModelInfo"
)

// PredictRequest carries one loan application. Currency amounts are
// decimal strings.
type PredictRequest struct {
	AmountBorrowed   string  `json:"amount_borrowed"`
	Installment      string  `json:"installment"`
	Grade            string  `json:"grade"`
	PrincipalBalance string  `json:"principal_balance"`
	PrincipalPaid    string  `json:"principal_paid"`
	InterestPaid     string  `json:"interest_paid"`
	LateFeesPaid     string  `json:"late_fees_paid"`
	BorrowerRate     float64 `json:"borrower_rate"`
	Term             int32   `json:"term"`
	DaysPastDue      int32   `json:"days_past_due"`
}

type PredictResponse struct {
	Label       string  `json:"label"`
	ModelID     string  `json:"model_id"`
	Strategy    string  `json:"strategy"`
	Schema      string  `json:"schema"`
	Probability float64 `json:"probability"`
	Class       int32   `json:"class"`
}

type GetModelInfoRequest struct{}

type GetModelInfoResponse struct {
	TrainedAt   *timestamppb.Timestamp `json:"trained_at"`
	ID          string                 `json:"id"`
	Strategy    string                 `json:"strategy"`
	Schema      string                 `json:"schema"`
	Columns     []string               `json:"columns"`
	Accuracy    float64                `json:"accuracy"`
	F1Default   float64                `json:"f1_default"`
	DatasetRows int64                  `json:"dataset_rows"`
}

// PredictionServiceServer is the server API for PredictionService.
type PredictionServiceServer interface {
	Predict(context.Context, *PredictRequest) (*PredictResponse, error)
	GetModelInfo(context.Context, *GetModelInfoRequest) (*GetModelInfoResponse, error)
	mustEmbedUnimplementedPredictionServiceServer()
}

// UnimplementedPredictionServiceServer provides forward-compatible default implementations.
type UnimplementedPredictionServiceServer struct{}

func (UnimplementedPredictionServiceServer) Predict(context.Context, *PredictRequest) (*PredictResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Predict not implemented")
}
func (UnimplementedPredictionServiceServer) GetModelInfo(context.Context, *GetModelInfoRequest) (*GetModelInfoResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetModelInfo not implemented")
}
func (UnimplementedPredictionServiceServer) mustEmbedUnimplementedPredictionServiceServer() {}

// RegisterPredictionServiceServer registers srv with the gRPC server.
func RegisterPredictionServiceServer(s *grpclib.Server, srv PredictionServiceServer) {
	s.RegisterService(&_PredictionService_serviceDesc, srv) //nolint:revive // gRPC handler registration
}

//nolint:revive // gRPC handler registration
var _PredictionService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*PredictionServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "Predict", Handler: _PredictionService_Predict_Handler},           //nolint:revive // gRPC handler registration
		{MethodName: "GetModelInfo", Handler: _PredictionService_GetModelInfo_Handler}, //nolint:revive // gRPC handler registration
	},
	Streams: []grpclib.StreamDesc{},
}

//nolint:revive,errcheck // gRPC handler registration
func _PredictionService_Predict_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	in := new(PredictRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PredictionServiceServer).Predict(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: PredictMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PredictionServiceServer).Predict(ctx, req.(*PredictRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _PredictionService_GetModelInfo_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	in := new(GetModelInfoRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PredictionServiceServer).GetModelInfo(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: GetModelInfoMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PredictionServiceServer).GetModelInfo(ctx, req.(*GetModelInfoRequest))
	}
	return interceptor(ctx, in, info, handler)
}
