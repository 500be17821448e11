package grpc

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/Mohana-teja/loan-default-dashboard/internal/application/dto"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/model"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/valueobject"
)

// Predictor scores one loan application.
type Predictor interface {
	Execute(ctx context.Context, req dto.PredictRequest) (dto.PredictionResponse, error)
}

// ModelDescriber describes the serving model.
type ModelDescriber interface {
	Execute(ctx context.Context) (dto.ModelInfoResponse, error)
}

// PredictionHandler implements PredictionServiceServer.
type PredictionHandler struct {
	UnimplementedPredictionServiceServer
	predictor Predictor
	modelInfo ModelDescriber
	logger    *slog.Logger
}

func NewPredictionHandler(predictor Predictor, modelInfo ModelDescriber, logger *slog.Logger) *PredictionHandler {
	return &PredictionHandler{predictor: predictor, modelInfo: modelInfo, logger: logger}
}

func (h *PredictionHandler) Predict(ctx context.Context, req *PredictRequest) (*PredictResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	amounts := []struct {
		field string
		raw   string
	}{
		{valueobject.ColumnAmountBorrowed, req.AmountBorrowed},
		{valueobject.ColumnInstallment, req.Installment},
		{valueobject.ColumnPrincipalBalance, req.PrincipalBalance},
		{valueobject.ColumnPrincipalPaid, req.PrincipalPaid},
		{valueobject.ColumnInterestPaid, req.InterestPaid},
		{valueobject.ColumnLateFeesPaid, req.LateFeesPaid},
	}
	parsed := make(map[string]*decimal.Decimal, len(amounts))
	for _, a := range amounts {
		if a.raw == "" {
			return nil, h.toStatus(&model.MalformedInputError{Column: a.field, Reason: dto.MissingValueReason})
		}
		d, err := decimal.NewFromString(a.raw)
		if err != nil {
			return nil, h.toStatus(&model.MalformedInputError{Column: a.field, Value: a.raw, Reason: "not a decimal amount"})
		}
		parsed[a.field] = &d
	}

	// Scalars follow proto3 rules: an unset value is zero and is range
	// checked like any other.
	term, dpd, rate := int(req.Term), int(req.DaysPastDue), req.BorrowerRate
	resp, err := h.predictor.Execute(ctx, dto.PredictRequest{
		AmountBorrowed:   parsed[valueobject.ColumnAmountBorrowed],
		Installment:      parsed[valueobject.ColumnInstallment],
		PrincipalBalance: parsed[valueobject.ColumnPrincipalBalance],
		PrincipalPaid:    parsed[valueobject.ColumnPrincipalPaid],
		InterestPaid:     parsed[valueobject.ColumnInterestPaid],
		LateFeesPaid:     parsed[valueobject.ColumnLateFeesPaid],
		Grade:            req.Grade,
		BorrowerRate:     &rate,
		Term:             &term,
		DaysPastDue:      &dpd,
	})
	if err != nil {
		return nil, h.toStatus(err)
	}

	return &PredictResponse{
		Class:       int32(resp.Class),
		Probability: resp.Probability,
		Label:       resp.Label,
		ModelID:     resp.ModelID.String(),
		Strategy:    resp.Strategy,
		Schema:      resp.Schema,
	}, nil
}

func (h *PredictionHandler) GetModelInfo(ctx context.Context, _ *GetModelInfoRequest) (*GetModelInfoResponse, error) {
	info, err := h.modelInfo.Execute(ctx)
	if err != nil {
		return nil, h.toStatus(err)
	}
	return &GetModelInfoResponse{
		ID:          info.ID.String(),
		Strategy:    info.Strategy,
		Schema:      info.Schema,
		Columns:     info.Columns,
		TrainedAt:   timestamppb.New(info.TrainedAt),
		DatasetRows: int64(info.DatasetRows),
		Accuracy:    info.Evaluation.Accuracy,
		F1Default:   info.Evaluation.Classes[valueobject.LabelDefault].F1,
	}, nil
}

// toStatus maps domain errors to gRPC status codes.
func (h *PredictionHandler) toStatus(err error) error {
	var (
		rangeErr  *model.InputRangeError
		malformed *model.MalformedInputError
		mismatch  *model.SchemaMismatchError
	)
	switch {
	case errors.As(err, &rangeErr), errors.As(err, &malformed), errors.As(err, &mismatch):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, model.ErrModelNotFound), errors.Is(err, model.ErrArtifactLoad):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		h.logger.Error("grpc request failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}
