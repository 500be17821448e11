package dto

import (
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/model"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/service"
)

// CleanRequest names the raw input and cleaned output files.
type CleanRequest struct {
	InputPath  string
	OutputPath string
}

// CleanResponse reports one cleaning run.
type CleanResponse struct {
	Report service.CleanReport
}

// TrainRequest names the cleaned dataset to train on.
type TrainRequest struct {
	DatasetPath string
}

// TrainResponse summarises a training run.
type TrainResponse struct {
	Model   ModelInfoResponse
	Summary service.TrainingSummary
	Report  string
}

// InsightsRequest names the cleaned dataset to summarise.
type InsightsRequest struct {
	DatasetPath string
}

// InsightsResponse carries the report and whether it came from cache.
type InsightsResponse struct {
	Report model.InsightsReport `json:"report"`
	Cached bool                 `json:"cached"`
}
