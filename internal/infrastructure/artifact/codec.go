package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/model"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/service"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/valueobject"
)

// FormatVersion is the envelope version written by Encode. Decode rejects
// anything else.
const FormatVersion = 1

// Magic prefixes every artifact.
var Magic = []byte("LDM1")

const maxDecodedSize = 512 << 20

var (
	encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	decoder, _ = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxDecodedSize))
)

type schemaRef struct {
	ID      string   `json:"id"`
	Columns []string `json:"columns"`
	Version int      `json:"version"`
}

type envelope struct {
	TrainedAt     time.Time              `json:"trained_at"`
	Strategy      string                 `json:"strategy"`
	Fingerprint   string                 `json:"dataset_fingerprint,omitempty"`
	Params        json.RawMessage        `json:"params"`
	Schema        schemaRef              `json:"schema"`
	Evaluation    model.EvaluationReport `json:"evaluation"`
	FormatVersion int                    `json:"format_version"`
	DatasetRows   int                    `json:"dataset_rows"`
	ID            uuid.UUID              `json:"id"`
}

// Encode serialises a trained model as Magic followed by zstd-compressed JSON.
func Encode(m *model.TrainedModel) ([]byte, error) {
	params, err := m.Classifier().MarshalParams()
	if err != nil {
		return nil, fmt.Errorf("marshal classifier params: %w", err)
	}

	body, err := json.Marshal(envelope{
		FormatVersion: FormatVersion,
		ID:            m.ID(),
		Strategy:      m.Strategy().String(),
		Schema: schemaRef{
			ID:      m.Schema().ID(),
			Version: m.Schema().Version(),
			Columns: m.Schema().Columns(),
		},
		Params:      params,
		Evaluation:  m.Evaluation(),
		TrainedAt:   m.TrainedAt(),
		DatasetRows: m.DatasetRows(),
		Fingerprint: m.Fingerprint(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal artifact: %w", err)
	}

	return encoder.EncodeAll(body, slices.Clone(Magic)), nil
}

// Decode parses an artifact written by Encode. The recorded schema must
// match a registered schema column for column.
func Decode(data []byte) (*model.TrainedModel, error) {
	if !bytes.HasPrefix(data, Magic) {
		return nil, fmt.Errorf("not a model artifact: bad magic")
	}

	body, err := decoder.DecodeAll(data[len(Magic):], nil)
	if err != nil {
		return nil, fmt.Errorf("decompress artifact: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	if env.FormatVersion != FormatVersion {
		return nil, fmt.Errorf("unsupported artifact format version %d (want %d)", env.FormatVersion, FormatVersion)
	}

	schema, err := valueobject.LookupFeatureSchema(env.Schema.ID, env.Schema.Version)
	if err != nil {
		return nil, err
	}
	if !slices.Equal(schema.Columns(), env.Schema.Columns) {
		return nil, fmt.Errorf("artifact schema %s columns %v differ from registered %v",
			schema, env.Schema.Columns, schema.Columns())
	}

	strategy, err := valueobject.NewStrategy(env.Strategy)
	if err != nil {
		return nil, err
	}
	clf, err := service.RestoreClassifier(strategy, env.Params)
	if err != nil {
		return nil, err
	}

	return model.ReconstructTrainedModel(env.ID, schema, clf, env.Evaluation, env.TrainedAt, env.DatasetRows, env.Fingerprint)
}
