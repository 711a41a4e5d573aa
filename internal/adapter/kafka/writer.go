package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/thermal-comfort-etl/internal/adapter/codec"
	"github.com/couchcryptid/thermal-comfort-etl/internal/config"
	"github.com/couchcryptid/thermal-comfort-etl/internal/domain"
)

// Writer produces enriched observations to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	codec  codec.Codec
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic. An
// unknown output encoding falls back to JSON.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	c, err := codec.ForName(cfg.OutputEncoding)
	if err != nil {
		logger.Warn("falling back to json output encoding", "error", err)
		c = codec.JSON{}
	}

	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, codec: c, logger: logger}
}

// LoadBatch serializes and publishes enriched observations to the sink topic
// in a single WriteMessages call. Messages are keyed by observation ID so one
// station's observations stay on one partition. An observation that fails to
// serialize is logged and left out; the count of those is returned.
func (w *Writer) LoadBatch(ctx context.Context, observations []domain.EnrichedObservation) (int, error) {
	msgs, dropped := w.buildMessages(observations)
	if len(msgs) == 0 {
		return dropped, nil
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return 0, err
	}
	return dropped, nil
}

func (w *Writer) buildMessages(observations []domain.EnrichedObservation) ([]kafkago.Message, int) {
	msgs := make([]kafkago.Message, 0, len(observations))
	dropped := 0
	for i := range observations {
		msg, err := serializeToMessage(w.codec, observations[i])
		if err != nil {
			w.logger.Error("dropping unencodable observation",
				"error", err,
				"station_id", observations[i].Observation.StationID,
				"encoding", w.codec.Name(),
			)
			dropped++
			continue
		}
		msgs = append(msgs, msg)
	}
	return msgs, dropped
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage encodes an EnrichedObservation into a Kafka message.
func serializeToMessage(c codec.Codec, obs domain.EnrichedObservation) (kafkago.Message, error) {
	data, err := codec.Marshal(c, obs)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize observation %s: %w", obs.Observation.ID, err)
	}
	return kafkago.Message{
		Key:   []byte(obs.Observation.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "station_id", Value: []byte(obs.Observation.StationID)},
			{Key: "encoding", Value: []byte(c.Name())},
			{Key: "processed_at", Value: []byte(obs.ProcessedAt.Format(time.RFC3339))},
		},
	}, nil
}
