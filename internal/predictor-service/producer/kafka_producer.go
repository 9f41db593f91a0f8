package producer

import (
	"context"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/radieske/football-ai-predictor/internal/shared/kafka"
	"github.com/radieske/football-ai-predictor/pkg/contracts/events"
)

type MessageWriter = kafka.MessageWriter

type KafkaPublisher struct {
	Writer MessageWriter
	Topic  string
}

func NewKafkaPublisher(w MessageWriter, topic string) *KafkaPublisher {
	return &KafkaPublisher{Writer: w, Topic: topic}
}

// PublishPredictionCreated usa o par de times como chave (mesma partição por confronto)
func (p *KafkaPublisher) PublishPredictionCreated(ctx context.Context, e events.PredictionCreated) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	e.TsUnixMs = time.Now().UnixMilli()
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return kafka.WriteJSON(ctx, p.Writer, e.HomeTeam+"|"+e.AwayTeam, b)
}

// Nop descarta eventos quando KAFKA_BROKERS não está definido
type Nop struct{}

func (Nop) PublishPredictionCreated(context.Context, events.PredictionCreated) error { return nil }
