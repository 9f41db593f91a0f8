package producer

import (
	"context"
	"errors"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/football-ai-predictor/pkg/contracts/events"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return f.err
}

func TestPublishPredictionCreated(t *testing.T) {
	w := &fakeWriter{}
	p := NewKafkaPublisher(w, "prediction_created")

	err := p.PublishPredictionCreated(context.Background(), events.PredictionCreated{
		LeagueID: 39, Season: 2025, HomeTeam: "Arsenal", AwayTeam: "Chelsea",
		PredictionType: "over 2.5", Prediction: "OVER", Probability: 70,
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "Arsenal|Chelsea", string(w.msgs[0].Key))

	var got events.PredictionCreated
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.NotEmpty(t, got.EventID)
	assert.NotZero(t, got.TsUnixMs)
	assert.Equal(t, 70, got.Probability)
}

func TestPublishPredictionCreated_KeepsEventID(t *testing.T) {
	w := &fakeWriter{}
	p := NewKafkaPublisher(w, "t")

	require.NoError(t, p.PublishPredictionCreated(context.Background(), events.PredictionCreated{EventID: "fixed"}))

	var got events.PredictionCreated
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, "fixed", got.EventID)
}

func TestPublishPredictionCreated_WriterError(t *testing.T) {
	p := NewKafkaPublisher(&fakeWriter{err: errors.New("broker down")}, "t")
	assert.Error(t, p.PublishPredictionCreated(context.Background(), events.PredictionCreated{}))
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.PublishPredictionCreated(context.Background(), events.PredictionCreated{}))
}
