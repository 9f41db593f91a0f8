package repo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*Postgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgres(db), mock
}

func TestPostgres_Save(t *testing.T) {
	p, mock := newMock(t)
	at := time.Date(2025, 8, 17, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO ai_predictions")).
		WithArgs(39, 2025, "Arsenal", "Chelsea", "over 2.5", "OVER", 72, "r", "t", "v2", `[{"player":"X"}]`, at).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := p.Save(context.Background(), PredictionRecord{
		LeagueID: 39, Season: 2025, HomeTeam: "Arsenal", AwayTeam: "Chelsea",
		PredictionType: "over 2.5", Prediction: "OVER", Probability: 72,
		Reasoning: "r", Tweet: "t", PromptVersion: "v2",
		PlayerSnapshot: []byte(`[{"player":"X"}]`), CreatedAt: at,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_SaveWithoutSnapshotSendsNull(t *testing.T) {
	p, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO ai_predictions")).
		WithArgs(39, 2025, "A", "B", "over 2.5", "ANALYZING", 0, "", "", "v1", nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := p.Save(context.Background(), PredictionRecord{
		LeagueID: 39, Season: 2025, HomeTeam: "A", AwayTeam: "B",
		PredictionType: "over 2.5", Prediction: "ANALYZING", PromptVersion: "v1",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_SaveError(t *testing.T) {
	p, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO ai_predictions")).
		WillReturnError(errors.New("relation does not exist"))

	err := p.Save(context.Background(), PredictionRecord{})
	assert.Error(t, err)
}

func TestPostgres_ListRecent(t *testing.T) {
	p, mock := newMock(t)
	at := time.Date(2025, 8, 17, 12, 0, 0, 0, time.UTC)

	cols := []string{"league_id", "season", "home_team", "away_team", "prediction_type", "prediction",
		"probability", "reasoning", "tweet", "prompt_version", "player_snapshot", "created_at"}
	mock.ExpectQuery(regexp.QuoteMeta("FROM ai_predictions")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(39, 2025, "Arsenal", "Chelsea", "over 2.5", "OVER", 72, "r", "t", "v2", []byte(`[]`), at).
			AddRow(140, 2025, "Betis", "Sevilla", "over 2.5", "UNDER", 40, nil, nil, nil, nil, at.Add(-time.Hour)))

	recs, err := p.ListRecent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Arsenal", recs[0].HomeTeam)
	assert.JSONEq(t, `[]`, string(recs[0].PlayerSnapshot))
	assert.Equal(t, "", recs[1].Reasoning)
	assert.Equal(t, "", recs[1].PromptVersion)
	assert.Nil(t, recs[1].PlayerSnapshot)
}

func TestUnavailable(t *testing.T) {
	var s Sink = Unavailable{}
	assert.False(t, s.Available())
	assert.ErrorIs(t, s.Save(context.Background(), PredictionRecord{}), ErrUnavailable)
	_, err := s.ListRecent(context.Background(), 1)
	assert.ErrorIs(t, err, ErrUnavailable)
}
