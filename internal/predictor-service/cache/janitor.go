package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Purger interface {
	Purge(ctx context.Context) (int64, error)
}

// StartJanitor agenda a limpeza das linhas vencidas do cache durável
func StartJanitor(schedule string, p Purger, log *zap.Logger) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { purgeOnce(p, log) }); err != nil {
		return nil, fmt.Errorf("invalid purge schedule %q: %w", schedule, err)
	}
	c.Start()
	log.Info("durable cache janitor scheduled", zap.String("schedule", schedule))
	return c, nil
}

func purgeOnce(p Purger, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := p.Purge(ctx)
	if err != nil {
		log.Warn("durable cache purge failed", zap.Error(err))
		return
	}
	log.Info("durable cache purged", zap.Int64("rows", n))
}
