package processor

import (
	"context"

	"tablelog/pkg/logger"
	"tablelog/pkg/metrics"
	"tablelog/ratings-service/internal/app/ratings/service"

	"github.com/robfig/cron/v3"
)

// SummaryRefresher периодически прогревает кеш сводок ресторанов,
// чтобы первый запрос после инвалидации не платил за агрегацию в Postgres
type SummaryRefresher struct {
	cron          *cron.Cron
	restaurantSvc service.RestaurantServiceInterface
}

func NewSummaryRefresher(restaurantSvc service.RestaurantServiceInterface) *SummaryRefresher {
	return &SummaryRefresher{
		cron:          cron.New(),
		restaurantSvc: restaurantSvc,
	}
}

// Start запускает расписание и сразу выполняет первый прогрев
func (s *SummaryRefresher) Start(ctx context.Context, schedule string) error {
	logger.Info().Str("schedule", schedule).Msg("Starting summary cache refresher")

	_, err := s.cron.AddFunc(schedule, func() {
		s.refresh(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()

	s.refresh(ctx)

	return nil
}

func (s *SummaryRefresher) refresh(ctx context.Context) {
	if err := s.restaurantSvc.WarmSummaryCache(ctx); err != nil {
		metrics.SummaryCacheRefreshes.WithLabelValues("failed").Inc()
		logger.Error().Err(err).Msg("Summary cache refresh failed")
		return
	}

	metrics.SummaryCacheRefreshes.WithLabelValues("success").Inc()
	logger.Debug().Msg("Summary cache refreshed")
}

// Stop останавливает расписание и дожидается завершения текущей джобы
func (s *SummaryRefresher) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("Summary cache refresher stopped")
}
