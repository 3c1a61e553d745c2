package enrich

import (
	"time"

	"gameshelf/backend/internal/models"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StartSweep schedules a periodic job that re-enqueues Steam games still
// missing tags. This is what makes enrichment restartable: tasks lost to a
// full queue or a process exit get another chance on the next sweep.
func (w *Worker) StartSweep(db *gorm.DB, interval time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { w.sweep(db) }),
	)
	if err != nil {
		return nil, err
	}

	sched.Start()
	return sched, nil
}

func (w *Worker) sweep(db *gorm.DB) {
	var rows []struct {
		ID    uint
		AppID string
	}
	err := db.Model(&models.Game{}).
		Select("games.id, games.app_id").
		Joins("LEFT JOIN game_tags ON game_tags.game_id = games.id").
		Joins("JOIN library_entries ON library_entries.game_id = games.id AND library_entries.deleted_at IS NULL").
		Where("games.platform = ? AND game_tags.game_id IS NULL", models.PlatformSteam).
		Group("games.id, games.app_id").
		Scan(&rows).Error
	if err != nil {
		w.log.Error().Err(err).Msg("sweep query failed")
		return
	}
	if len(rows) == 0 {
		return
	}

	batch := uuid.New()
	taskList := make([]Task, 0, len(rows))
	for _, r := range rows {
		taskList = append(taskList, Task{GameID: r.ID, AppID: r.AppID, BatchID: batch})
	}

	accepted := w.Enqueue(taskList...)
	w.log.Info().Int("found", len(rows)).Int("queued", accepted).Msg("sweep re-enqueued untagged games")
}
