// services/scheduler.go
package services

import (
	"log"
	"time"

	"card-pull-system/models"

	"github.com/go-co-op/gocron/v2"
)

func (s *PackService) StartPublishScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Every minute: publish scheduled packs
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			var packs []models.Pack
			now := time.Now()
			err := s.DB.Where("status = ? AND publish_at <= ?", models.PackStatusScheduled, now).
				Find(&packs).Error
			if err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}

			for _, p := range packs {
				p.Status = models.PackStatusPublished
				p.PublishAt = nil
				if err := s.DB.Save(&p).Error; err != nil {
					log.Printf("[Scheduler] Failed to publish pack %s: %v", p.ID, err)
				} else {
					log.Printf("✅ Auto-published pack: %s", p.Name)
				}
			}
		}),
	)
}
