package jobs

import (
	"time"

	"github.com/kennethwzc/mandarin-srs-sub000/internal/repository"
	"github.com/kennethwzc/mandarin-srs-sub000/pkg/logger"
	"github.com/kennethwzc/mandarin-srs-sub000/pkg/monitoring"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// Runner 周期性后台任务：目前只负责刷新监控指标
type Runner struct {
	scheduler     *gocron.Scheduler
	itemStateRepo *repository.ItemStateRepository
}

func New(itemStateRepo *repository.ItemStateRepository) *Runner {
	return &Runner{
		scheduler:     gocron.NewScheduler(time.UTC),
		itemStateRepo: itemStateRepo,
	}
}

// Start 注册任务并异步启动
func (r *Runner) Start() {
	r.scheduler.Every(1).Hour().Do(r.refreshDueBacklog)
	r.scheduler.StartAsync()

	// 启动时先刷一次，避免指标长时间为零
	go r.refreshDueBacklog()
}

func (r *Runner) Stop() {
	r.scheduler.Stop()
}

// refreshDueBacklog 统计全体学习者的到期积压并写入 gauge
func (r *Runner) refreshDueBacklog() {
	count, err := r.itemStateRepo.CountDueAll(time.Now())
	if err != nil {
		logger.Log.Error("refresh due backlog failed", zap.Error(err))
		return
	}
	monitoring.DueBacklogGauge.Set(float64(count))
}
