package api

import (
	"log/slog"

	"github.com/shaiso/Biome/internal/mq"
	"github.com/shaiso/Biome/internal/repo"
)

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	submissionRepo *repo.SubmissionRepo
	gradingRepo    *repo.GradingRepo
	scenarioRepo   *repo.ScenarioRepo
	scheduleRepo   *repo.ScheduleRepo
	publisher      *mq.Publisher
	logger         *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	SubmissionRepo *repo.SubmissionRepo
	GradingRepo    *repo.GradingRepo
	ScenarioRepo   *repo.ScenarioRepo
	ScheduleRepo   *repo.ScheduleRepo
	Publisher      *mq.Publisher
	Logger         *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		submissionRepo: cfg.SubmissionRepo,
		gradingRepo:    cfg.GradingRepo,
		scenarioRepo:   cfg.ScenarioRepo,
		scheduleRepo:   cfg.ScheduleRepo,
		publisher:      cfg.Publisher,
		logger:         cfg.Logger,
	}
}
