package domain

import (
	"time"

	"github.com/google/uuid"
)

// Schedule — расписание плановых перепроверок сабмишенов задания.
//
// Расписание покрывает одно задание целиком: при срабатывании
// Scheduler создаёт грейдинг для последней версии каждого активного
// сабмишена этого задания. Типичные случаи:
//   - ночная перепроверка после обновления сценария
//   - финальная перепроверка в дедлайн
//
// Расписание срабатывает:
//   - по cron-выражению: "0 3 * * *" (каждую ночь в 3:00)
//   - по интервалу: каждые N секунд
type Schedule struct {
	// ID — уникальный идентификатор расписания.
	ID uuid.UUID `json:"id"`

	// Assignment — имя задания, чьи сабмишены перепроверяются.
	Assignment string `json:"assignment"`

	// Name — имя расписания для удобства.
	Name string `json:"name,omitempty"`

	// Scenario — имя сценария проверки для создаваемых грейдингов.
	Scenario string `json:"scenario"`

	// CronExpr — cron-выражение.
	// Формат: "минуты часы дни месяцы дни_недели"
	// Если задан CronExpr, IntervalSec игнорируется.
	CronExpr string `json:"cron_expr,omitempty"`

	// IntervalSec — интервал в секундах между срабатываниями.
	// Используется если CronExpr не задан.
	IntervalSec int `json:"interval_sec,omitempty"`

	// Timezone — часовой пояс для вычисления времени.
	// По умолчанию: "UTC".
	Timezone string `json:"timezone"`

	// Enabled — флаг активности расписания.
	Enabled bool `json:"enabled"`

	// NextDueAt — время следующего срабатывания.
	// Scheduler создаёт грейдинги, когда now >= NextDueAt.
	NextDueAt *time.Time `json:"next_due_at,omitempty"`

	// LastRunAt — время последнего срабатывания.
	LastRunAt *time.Time `json:"last_run_at,omitempty"`

	// CreatedAt — время создания расписания.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt — время последнего обновления.
	UpdatedAt time.Time `json:"updated_at"`
}

// IsCron возвращает true, если расписание использует cron-выражение.
func (s *Schedule) IsCron() bool {
	return s.CronExpr != ""
}

// IsInterval возвращает true, если расписание использует интервал.
func (s *Schedule) IsInterval() bool {
	return s.CronExpr == "" && s.IntervalSec > 0
}

// IsDue проверяет, пора ли срабатывать.
func (s *Schedule) IsDue(now time.Time) bool {
	if !s.Enabled {
		return false
	}
	if s.NextDueAt == nil {
		return false
	}
	return now.After(*s.NextDueAt) || now.Equal(*s.NextDueAt)
}

// RecordRun записывает факт срабатывания и следующее время.
func (s *Schedule) RecordRun(nextDue time.Time) {
	now := time.Now()
	s.LastRunAt = &now
	s.NextDueAt = &nextDue
	s.UpdatedAt = now
}
