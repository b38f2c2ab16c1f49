// Package scheduler реализует логику плановых перепроверок.
//
// Scheduler периодически проверяет расписания с истекшим next_due_at
// и создаёт грейдинги для последней версии каждого активного
// сабмишена задания. Типичный случай — ночная перепроверка всей
// группы после обновления сценария.
//
// Структура:
//   - scheduler.go — основная логика Scheduler (Tick, processSchedule)
//   - cron.go      — парсинг cron-выражений и вычисление следующего времени
//
// Использование:
//
//	sched := scheduler.New(scheduler.Config{
//	    ScheduleRepo:   scheduleRepo,
//	    GradingRepo:    gradingRepo,
//	    SubmissionRepo: submissionRepo,
//	    Publisher:      publisher,  // опционально
//	    Logger:         logger,
//	})
//
//	// Вызывается каждый тик (обычно раз в секунду)
//	if err := sched.Tick(ctx); err != nil {
//	    logger.Error("scheduler tick failed", "error", err)
//	}
//
// Leader Election:
//
// Scheduler не реализует leader election самостоятельно.
// Это делается в main.go через pg_try_advisory_lock.
// Метод Tick() вызывается только лидером.
package scheduler
