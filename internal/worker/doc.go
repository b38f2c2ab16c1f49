// Package worker выполняет отдельные грейдинги.
//
// # Обзор
//
// Worker — stateless компонент системы Biome, который проверяет
// сабмишены студентов. Worker отвечает за:
//
//   - Получение грейдингов из очереди RabbitMQ (event-driven)
//   - Периодическую проверку pending грейдингов в БД (polling fallback)
//   - Загрузку версии сабмишена и сценария проверки
//   - Прогон проверок грейдера и сохранение отчёта
//   - Публикацию результата в очередь gradings.completed
//
// Workers масштабируются горизонтально — несколько экземпляров
// потребляют из одной очереди gradings.pending.
//
// # Обработка грейдинга
//
//  1. Получение грейдинга (из очереди или polling)
//  2. Загрузка из БД, проверка статуса PENDING
//  3. Перевод в RUNNING
//  4. Загрузка версии сабмишена и сценария проверки
//  5. Прогон проверок грейдера
//  6. Отчёт → MarkGraded (PASSED/FAILED), publish GradingCompleted
//  7. Инфраструктурная ошибка → MarkErrored, publish GradingCompleted
//
// # Ошибки
//
// Пакет различает два уровня ошибок:
//   - Инфраструктурные (БД недоступна, версия не найдена) — грейдинг
//     переходит в ERRORED, его можно перезапустить
//   - Содержательные (сабмишен не прошёл проверку) — это не ошибка,
//     а FAILED-отчёт; такие грейдинги не перезапускаются
package worker
