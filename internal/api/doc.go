// Package api содержит HTTP API сервер.
//
// Структура:
//   - handler.go            — Handler с DI (репозитории, publisher, logger)
//   - routes.go             — регистрация маршрутов
//   - middleware.go         — middleware (logging, recovery)
//   - response.go           — унифицированные JSON-ответы и обработка ошибок
//   - dto.go                — Data Transfer Objects (request/response)
//   - submission_handler.go — обработчики для /submissions
//   - grading_handler.go    — обработчики для /gradings
//   - scenario_handler.go   — обработчики для /assignments/{assignment}/scenarios
//   - schedule_handler.go   — обработчики для /schedules
//
// API предоставляет REST endpoints для управления сабмишенами,
// грейдингами, сценариями и расписаниями перепроверок.
package api
