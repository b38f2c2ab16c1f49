// Package cli реализует инструмент командной строки Biome.
//
// # Обзор
//
// CLI — клиентская утилита для взаимодействия с Biome API.
// Работает через HTTP и не импортирует internal/api; единственное
// исключение из «только HTTP» — команда grade, которая гоняет
// грейдер локально для самопроверки манифеста перед сабмитом.
//
// # Ключевые компоненты
//
// ## Client
//
// HTTP-клиент для Biome API. Инкапсулирует все HTTP-запросы,
// парсинг ответов (dataResponse, listResponse, errorResponse)
// и обработку ошибок.
//
//	client := cli.NewClient("http://localhost:8080")
//	subs, err := client.ListSubmissions(cli.ListSubmissionsOpts{})
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON (json.Encoder с отступами) — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Error) — в stderr.
// Это позволяет использовать pipe: biome grading list --json | jq .
//
// ## Commands
//
// Cobra-команды организованы по ресурсам:
//   - submission: list, create, show, update, delete, versions, submit
//   - grading: list, start, show, report
//   - schedule: list, create, show, update, delete, enable, disable
//   - grade: локальная проверка манифеста (--example печатает эталон)
//
// Каждая группа создаётся через фабричную функцию (NewSubmissionCmd
// и т.д.), принимающую clientFn и outputFn — замыкания для ленивого
// создания Client и Output после парсинга PersistentFlags.
package cli
