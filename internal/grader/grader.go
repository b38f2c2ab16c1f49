// Package grader запускает автоматическую проверку сабмишенов.
//
// Грейдер — это набор именованных проверок (Check), выполняемых по
// порядку над парой (манифест, сценарий). Вердикты и диагностика
// собираются в domain.Report; сбоев «наружу» грейдер не отдаёт —
// сломанный сабмишен это FAILED-отчёт, а не ошибка.
package grader

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shaiso/Biome/internal/domain"
)

// Grader выполняет проверки над сабмишенами.
type Grader struct {
	registry *Registry
	logger   *slog.Logger
}

// Config — конфигурация Grader.
type Config struct {
	// Registry — реестр проверок (опционально; если nil —
	// используется NewRegistry()).
	Registry *Registry

	// Logger — логгер (опционально).
	Logger *slog.Logger
}

// New создаёт новый Grader.
func New(cfg Config) *Grader {
	registry := cfg.Registry
	if registry == nil {
		registry = NewRegistry()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Grader{
		registry: registry,
		logger:   logger,
	}
}

// Grade проверяет манифест по сценарию и возвращает отчёт.
//
// Проверки выполняются в порядке реестра; паника внутри проверки
// перехватывается и превращается в FAILED-результат этой проверки —
// один сломанный сабмишен не должен ронять воркер.
func (g *Grader) Grade(ctx context.Context, manifest *domain.Manifest, scenario domain.Scenario) *domain.Report {
	c := &Case{
		Manifest: manifest,
		Scenario: scenario,
	}

	report := &domain.Report{
		Scenario: scenario.Name,
		Checks:   make([]domain.CheckResult, 0, len(g.registry.order)),
	}

	for _, name := range g.registry.order {
		check := g.registry.checks[name]

		result := g.runCheck(ctx, check, c)
		report.Checks = append(report.Checks, result)

		g.logger.Debug("check finished",
			"check", result.Name,
			"status", result.Status,
			"details", result.Details,
		)
	}

	// Вычисленные переменные попадают в отчёт для самостоятельной
	// сверки студентом.
	report.Variables = c.Vars

	return report
}

// runCheck выполняет одну проверку с перехватом паники.
func (g *Grader) runCheck(ctx context.Context, check Check, c *Case) (result domain.CheckResult) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("check panicked",
				"check", check.Name(),
				"panic", r,
			)
			result = failed(check.Name(), fmt.Sprintf("check panicked: %v", r))
		}
	}()

	return check.Run(ctx, c)
}
