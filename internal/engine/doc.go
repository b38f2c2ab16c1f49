// Package engine содержит вычислительное ядро Biome.
//
// Включает:
//   - engine.go — сборка и выполнение порядка вычислений (Build/Compute),
//     топологическое упорядочивание (Sort)
//   - expr.go   — формулы-выражения на govaluate
//   - errors.go — таксономия ошибок (ConfigError, StepError)
//
// Engine получает декларативный упорядоченный список шагов — «как
// производные величины считаются из других величин» — и детерминированно
// вычисляет их все из набора независимых входов. Входная map вызывающей
// стороны не изменяется; результат — всегда новое пространство имён,
// содержащее независимые переменные плюс ровно один выход на шаг.
package engine
