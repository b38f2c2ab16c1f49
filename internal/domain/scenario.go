package domain

// Scenario — сценарий проверки: набор независимых переменных и список
// производных переменных, которые сабмишен обязан вычислить.
//
// Движок сам по себе универсален и имён не знает — сценарий и есть та
// явная конфигурация, которая раньше жила бы в глобальных списках.
type Scenario struct {
	// Name — имя сценария (например, "baseline").
	Name string `json:"name" yaml:"name"`

	// Independents — значения независимых переменных, подаваемые в
	// Compute.
	Independents map[string]float64 `json:"independents" yaml:"independents"`

	// Required — имена производных переменных, обязательных в
	// результате.
	Required []string `json:"required" yaml:"required"`
}

// IndependentNames возвращает имена независимых переменных.
func (s *Scenario) IndependentNames() []string {
	names := make([]string, 0, len(s.Independents))
	for name := range s.Independents {
		names = append(names, name)
	}
	return names
}

// ExpectedTotal возвращает ожидаемую мощность результата:
// |независимые| + |обязательные производные|.
func (s *Scenario) ExpectedTotal() int {
	return len(s.Independents) + len(s.Required)
}
