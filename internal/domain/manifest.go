package domain

// Manifest — декларативный порядок вычислений сабмишена.
//
// Это «программа» студента: упорядоченный список шагов, каждый из
// которых определяет одну производную переменную через выражение от
// ранее доступных переменных. Порядок значим — движок выполняет шаги
// ровно в том порядке, в котором они объявлены.
type Manifest struct {
	// Version — версия формата манифеста (для обратной совместимости).
	Version string `json:"version,omitempty" yaml:"version,omitempty"`

	// Assignment — имя задания, для которого написан манифест.
	Assignment string `json:"assignment,omitempty" yaml:"assignment,omitempty"`

	// Description — свободное описание.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Steps — порядок вычислений.
	Steps []StepSpec `json:"evaluation_order" yaml:"evaluation_order"`
}

// StepSpec — определение одного шага порядка вычислений.
type StepSpec struct {
	// Output — имя вычисляемой переменной. Уникально в рамках манифеста.
	Output string `json:"output" yaml:"output"`

	// DependsOn — имена переменных, от которых зависит выражение.
	// Допустимы независимые переменные сценария и выходы более
	// ранних шагов.
	DependsOn []string `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`

	// Expr — числовое выражение (синтаксис govaluate).
	// Идентификаторы в выражении — имена из DependsOn.
	Expr string `json:"expr" yaml:"expr"`
}

// Outputs возвращает имена выходных переменных в порядке объявления.
func (m *Manifest) Outputs() []string {
	outputs := make([]string, len(m.Steps))
	for i := range m.Steps {
		outputs[i] = m.Steps[i].Output
	}
	return outputs
}
