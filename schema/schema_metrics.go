package schema

// FormulaDefinition describes how one germination index is computed.
type FormulaDefinition struct {
	Name      ParameterName `json:"name"`
	Label     string        `json:"label"`
	Title     string        `json:"title"`
	Formula   string        `json:"formula"`
	Unit      string        `json:"unit"`
	Undefined string        `json:"undefined_when"`
}

// FormulaRenderModel contains all data needed for displaying index definitions.
type FormulaRenderModel struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	T50Basis    T50Basis            `json:"t50_basis"`
	Formulas    []FormulaDefinition `json:"formulas"`
	Notation    map[string]string   `json:"notation"`
}
