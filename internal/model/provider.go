package model

// Provider is a row of the providers table.
type Provider struct {
	ProviderID  string  `json:"provider_id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// ProgramSummary is the id and name projection of a provider's program.
type ProgramSummary struct {
	ProgramID string `json:"program_id"`
	Name      string `json:"name"`
}

// ProviderWithPrograms is a provider with its programs flattened to summaries.
type ProviderWithPrograms struct {
	Provider
	Programs []ProgramSummary `json:"programs"`
}

// ProviderRecord is a provider row joined with its program rows, before shaping.
type ProviderRecord struct {
	Provider
	Programs []Program
}
