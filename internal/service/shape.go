package service

import "github.com/innervoice/innervoice-go/internal/model"

// ShapeProgram flattens a joined program record: the provider relation is
// replaced by provider_name, which is nil when there is no provider.
func ShapeProgram(rec model.ProgramRecord) model.ProgramDetail {
	detail := model.ProgramDetail{Program: rec.Program}
	if rec.Providers != nil {
		name := rec.Providers.Name
		detail.ProviderName = &name
	}
	return detail
}

// ShapeProvider flattens a provider record's programs to id and name only.
// The programs list is never nil.
func ShapeProvider(rec model.ProviderRecord) model.ProviderWithPrograms {
	programs := make([]model.ProgramSummary, len(rec.Programs))
	for i, p := range rec.Programs {
		programs[i] = model.ProgramSummary{ProgramID: p.ProgramID, Name: p.Name}
	}
	return model.ProviderWithPrograms{Provider: rec.Provider, Programs: programs}
}
