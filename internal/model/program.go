package model

// Program is a row of the programs table. Optional columns that are NULL in
// the store are omitted from JSON; an empty string is kept as-is.
type Program struct {
	ProgramID      string  `json:"program_id"`
	Name           string  `json:"name"`
	Category       *string `json:"category,omitempty"`
	Description    *string `json:"description,omitempty"`
	StartDate      *Date   `json:"start_date,omitempty"`
	EndDate        *Date   `json:"end_date,omitempty"`
	DateInterval   *string `json:"date_interval,omitempty"`
	RepeatInterval *int    `json:"repeat_interval,omitempty"`
	PlaceID        *string `json:"place_id,omitempty"`
	Address        *string `json:"address,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	Email          *string `json:"email,omitempty"`
	WebsiteURL     *string `json:"website_url,omitempty"`
	ProviderID     *string `json:"provider_id,omitempty"`
	IsApproved     *bool   `json:"is_approved,omitempty"`
}

// ProgramDetail is a program with its provider flattened to provider_name.
// provider_name is always present and null when the program has no provider.
type ProgramDetail struct {
	Program
	ProviderName *string `json:"provider_name"`
}

// ProviderRef is the provider relation embedded in a joined program record.
type ProviderRef struct {
	ProviderID string
	Name       string
}

// ProgramRecord is a program row as returned by a join with providers,
// before shaping.
type ProgramRecord struct {
	Program
	Providers *ProviderRef
}

// ProgramInput is the body of program create and update requests.
// A nil field was not provided (or was null) and is left out of the write.
type ProgramInput struct {
	Name           *string `json:"name"`
	Category       *string `json:"category"`
	Description    *string `json:"description"`
	StartDate      *Date   `json:"start_date"`
	EndDate        *Date   `json:"end_date"`
	DateInterval   *string `json:"date_interval"`
	RepeatInterval *int    `json:"repeat_interval"`
	PlaceID        *string `json:"place_id"`
	Address        *string `json:"address"`
	Phone          *string `json:"phone"`
	Email          *string `json:"email"`
	WebsiteURL     *string `json:"website_url"`
	ProviderID     *string `json:"provider_id"`
	IsApproved     *bool   `json:"is_approved"`
}

// Empty reports whether no field was provided.
func (in ProgramInput) Empty() bool {
	return len(in.Fields()) == 0
}

// Field is a single provided column of a ProgramInput.
type Field struct {
	Column string
	Value  any
}

// Fields returns the provided columns in a stable order. Dates are rendered
// in their canonical YYYY-MM-DD form.
func (in ProgramInput) Fields() []Field {
	var fields []Field
	addString := func(col string, v *string) {
		if v != nil {
			fields = append(fields, Field{Column: col, Value: *v})
		}
	}
	addDate := func(col string, v *Date) {
		if v != nil {
			fields = append(fields, Field{Column: col, Value: v.String()})
		}
	}

	addString("name", in.Name)
	addString("category", in.Category)
	addString("description", in.Description)
	addDate("start_date", in.StartDate)
	addDate("end_date", in.EndDate)
	addString("date_interval", in.DateInterval)
	if in.RepeatInterval != nil {
		fields = append(fields, Field{Column: "repeat_interval", Value: *in.RepeatInterval})
	}
	addString("place_id", in.PlaceID)
	addString("address", in.Address)
	addString("phone", in.Phone)
	addString("email", in.Email)
	addString("website_url", in.WebsiteURL)
	addString("provider_id", in.ProviderID)
	if in.IsApproved != nil {
		fields = append(fields, Field{Column: "is_approved", Value: *in.IsApproved})
	}
	return fields
}
