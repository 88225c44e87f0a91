package validation

import "panel/internal/app/dto"

// NewServiceVariablePolicy правила для переменных сервиса.
// env_variable дополнительно проходит через ValidateIdentifier.
func NewServiceVariablePolicy(store EntityStore) *Policy[dto.ServiceVariableRequest] {
	return NewPolicy(store,
		Field[dto.ServiceVariableRequest]{
			Name:        "option_id",
			Application: "required",
			Exists:      TableServiceOptions,
			Value:       func(r dto.ServiceVariableRequest) (any, bool) { return Ptr(r.OptionID) },
		},
		Field[dto.ServiceVariableRequest]{
			Name:        "name",
			Application: "required",
			Integrity:   "min=1,max=255",
			Value:       func(r dto.ServiceVariableRequest) (any, bool) { return Ptr(r.Name) },
		},
		Field[dto.ServiceVariableRequest]{
			Name:        "description",
			Application: "sometimes|nullable",
			Value:       func(r dto.ServiceVariableRequest) (any, bool) { return Ptr(r.Description) },
		},
		Field[dto.ServiceVariableRequest]{
			Name:        "env_variable",
			Application: "required",
			Check:       checkIdentifier,
			Value:       func(r dto.ServiceVariableRequest) (any, bool) { return Ptr(r.EnvVariable) },
		},
		Field[dto.ServiceVariableRequest]{
			Name:        "default_value",
			Application: "sometimes",
			Value:       func(r dto.ServiceVariableRequest) (any, bool) { return Ptr(r.DefaultValue) },
		},
		Field[dto.ServiceVariableRequest]{
			Name:        "user_viewable",
			Application: "sometimes",
			Value:       func(r dto.ServiceVariableRequest) (any, bool) { return Ptr(r.UserViewable) },
		},
		Field[dto.ServiceVariableRequest]{
			Name:        "user_editable",
			Application: "sometimes",
			Value:       func(r dto.ServiceVariableRequest) (any, bool) { return Ptr(r.UserEditable) },
		},
		Field[dto.ServiceVariableRequest]{
			Name:        "rules",
			Application: "required",
			Value:       func(r dto.ServiceVariableRequest) (any, bool) { return Ptr(r.Rules) },
		},
	)
}

func checkIdentifier(value any) error {
	name, _ := value.(string)
	return ValidateIdentifier(name)
}
