package validation

import "panel/internal/app/dto"

// NewPackPolicy правила для паков
func NewPackPolicy(store EntityStore) *Policy[dto.PackRequest] {
	return NewPolicy(store,
		Field[dto.PackRequest]{
			Name:        "name",
			Application: "required",
			Integrity:   "max=255",
			Value:       func(r dto.PackRequest) (any, bool) { return Ptr(r.Name) },
		},
		Field[dto.PackRequest]{
			Name:        "version",
			Application: "required",
			Integrity:   "max=255",
			Value:       func(r dto.PackRequest) (any, bool) { return Ptr(r.Version) },
		},
		Field[dto.PackRequest]{
			Name:        "description",
			Application: "sometimes|nullable",
			Value:       func(r dto.PackRequest) (any, bool) { return Ptr(r.Description) },
		},
		Field[dto.PackRequest]{
			Name:        "selectable",
			Application: "sometimes|required",
			Value:       func(r dto.PackRequest) (any, bool) { return Ptr(r.Selectable) },
		},
		Field[dto.PackRequest]{
			Name:        "visible",
			Application: "sometimes|required",
			Value:       func(r dto.PackRequest) (any, bool) { return Ptr(r.Visible) },
		},
		Field[dto.PackRequest]{
			Name:        "locked",
			Application: "sometimes|required",
			Value:       func(r dto.PackRequest) (any, bool) { return Ptr(r.Locked) },
		},
		Field[dto.PackRequest]{
			Name:        "option_id",
			Application: "required",
			Exists:      TableServiceOptions,
			Value:       func(r dto.PackRequest) (any, bool) { return Ptr(r.OptionID) },
		},
	)
}
