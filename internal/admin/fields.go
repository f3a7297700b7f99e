package admin

// FieldMode says how the admin surface may treat a field.
type FieldMode string

const (
	// FieldEditable fields accept writes from the admin forms.
	FieldEditable FieldMode = "editable"
	// FieldReadOnly fields are shown but never written, e.g. slugs and
	// timestamps.
	FieldReadOnly FieldMode = "read_only"
	// FieldDerived fields are computed from other columns at read time.
	FieldDerived FieldMode = "derived"
)

// FieldSpec describes one admin-visible field.
type FieldSpec struct {
	Name string    `json:"name"`
	Mode FieldMode `json:"mode"`
}

// Per-entity field configuration. Controllers expose these so the admin UI
// renders forms without hardcoding the schema, and the services consult them
// when building update maps.
var (
	CategoryFieldSpecs = []FieldSpec{
		{Name: "name", Mode: FieldEditable},
		{Name: "description", Mode: FieldEditable},
		{Name: "icon", Mode: FieldEditable},
		{Name: "slug", Mode: FieldReadOnly},
		{Name: "product_count", Mode: FieldDerived},
		{Name: "created_at", Mode: FieldReadOnly},
	}

	ProductFieldSpecs = []FieldSpec{
		{Name: "name", Mode: FieldEditable},
		{Name: "description", Mode: FieldEditable},
		{Name: "category_id", Mode: FieldEditable},
		{Name: "price", Mode: FieldEditable},
		{Name: "original_price", Mode: FieldEditable},
		{Name: "rating", Mode: FieldEditable},
		{Name: "image", Mode: FieldEditable},
		{Name: "affiliate_url", Mode: FieldEditable},
		{Name: "pros", Mode: FieldEditable},
		{Name: "cons", Mode: FieldEditable},
		{Name: "is_featured", Mode: FieldEditable},
		{Name: "slug", Mode: FieldReadOnly},
		{Name: "click_count", Mode: FieldReadOnly},
		{Name: "views_count", Mode: FieldReadOnly},
		{Name: "discount_percentage", Mode: FieldDerived},
		{Name: "created_at", Mode: FieldReadOnly},
	}

	PostFieldSpecs = []FieldSpec{
		{Name: "title", Mode: FieldEditable},
		{Name: "content", Mode: FieldEditable},
		{Name: "excerpt", Mode: FieldEditable},
		{Name: "meta_description", Mode: FieldEditable},
		{Name: "featured_image", Mode: FieldEditable},
		{Name: "author_name", Mode: FieldEditable},
		{Name: "author_email", Mode: FieldEditable},
		{Name: "is_published", Mode: FieldEditable},
		{Name: "slug", Mode: FieldReadOnly},
		{Name: "views_count", Mode: FieldReadOnly},
		{Name: "published_at", Mode: FieldReadOnly},
		{Name: "created_at", Mode: FieldReadOnly},
	}

	ClickFieldSpecs = []FieldSpec{
		{Name: "product_id", Mode: FieldReadOnly},
		{Name: "ip_address", Mode: FieldReadOnly},
		{Name: "user_agent", Mode: FieldReadOnly},
		{Name: "referrer", Mode: FieldReadOnly},
		{Name: "created_at", Mode: FieldReadOnly},
	}
)

// FieldConfig returns the field specs for an entity, or nil for an unknown
// one.
func FieldConfig(entity string) []FieldSpec {
	switch entity {
	case "categories":
		return CategoryFieldSpecs
	case "products":
		return ProductFieldSpecs
	case "blog_posts":
		return PostFieldSpecs
	case "clicks":
		return ClickFieldSpecs
	}
	return nil
}
