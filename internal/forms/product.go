package forms

// ProductFormSchema describes the Add/Edit Product form. Categories come
// from the loaded catalog facets; the status options are the two values
// the create form offers.
func ProductFormSchema(edit bool, categories []string) Schema {
	title := "Add New Product"
	action := "Submit"
	if edit {
		title = "Edit Product"
		action = "Update Product"
	}

	return Schema{
		Title:       title,
		ActionLabel: action,
		Fields: []Field{
			TextField{Name: "title", Label: "Title", Required: true},
			FileField{Name: "image", Label: "Image", Accept: "image/*"},
			NumberField{Name: "price", Label: "Price", Required: true},
			TextAreaField{Name: "description", Label: "Description"},
			SelectField{Name: "category", Label: "Category", Options: categories},
			SelectField{Name: "status", Label: "Status", Options: []string{"Active", "Not Active"}},
			CheckboxField{Name: "published", Label: "Published"},
		},
	}
}
