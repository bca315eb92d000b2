package domain

type View string

const (
	ViewGallery        View = "gallery"
	ViewAddProductForm View = "add_product_form"
	ViewCheckout       View = "checkout"
	ViewConfirmation   View = "confirmation"
)

// String returns the view name.
func (v View) String() string {
	return string(v)
}
