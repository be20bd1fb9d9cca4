package Documents

// Fixed identity of the issuing business. These are constants of the
// company, not user-editable fields.
const (
	CompanyName    = "مواسم الخيرات"
	CompanyAddress = "9 على رمضان اغا من شارع الجامع عزبة النخل خلف سنتر شاهين بجوار صيدلية العزبي"
	CompanyTaxID   = "765-350-577"
	CompanyCommID  = "94591"

	DocumentTitle = "فاتورة مبيعات"
	CurrencyLabel = "ج.م"
)
