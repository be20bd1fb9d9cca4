package Ledger

// Static suggestion lists for the entry form dropdowns. Free text is
// accepted too; nothing is validated against these.
var ProductSuggestions = []string{
	"زيتون أخضر سليم",
	"زيتون أخضر مخلي",
	"زيتون أخضر شرائح",
	"زيتون دولسي",
	"زيتون كلاماتا (يوناني)",
	"فلفل هلابينو",
}

var UnitSuggestions = []string{
	"كجم", "جردل", "720 جرام", "370 جرام",
	"عدد", "قطعة", "علبة", "طن",
}

const (
	// DefaultUnit preselects the unit dropdown on the entry form.
	DefaultUnit = "كجم"

	// DefaultImportUnit is used for imported rows that carry no unit column.
	DefaultImportUnit = "عدد"
)
