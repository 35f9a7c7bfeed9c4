package product

// Visibility is the catalog display setting stored as an integer code.
type Visibility int64

const (
	VisibilityNotVisible Visibility = 1
	VisibilityInCatalog  Visibility = 2
	VisibilityInSearch   Visibility = 3
	VisibilityBoth       Visibility = 4
)

var availableVisibilities = map[string]Visibility{
	"Not Visible Individually": VisibilityNotVisible,
	"Catalog":                  VisibilityInCatalog,
	"Search":                   VisibilityInSearch,
	"Catalog, Search":          VisibilityBoth,
}

// LookupVisibility resolves an exact visibility label.
func LookupVisibility(label string) (Visibility, bool) {
	v, ok := availableVisibilities[label]
	return v, ok
}
