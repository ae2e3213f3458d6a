package vanilla

// ChromeClass is a typed identifier for the semantic CSS classes the
// dashboard template emits. The embedded stylesheet targets these names.
type ChromeClass string

const (
	ClassPage     ChromeClass = "shelf-page"
	ClassHeader   ChromeClass = "shelf-header"
	ClassFilters  ChromeClass = "shelf-filters"
	ClassTable    ChromeClass = "shelf-table"
	ClassSkeleton ChromeClass = "shelf-skeleton"
	ClassPager    ChromeClass = "shelf-pager"
	ClassModal    ChromeClass = "shelf-modal"
	ClassToast    ChromeClass = "shelf-toast"
	ClassBadge    ChromeClass = "shelf-badge"
	ClassError    ChromeClass = "shelf-error"
)

func chromeClasses() map[string]string {
	return map[string]string{
		"page":     string(ClassPage),
		"header":   string(ClassHeader),
		"filters":  string(ClassFilters),
		"table":    string(ClassTable),
		"skeleton": string(ClassSkeleton),
		"pager":    string(ClassPager),
		"modal":    string(ClassModal),
		"toast":    string(ClassToast),
		"badge":    string(ClassBadge),
		"error":    string(ClassError),
	}
}
