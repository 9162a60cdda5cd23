package match

// Kind classifies an R symbol for menu and snippet dispatch. Wire kinds
// outside the closed set map to KindOther, which keeps the generic menu
// and carries no snippet.
type Kind int

const (
	KindOther Kind = iota
	KindFunction
	KindDataFrame
	KindTibble
	KindPackage
	KindArgument
)

// ParseKind maps an omnils kind string onto the dispatch enum.
func ParseKind(s string) Kind {
	switch s {
	case "function":
		return KindFunction
	case "data.frame":
		return KindDataFrame
	case "tbl_df":
		return KindTibble
	case "package":
		return KindPackage
	case "argument":
		return KindArgument
	default:
		return KindOther
	}
}

// String returns the wire label for the kind.
func (k Kind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindDataFrame:
		return "data.frame"
	case KindTibble:
		return "tbl_df"
	case KindPackage:
		return "package"
	case KindArgument:
		return "argument"
	default:
		return "other"
	}
}
