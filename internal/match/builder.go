// Package match turns omnils records into completion menu entries: a
// display word, a two-column menu line, an insertable snippet with
// editor tab stops, and (for functions) argument sub-entries.
package match

import (
	"fmt"
	"strings"

	"github.com/xonecas/rmatch/internal/omnils"
)

// minColumn is the narrowest configured width at which a menu column is
// still rendered; below it the column is suppressed entirely.
const minColumn = 7

// Columns configures the two fixed-width menu columns.
type Columns struct {
	Col1 int
	Col2 int
}

// DefaultColumns is the menu geometry used when nothing is configured.
var DefaultColumns = Columns{Col1: 11, Col2: 11}

// Entry is one completion item handed to the host: Word is the typed
// label, Menu the side annotation, Snippet the text inserted on
// selection. Function entries carry their arguments as sub-entries.
type Entry struct {
	Word    string  `json:"word"`
	Kind    string  `json:"kind,omitempty"`
	Pkg     string  `json:"pkg,omitempty"`
	Menu    string  `json:"menu,omitempty"`
	Snippet string  `json:"snippet,omitempty"`
	Args    []Entry `json:"args,omitempty"`
}

// Builder converts omnils records into entries. Build is pure: the same
// record with the same Columns always yields the same Entry.
type Builder struct {
	cols Columns
}

// NewBuilder returns a Builder rendering menus with the given geometry.
func NewBuilder(cols Columns) *Builder {
	return &Builder{cols: cols}
}

// Build derives the completion entry for one symbol. The base menu is
// assembled from the owning package, the kind label and the doc title;
// kind dispatch then attaches the snippet and, for functions, the
// argument sub-entries. A word using data-frame `$` notation gets the
// variable menu last, whatever its kind (the snippet is untouched).
func (b *Builder) Build(word, kind, pkg, info string) Entry {
	parsed := omnils.ParseInfo(info)

	e := Entry{Word: word, Kind: kind, Pkg: pkg}
	e.Menu = b.menu(
		b.column(pkg, b.cols.Col1, true),
		b.column(kind, b.cols.Col2, false),
		parsed.Title,
	)

	switch ParseKind(kind) {
	case KindFunction:
		b.buildFunction(&e, parsed.Args, info)
	case KindDataFrame, KindTibble:
		e.Snippet = word + " %>%$1"
	case KindPackage:
		// Package menus reuse the raw info field as a free-text
		// description; it is padded but never truncated.
		e.Snippet = word + "::$1"
		e.Menu = b.menu(b.column("package", b.cols.Col1, false), info, "")
	case KindArgument:
		b.buildArgument(&e)
	case KindOther:
		// generic menu only, no snippet
	}

	if strings.Contains(word, "$") {
		e.Menu = b.menu(b.column("variable", b.cols.Col1, false), kind, "")
	}

	return e
}

// buildFunction attaches the call snippet and one argument sub-entry
// per token, skipping the NO_ARGS sentinel and repeats of `...`. An
// empty info field degrades to a bare-cursor snippet with no args.
func (b *Builder) buildFunction(e *Entry, args []string, info string) {
	if info == "" {
		e.Snippet = e.Word + "($1)"
		return
	}

	e.Snippet = functionSnippet(e.Word, args)

	seenDots := false
	for _, arg := range args {
		if arg == omnils.NoArgs {
			continue
		}
		if arg == "..." {
			if seenDots {
				continue
			}
			seenDots = true
		}
		e.Args = append(e.Args, b.Build(arg, "argument", "", ""))
	}
}

// buildArgument rewrites a "name = default" word into the bare
// parameter name, surfacing the default in the menu and as the snippet
// placeholder. A double-quoted default keeps its quotes outside the
// placeholder so accepting it still yields a string literal.
func (b *Builder) buildArgument(e *Entry) {
	parts := strings.Split(e.Word, "=")
	name := strings.TrimSpace(parts[0])
	def := ""
	if len(parts) == 2 {
		def = strings.TrimSpace(parts[1])
	}
	e.Word = name

	col2 := ""
	if def != "" {
		col2 = "= " + def
	}
	e.Menu = b.menu(b.column("argument", b.cols.Col1, false), col2, "")

	switch {
	case def == "":
		e.Snippet = name + " = $1"
	case len(def) >= 2 && strings.HasPrefix(def, `"`) && strings.HasSuffix(def, `"`):
		e.Snippet = name + ` = "${1:` + def[1:len(def)-1] + `}"`
	default:
		e.Snippet = name + " = ${1:" + def + "}"
	}
}

// column renders one fixed-width column value: empty when the value is
// empty or the column is configured too narrow, otherwise truncated to
// the width (curly-bracketed for the package column).
func (b *Builder) column(value string, width int, brackets bool) string {
	if value == "" || width < minColumn {
		return ""
	}
	if brackets {
		return "{" + truncate(value, width-3) + "}"
	}
	return truncate(value, width-1)
}

// menu joins up to three column values: the first two only when their
// configured width clears the minimum, the third (the doc title)
// always and untruncated. A single populated part is returned verbatim.
func (b *Builder) menu(col1, col2, col3 string) string {
	if b.cols.Col1 < minColumn {
		col1 = ""
	}
	if b.cols.Col2 < minColumn {
		col2 = ""
	}

	present := 0
	for _, c := range []string{col1, col2, col3} {
		if c != "" {
			present++
		}
	}
	if present == 1 {
		if col1 != "" {
			return col1
		}
		if col2 != "" {
			return col2
		}
		return col3
	}

	var sb strings.Builder
	if col1 != "" {
		fmt.Fprintf(&sb, "%-*s ", b.cols.Col1-1, col1)
	}
	if col2 != "" {
		fmt.Fprintf(&sb, "%-*s ", b.cols.Col2-1, col2)
	}
	sb.WriteString(col3)
	return strings.TrimSpace(sb.String())
}

// truncate cuts s to at most n bytes. Omnils data is ASCII.
func truncate(s string, n int) string {
	if n >= 0 && len(s) > n {
		return s[:n]
	}
	return s
}
