package match

import (
	"strconv"
	"strings"

	"github.com/xonecas/rmatch/internal/omnils"
)

// functionSnippet builds the insertion template for a function call:
// numbered placeholders for every mandatory argument, a bare $1 cursor
// when all arguments are optional, and a closed pair of parens for the
// NO_ARGS sentinel.
func functionSnippet(word string, args []string) string {
	var b strings.Builder
	b.WriteString(word)
	b.WriteByte('(')

	if len(args) > 0 && args[0] == omnils.NoArgs {
		b.WriteByte(')')
		return b.String()
	}

	mand := mandatoryArgs(args)
	for i, arg := range mand {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("${")
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteByte(':')
		b.WriteString(arg)
		b.WriteByte('}')
	}
	if len(mand) == 0 {
		b.WriteString("$1")
	}

	b.WriteByte(')')
	return b.String()
}

// mandatoryArgs selects the tokens without a default value. The
// variadic marker `...` counts only on its first occurrence; upstream
// data should never repeat it, but a repeat is dropped rather than
// numbered twice.
func mandatoryArgs(args []string) []string {
	var mand []string
	seenDots := false
	for _, arg := range args {
		if strings.Contains(arg, "=") {
			continue
		}
		if arg == "..." {
			if seenDots {
				continue
			}
			seenDots = true
		}
		mand = append(mand, arg)
	}
	return mand
}
