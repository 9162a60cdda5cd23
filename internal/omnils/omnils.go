// Package omnils parses the omnils wire format: control-byte-delimited
// records describing R symbols, written by the R session into its
// completion cache directory. One line describes one symbol. The info
// field of a line multiplexes an argument list and a documentation
// title behind further control bytes, so it gets its own small lexer.
package omnils

import "strings"

// Control bytes of the omnils format.
const (
	fieldSep   = "\x06" // separates record fields
	defaultSep = "\x07" // encodes " = " inside an argument token
	titleStart = "\x08" // terminates the argument list, opens the doc title
	titleEnd   = "\x05" // closes the doc title
)

// NoArgs is the sentinel token for a function with an empty formals list.
const NoArgs = "NO_ARGS"

// Record holds the semantic fields of one omnils line.
type Record struct {
	Word string // symbol name
	Kind string // R type: function, data.frame, package, ...
	Pkg  string // owning package, may be empty
	Info string // raw info field carrying args and/or a doc title
}

// ParseLine splits an omnils line into a Record. Lines with fewer than
// five fields are malformed and reported as !ok. Field 2 (the R
// environment slot) is unused here.
func ParseLine(line string) (Record, bool) {
	parts := strings.Split(line, fieldSep)
	if len(parts) < 5 {
		return Record{}, false
	}
	return Record{Word: parts[0], Kind: parts[1], Pkg: parts[3], Info: parts[4]}, true
}

// ParsePkgLine splits a pkg_descriptions line (package name, tab,
// description). Short lines are reported as !ok.
func ParsePkgLine(line string) (Record, bool) {
	parts := strings.Split(line, "\t")
	if len(parts) < 2 {
		return Record{}, false
	}
	return Record{Word: parts[0], Kind: "package", Info: parts[1]}, true
}

// Info is the structured form of a record's info field.
type Info struct {
	Args  []string // argument tokens, "name" or "name = default"
	Title string   // documentation title, empty when absent
}

// ParseInfo lexes a raw info field. The argument list runs up to the
// first titleStart byte (the whole field when absent) and is split on
// tabs; the title sits between that byte and the last titleEnd byte.
func ParseInfo(raw string) Info {
	if raw == "" {
		return Info{}
	}

	var info Info
	argPart := raw
	if i := strings.Index(raw, titleStart); i >= 0 {
		argPart = raw[:i]
		if j := strings.LastIndex(raw, titleEnd); j > i {
			info.Title = strings.TrimSpace(raw[i+len(titleStart) : j])
		}
	}

	for _, tok := range strings.Split(argPart, "\t") {
		info.Args = append(info.Args, strings.ReplaceAll(tok, defaultSep, " = "))
	}
	return info
}
