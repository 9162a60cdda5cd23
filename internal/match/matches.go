package match

import "github.com/xonecas/rmatch/internal/omnils"

// FromOmnils converts omnils cache lines into entries, one per
// well-formed line, preserving input order. Lines with too few fields
// are dropped silently; a bad line should not break completion.
func (b *Builder) FromOmnils(lines []string) []Entry {
	var entries []Entry
	for _, line := range lines {
		rec, ok := omnils.ParseLine(line)
		if !ok {
			continue
		}
		entries = append(entries, b.Build(rec.Word, rec.Kind, rec.Pkg, rec.Info))
	}
	return entries
}

// FromPkgDesc converts pkg_descriptions lines (tab-separated package
// name and description) into package entries, preserving input order.
func (b *Builder) FromPkgDesc(lines []string) []Entry {
	var entries []Entry
	for _, line := range lines {
		rec, ok := omnils.ParsePkgLine(line)
		if !ok {
			continue
		}
		entries = append(entries, b.Build(rec.Word, rec.Kind, "", rec.Info))
	}
	return entries
}
