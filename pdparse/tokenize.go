// Package pdparse loads a textual patch into a live pdgraph.Graph (spec
// §4.1, §6): it tokenizes each "#N .../#X ..." directive line, resolves
// object class names to constructors (built-ins first, then abstraction
// files on the search path), expands $N arguments, and wires connections.
package pdparse

import "strings"

// directive is one semicolon-terminated "#N ..." or "#X ..." line, split
// into whitespace-separated tokens with its trailing semicolon stripped.
type directive struct {
	tokens []string
}

func (d directive) at(i int) string {
	if i < 0 || i >= len(d.tokens) {
		return ""
	}
	return d.tokens[i]
}

// splitDirectives breaks a patch file's contents into directives. Patch
// lines are semicolon-terminated and may wrap across physical lines; a
// literal semicolon inside a symbol is escaped as "\;" and is unescaped
// here rather than treated as a terminator.
func splitDirectives(contents string) []directive {
	var directives []directive
	var buf strings.Builder
	runes := []rune(contents)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\\' && i+1 < len(runes) && runes[i+1] == ';' {
			buf.WriteRune(';')
			i++
			continue
		}
		if r == ';' {
			if line := strings.TrimSpace(buf.String()); line != "" {
				directives = append(directives, directive{tokens: strings.Fields(line)})
			}
			buf.Reset()
			continue
		}
		buf.WriteRune(r)
	}
	if line := strings.TrimSpace(buf.String()); line != "" {
		directives = append(directives, directive{tokens: strings.Fields(line)})
	}
	return directives
}
