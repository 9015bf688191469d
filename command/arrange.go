package command

import (
	"sort"
	"strings"
)

// Arrange returns the commands of one element in the order they are
// written, leaving cmds untouched:
//
//  1. commands sharing kind, start and end collapse to the first one added,
//  2. the rest is sorted by start time, ties keeping insertion order,
//  3. a command is dropped when another command of the same kind starts
//     strictly before and ends strictly after it.
//
// Loops are compared by identity: their children differ even when their
// spans match, so they never collapse and are never dropped.
func Arrange(cmds []Command) []Command {
	seen := make(map[Key]struct{}, len(cmds))
	unique := make([]Command, 0, len(cmds))
	for _, c := range cmds {
		if c == nil {
			continue
		}
		if c.Kind() != KindLoop {
			k := KeyOf(c)
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
		}
		unique = append(unique, c)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return Less(unique[i], unique[j])
	})

	out := make([]Command, 0, len(unique))
	for i, c := range unique {
		if !contained(unique, i) {
			out = append(out, c)
		}
	}
	return out
}

// contained reports whether cmds[i] lies strictly inside another command of
// the same kind.
func contained(cmds []Command, i int) bool {
	c := cmds[i]
	if c.Kind() == KindLoop {
		return false
	}
	for j, o := range cmds {
		if j == i || o.Kind() != c.Kind() {
			continue
		}
		if o.Start() < c.Start() && o.End() > c.End() {
			return true
		}
	}
	return false
}

// RenderAll arranges cmds and writes one line per surviving command, each
// line prefixed with indent and terminated by a newline.
func RenderAll(cmds []Command, indent string) string {
	var b strings.Builder
	for _, c := range Arrange(cmds) {
		b.WriteString(indent)
		b.WriteString(c.Render())
		b.WriteByte('\n')
	}
	return b.String()
}
