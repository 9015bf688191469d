package command

import (
	"strconv"
	"strings"
)

// Loop repeats its children LoopCount times starting at its start time.
// Child times are relative to the start of each iteration.
type Loop struct {
	start     int
	LoopCount int
	children  []Command
}

// NewLoop creates an empty loop.
func NewLoop(start any, loopCount int) *Loop {
	return &Loop{start: Millis(start), LoopCount: loopCount}
}

func (l *Loop) Kind() Kind     { return KindLoop }
func (l *Loop) Easing() Easing { return EasingLinear }
func (l *Loop) Start() int     { return l.start }

// End is the time the last iteration finishes.
func (l *Loop) End() int {
	return l.start + l.IterationLength()*max(l.LoopCount, 0)
}

// IterationLength is the end of the latest child, relative to the loop.
func (l *Loop) IterationLength() int {
	var length int
	for _, c := range l.children {
		length = max(length, c.End())
	}
	return length
}

func (*Loop) isCommand() {}

// Add appends a child command. Nil commands and nested loops are ignored;
// the player does not support loops inside loops.
func (l *Loop) Add(c Command) {
	if c == nil || c.Kind() == KindLoop {
		return
	}
	l.children = append(l.children, c)
}

// Remove drops the first child equal to c.
func (l *Loop) Remove(c Command) {
	for i, child := range l.children {
		if Equal(child, c) {
			l.children = append(l.children[:i:i], l.children[i+1:]...)
			return
		}
	}
}

// Children returns the children in insertion order.
func (l *Loop) Children() []Command {
	return append([]Command(nil), l.children...)
}

func (l *Loop) Render() string {
	var b strings.Builder
	b.WriteString(" L,")
	b.WriteString(strconv.Itoa(l.start))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(l.LoopCount))
	for _, c := range Arrange(l.children) {
		b.WriteString("\n ")
		b.WriteString(c.Render())
	}
	return b.String()
}
