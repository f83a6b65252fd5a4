// Package sku derives human readable stock keeping unit codes.
package sku

import (
	"fmt"
	"strings"
	"time"
)

type Option func(*Generator)

// WithClock overrides the time source. Useful for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// Generator builds codes of the form NN-CC-YYYY-TTTTT where NN and CC are
// the first two letters of the item and category names and TTTTT is derived
// from the current time in milliseconds.
//
// Codes are not globally unique. Callers rely on the storage unique
// constraint and surface a collision as a conflict.
type Generator struct {
	now func() time.Time
}

func NewGenerator(opts ...Option) *Generator {
	g := &Generator{now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns the code for name and categoryName. Both are expected to
// hold at least two characters; shorter values are used whole.
func (g *Generator) Generate(name, categoryName string) string {
	now := g.now()

	return fmt.Sprintf("%s-%s-%d-%05d",
		prefix(name),
		prefix(categoryName),
		now.Year(),
		now.UnixMilli()%100_000,
	)
}

func prefix(s string) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) > 2 {
		runes = runes[:2]
	}
	return strings.ToUpper(string(runes))
}
