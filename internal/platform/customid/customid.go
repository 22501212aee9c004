// Package customid generates the human-readable identifiers shown to users,
// e.g. PT-2026-4821 for a patient or HP-2026-1093 for a hospital.
//
// Uniqueness is not checked up front. Assign hands each candidate to an
// insert callback and draws a new one only when the insert reports a
// collision on the identifier's unique constraint, so two concurrent
// creations can never both commit the same identifier.
package customid

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
)

// Kind selects the prefix and random range of an identifier.
type Kind struct {
	Prefix string
	Min    int
	Max    int
}

var (
	Patient       = Kind{Prefix: "PT", Min: 1000, Max: 9999}
	Doctor        = Kind{Prefix: "DC", Min: 1000, Max: 9999}
	HospitalAdmin = Kind{Prefix: "AD", Min: 100, Max: 999}
	Hospital      = Kind{Prefix: "HP", Min: 1000, Max: 9999}
	Appointment   = Kind{Prefix: "AP", Min: 1000, Max: 9999}
)

// DefaultMaxAttempts bounds Assign when the generator is built with 0.
const DefaultMaxAttempts = 25

// ErrExhausted is returned when every attempt collided.
var ErrExhausted = errors.New("custom id space exhausted")

// Generator draws candidates. Clock and random source are injectable so
// tests are deterministic.
type Generator struct {
	now         func() time.Time
	intn        func(n int) int
	maxAttempts int
	isCollision func(error) bool
	logger      zerolog.Logger
}

type Option func(*Generator)

func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithRand sets the source used to draw numbers in [0, n).
func WithRand(intn func(n int) int) Option {
	return func(g *Generator) { g.intn = intn }
}

func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// New builds a generator. isCollision must report whether an insert error is
// a unique violation on the identifier column, and nothing else.
func New(isCollision func(error) bool, opts ...Option) *Generator {
	g := &Generator{
		now:         time.Now,
		intn:        rand.Intn,
		maxAttempts: DefaultMaxAttempts,
		isCollision: isCollision,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Next draws one candidate: {PREFIX}-{year}-{random in [Min, Max]}.
func (g *Generator) Next(k Kind) string {
	n := k.Min + g.intn(k.Max-k.Min+1)
	return Format(k, g.now().Year(), n)
}

func Format(k Kind, year, n int) string {
	return fmt.Sprintf("%s-%d-%d", k.Prefix, year, n)
}

// Assign draws candidates and calls insert with each until insert succeeds.
// A collision triggers another draw; any other error is returned as is.
func (g *Generator) Assign(ctx context.Context, k Kind, insert func(ctx context.Context, id string) error) (string, error) {
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		id := g.Next(k)
		err := insert(ctx, id)
		if err == nil {
			return id, nil
		}
		if !g.isCollision(err) {
			return "", err
		}
		g.logger.Debug().
			Str("prefix", k.Prefix).
			Str("candidate", id).
			Int("attempt", attempt).
			Msg("custom id collision, retrying")
	}

	g.logger.Error().
		Str("prefix", k.Prefix).
		Int("attempts", g.maxAttempts).
		Msg("custom id generation exhausted")
	return "", fmt.Errorf("%s after %d attempts: %w", k.Prefix, g.maxAttempts, ErrExhausted)
}
