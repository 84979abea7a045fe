// Package questions asks a generative model for a learning guide and turns
// its answer into a list of questions.
package questions

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/skillhive/skillhive-go/internal/model"
)

// ErrNoGenerator is logged when the adapter was built without a generator,
// typically because no API key is configured.
var ErrNoGenerator = errors.New("no question generator configured")

// Generator sends one prompt and returns the raw text answer.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Adapter struct {
	gen   Generator
	log   zerolog.Logger
	calls *prometheus.CounterVec
}

type Option func(*Adapter)

func WithLogger(l zerolog.Logger) Option {
	return func(a *Adapter) { a.log = l }
}

// WithCallCounter counts generations by outcome under adapter="gemini".
func WithCallCounter(cv *prometheus.CounterVec) Option {
	return func(a *Adapter) { a.calls = cv }
}

func NewAdapter(gen Generator, opts ...Option) *Adapter {
	a := &Adapter{gen: gen, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Generate returns the question list for topic. A failed request is logged
// and yields an empty list.
func (a *Adapter) Generate(ctx context.Context, topic string) model.QuestionList {
	var (
		text string
		err  = ErrNoGenerator
	)
	if a.gen != nil {
		text, err = a.gen.Generate(ctx, Prompt(topic))
	}
	if err != nil {
		a.log.Error().Err(err).Str("topic", topic).Msg("error while generating questions")
		a.count("error")
		return model.QuestionList{}
	}

	qs, strict := Parse(text)
	if !strict {
		a.log.Warn().Str("topic", topic).Int("questions", len(qs)).Msg("model output was not a JSON array; used loose split")
		a.count("loose")
	} else {
		a.count("ok")
	}
	return qs
}

func (a *Adapter) count(outcome string) {
	if a.calls != nil {
		a.calls.WithLabelValues("gemini", outcome).Inc()
	}
}
