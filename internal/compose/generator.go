package compose

import (
	"context"

	"github.com/sirupsen/logrus"
)

const maxGenerateAttempts = 3

// Corrective instructions appended on retry, progressively blunter.
var retryInstructions = map[int]string{
	2: "\n\nThe previous attempt was rejected. Make it shorter and drop the jargon.",
	3: "\n\nFinal attempt: two sentences at most, no jargon at all, plain everyday words only.",
}

// TextService is the generation backend, satisfied by llm.Client.
type TextService interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Generator runs the generate-normalize-validate loop.
type Generator struct {
	service  TextService
	pipeline *Pipeline
	stealth  bool
	log      *logrus.Entry
}

// NewGenerator creates a generator for one account's pipeline. For stealth
// accounts, exhausting all attempts abandons the post instead of shipping
// a truncated best effort.
func NewGenerator(service TextService, pipeline *Pipeline, stealth bool, log *logrus.Entry) *Generator {
	return &Generator{service: service, pipeline: pipeline, stealth: stealth, log: log}
}

// Generate returns validated post text. ok is false only in stealth mode
// when no attempt produced compliant text; the caller must then abandon
// this run's publish without treating it as an error.
func (g *Generator) Generate(ctx context.Context, systemPrompt, userPrompt string) (text string, ok bool, err error) {
	var lastText string

	for attempt := 1; attempt <= maxGenerateAttempts; attempt++ {
		prompt := userPrompt + retryInstructions[attempt]

		raw, err := g.service.Complete(ctx, systemPrompt, prompt)
		if err != nil {
			return "", false, err
		}

		normalized := g.pipeline.Normalize(raw)
		violations := g.pipeline.Validate(normalized)
		if len(violations) == 0 {
			return normalized, true, nil
		}

		lastText = normalized
		g.log.WithFields(logrus.Fields{
			"attempt":    attempt,
			"violations": len(violations),
			"first":      violations[0].String(),
		}).Warn("generated text rejected")
	}

	if g.stealth {
		// A stealth post that still smells promotional must never ship.
		g.log.Warn("stealth validation exhausted, abandoning post")
		return "", false, nil
	}

	g.log.Warn("validation exhausted, truncating for best-effort delivery")
	return Truncate(lastText, MaxPostChars), true, nil
}
