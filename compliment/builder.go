package compliment

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/jessrhiannon/kudos/llm"
)

// persona is the fixed system instruction for every generation request.
const persona = "You are a kind and clever assistant who writes original, encouraging one-line compliments."

// styleHints is the fixed set of stylistic instructions. One is chosen at
// random per request to vary the output.
var styleHints = []string{
	"Make it sound different every time.",
	"Give it a whimsical tone.",
	"Add a touch of humor.",
	"Keep it poetic but short.",
	"Make it gentle and kind.",
}

// Sampling parameter ranges and the nonce range. The nonce, style hint and
// sampling values exist solely to defeat caching and determinism on the
// remote side; they carry no other meaning.
const (
	temperatureMin = 0.9
	temperatureMax = 1.3
	topPMin        = 0.8
	topPMax        = 1.0
	nonceMin       = 100000
	nonceMax       = 999999
)

// GenerationRequest describes one compliment request. Immutable once built;
// every attempt of an operation resends the same request.
type GenerationRequest struct {
	// Subject is who the compliment is for. Empty means no subject was given.
	Subject string

	// StyleHint is one of the fixed style instructions.
	StyleHint string

	// Temperature is the sampling temperature, in [0.9, 1.3].
	Temperature float64

	// TopP is the nucleus sampling probability, in [0.8, 1.0].
	TopP float64

	// Nonce is a random value embedded in the prompt to discourage the
	// remote service from returning cached text.
	Nonce int
}

// BuildRequest assembles a generation request for the given subject, drawing
// the style hint, sampling parameters and nonce from rng. It never fails and
// performs no I/O.
func BuildRequest(subject string, rng *rand.Rand) GenerationRequest {
	return GenerationRequest{
		Subject:     subject,
		StyleHint:   styleHints[rng.IntN(len(styleHints))],
		Temperature: round2(temperatureMin + rng.Float64()*(temperatureMax-temperatureMin)),
		TopP:        round2(topPMin + rng.Float64()*(topPMax-topPMin)),
		Nonce:       nonceMin + rng.IntN(nonceMax-nonceMin+1),
	}
}

// Messages renders the request as the chat messages sent on the wire.
func (r GenerationRequest) Messages() []llm.Message {
	subject := r.Subject
	if subject == "" {
		subject = "a reader"
	}

	prompt := fmt.Sprintf(
		"Write one short compliment for: %s. %s Each time you're asked, vary the wording. Nonce: %d",
		subject, r.StyleHint, r.Nonce)

	return []llm.Message{
		{Role: "system", Content: persona},
		{Role: "user", Content: prompt},
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
