package resolver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"sahaya/app/client/gemini"
	"sahaya/app/config"

	_ "embed"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/do"
	"github.com/sashabaranov/go-openai"
)

//go:embed fallback_high_demand.txt
var highDemandText string

//go:embed fallback_unavailable.txt
var unavailableText string

// Provider is a single named upstream model tried during resolution.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

type Service struct {
	providers []Provider
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)
	geminiClient := do.MustInvoke[*gemini.Client](di)

	providers := make([]Provider, 0, len(cfg.Gemini.Models)+1)
	for _, model := range cfg.Gemini.Models {
		providers = append(providers, &geminiProvider{
			client: geminiClient,
			model:  model,
		})
	}

	if cfg.OpenAI.Token != "" && cfg.OpenAI.Model != "" {
		providers = append(providers, newOpenAIProvider(cfg.OpenAI))
	}

	return NewWithProviders(providers), nil
}

func NewWithProviders(providers []Provider) *Service {
	return &Service{providers: providers}
}

// Resolve tries each provider in priority order and returns the first
// well-formed success. The loop is strictly sequential, a rate limit or any
// other failure moves on to the next provider. Resolve never fails: once the
// list is exhausted it degrades to a static safety text.
func (s *Service) Resolve(ctx context.Context, prompt string) Resolution {
	attempts := make([]Attempt, 0, len(s.providers))

	for _, provider := range s.providers {
		slog.Info("Trying model", "model", provider.Name())

		text, err := provider.Generate(ctx, prompt)
		attempt := classify(provider.Name(), err)
		attempts = append(attempts, attempt)

		if err == nil {
			slog.Info("Model succeeded", "model", provider.Name())

			return Resolution{
				Text:     text,
				Model:    provider.Name(),
				Attempts: attempts,
			}
		}

		slog.Warn("Model failed, falling back",
			"model", provider.Name(),
			"outcome", attempt.Outcome.String(),
			"error", err,
		)
	}

	slog.Error("All models exhausted",
		"attempts", len(attempts),
		"telegram", true,
	)

	return Resolution{
		Text:      exhaustedText(attempts),
		Exhausted: true,
		Attempts:  attempts,
	}
}

func exhaustedText(attempts []Attempt) string {
	allRateLimited := len(attempts) > 0 && pie.All(attempts, func(a Attempt) bool {
		return a.Outcome == OutcomeRateLimited
	})

	if allRateLimited {
		return highDemandText
	}

	return unavailableText
}

func classify(model string, err error) Attempt {
	attempt := Attempt{Model: model, Err: err}

	if err == nil {
		attempt.Outcome = OutcomeSuccess
		return attempt
	}

	var statusErr *gemini.StatusError
	var apiErr *openai.APIError
	var netErr net.Error

	switch {
	case errors.Is(err, gemini.ErrRateLimited):
		attempt.Outcome = OutcomeRateLimited
		attempt.Status = http.StatusTooManyRequests

	case errors.Is(err, gemini.ErrMalformed), errors.Is(err, errNoCompletion):
		attempt.Outcome = OutcomeMalformed

	case errors.As(err, &statusErr):
		attempt.Outcome = OutcomeHTTPError
		attempt.Status = statusErr.Code

	case errors.As(err, &apiErr):
		attempt.Status = apiErr.HTTPStatusCode
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			attempt.Outcome = OutcomeRateLimited
		} else {
			attempt.Outcome = OutcomeHTTPError
		}

	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		attempt.Outcome = OutcomeTimeout

	default:
		attempt.Outcome = OutcomeTransport
	}

	return attempt
}

type geminiProvider struct {
	client *gemini.Client
	model  string
}

func (p *geminiProvider) Name() string {
	return p.model
}

func (p *geminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	return p.client.Generate(ctx, p.model, prompt)
}
