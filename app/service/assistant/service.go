package assistant

import (
	"context"
	"fmt"
	"log/slog"

	"sahaya/app/config"
	"sahaya/app/service/guidance"
	"sahaya/app/service/history"
	"sahaya/app/service/resolver"

	_ "embed"

	"github.com/samber/do"
	"github.com/tmc/langchaingo/prompts"
)

//go:embed chat_prompt.txt
var chatPromptTemplate string

//go:embed support_prompt.txt
var supportPromptTemplate string

//go:embed threat_prompt.txt
var threatPromptTemplate string

const (
	ModelTypeGemini = "gemini"
	ModelTypeRules  = "rules"
)

type Reply struct {
	Text      string
	ModelType string
}

// Service turns an inbound concern into guidance text. In gemini mode the
// flavored prompt goes through the provider fallback chain, in rules mode
// through the keyword router. Either way the exchange lands in the
// conversation log as exactly one user turn and one assistant turn.
type Service struct {
	cfg         *config.Config
	resolverSvc *resolver.Service
	historySvc  *history.Service

	chatPrompt    prompts.PromptTemplate
	supportPrompt prompts.PromptTemplate
	threatPrompt  prompts.PromptTemplate
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	if cfg.Safety.Mode == ModelTypeGemini && cfg.Gemini.Token == "" {
		slog.Warn("Gemini API key is not set, degrading to rule-based responses")
		cfg.Safety.Mode = ModelTypeRules
	}

	return &Service{
		cfg:           cfg,
		resolverSvc:   do.MustInvoke[*resolver.Service](di),
		historySvc:    do.MustInvoke[*history.Service](di),
		chatPrompt:    prompts.NewPromptTemplate(chatPromptTemplate, []string{"message"}),
		supportPrompt: prompts.NewPromptTemplate(supportPromptTemplate, []string{"concern"}),
		threatPrompt:  prompts.NewPromptTemplate(threatPromptTemplate, []string{"threat"}),
	}, nil
}

func (s *Service) Chat(ctx context.Context, message string) Reply {
	return s.respond(ctx, s.chatPrompt, map[string]any{"message": message}, message)
}

func (s *Service) Support(ctx context.Context, concern string) Reply {
	inbound := "I'm feeling: " + concern

	return s.respond(ctx, s.supportPrompt, map[string]any{"concern": concern}, inbound)
}

func (s *Service) Threat(ctx context.Context, threat string) Reply {
	inbound := "Emergency situation: " + threat

	return s.respond(ctx, s.threatPrompt, map[string]any{"threat": threat}, inbound)
}

func (s *Service) AreaQuestion(ctx context.Context, areaName, timeOfDay string) Reply {
	message := fmt.Sprintf("Is the %s area safe at %s?", areaName, timeOfDay)

	return s.respond(ctx, s.chatPrompt, map[string]any{"message": message}, message)
}

func (s *Service) respond(ctx context.Context, tmpl prompts.PromptTemplate, values map[string]any, inbound string) Reply {
	s.historySvc.Append(history.RoleUser, inbound)

	var reply Reply

	if s.cfg.Safety.Mode == ModelTypeGemini {
		prompt, err := tmpl.Format(values)
		if err != nil {
			slog.Error("Failed to render prompt template", "error", err)
			prompt = inbound
		}

		resolution := s.resolverSvc.Resolve(ctx, prompt)
		reply = Reply{
			Text:      resolution.Text,
			ModelType: ModelTypeGemini,
		}
	} else {
		reply = Reply{
			Text:      guidance.Route(inbound).Body,
			ModelType: ModelTypeRules,
		}
	}

	s.historySvc.Append(history.RoleAssistant, reply.Text)

	return reply
}
