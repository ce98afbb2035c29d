package history

import (
	"sync"
	"time"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/do"
)

const maxTurns = 20

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Turn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type Stats struct {
	TotalMessages         int `json:"total_messages"`
	UserMessages          int `json:"user_messages"`
	AssistantMessages     int `json:"ai_messages"`
	AverageResponseLength int `json:"average_response_length"`
}

// Service is the process-wide conversation log, bounded to the most recent
// turns with FIFO eviction. It only lives in memory and is gone on restart.
type Service struct {
	mu    sync.RWMutex
	turns []Turn
}

func New(_ *do.Injector) (*Service, error) {
	return &Service{}, nil
}

func (s *Service) Append(role Role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turn := Turn{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}

	if len(s.turns) >= maxTurns {
		s.turns = append(s.turns[1:], turn)
	} else {
		s.turns = append(s.turns, turn)
	}
}

// Snapshot returns a copy, callers never see the live slice.
func (s *Service) Snapshot() []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Turn, len(s.turns))
	copy(result, s.turns)

	return result
}

func (s *Service) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = nil
}

func (s *Service) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userCount := len(pie.Filter(s.turns, func(t Turn) bool {
		return t.Role == RoleUser
	}))

	totalLength := 0
	for _, t := range s.turns {
		totalLength += len(t.Content)
	}

	total := len(s.turns)
	avgLength := 0
	if total > 0 {
		avgLength = totalLength / total
	}

	return Stats{
		TotalMessages:         total,
		UserMessages:          userCount,
		AssistantMessages:     total - userCount,
		AverageResponseLength: avgLength,
	}
}
