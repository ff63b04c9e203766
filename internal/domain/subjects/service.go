package subjects

import (
	"context"
	"errors"
	"strings"
	"time"

	"attendance-engine/internal/domain/schedule"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name string
}

// Create da de alta un sujeto (onboarding mínimo; perfiles completos y
// roles viven en otro subsistema).
func (s *Service) Create(ctx context.Context, in CreateInput) (Subject, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Subject{}, ErrInvalidInput
	}

	now := s.now()
	subj := Subject{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Records:   make(map[string]Record),
		Events:    make(map[schedule.Category]map[string]EventEntry),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, subj); err != nil {
		return Subject{}, err
	}
	return subj, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Subject, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Subject{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Subject, error) {
	return s.repo.List(ctx)
}
