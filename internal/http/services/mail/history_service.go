package mail

import (
	"context"

	"github.com/dropDatabas3/hellomail/internal/domain/repository"
)

// HistoryService consulta el historial de envíos.
type HistoryService interface {
	// List devuelve el historial en orden cronológico. Nunca nil.
	List(ctx context.Context, userID string) ([]repository.HistoryEntry, error)
}

type historyService struct {
	deps Deps
}

// NewHistoryService crea el service de historial.
func NewHistoryService(d Deps) HistoryService {
	return &historyService{deps: d}
}

func (s *historyService) List(ctx context.Context, userID string) ([]repository.HistoryEntry, error) {
	entries, err := s.deps.Users.ListHistory(ctx, userID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []repository.HistoryEntry{}
	}
	return entries, nil
}
