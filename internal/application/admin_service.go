package application

import (
	"context"

	"github.com/cartify/auth-service/internal/domain/repository"
)

// AdminService backs the role-gated admin surface.
type AdminService struct {
	Index repository.UserIndex
}

func NewAdminService(index repository.UserIndex) *AdminService {
	return &AdminService{Index: index}
}

// SearchUsers queries the search index over email and full name.
func (s *AdminService) SearchUsers(ctx context.Context, query string, size int) ([]map[string]any, error) {
	if s.Index == nil {
		return []map[string]any{}, nil
	}
	return s.Index.Search(ctx, query, size)
}
