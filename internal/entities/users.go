package entities

import (
	"context"
	"strings"

	"github.com/dyluth/dogroom/internal/domain"
	"github.com/dyluth/dogroom/pkg/entitystore"
)

// CreateUser registers a user under a generated id. The name is trimmed and
// must not be blank.
func (s *Store) CreateUser(ctx context.Context, name string) (domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.User{}, entitystore.InvalidArgument(UserEntity, "name required")
	}
	return s.Users.Create(ctx, domain.User{ID: s.newID(), Name: name})
}
