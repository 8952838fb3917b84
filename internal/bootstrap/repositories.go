package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/ChocoboBot_Go/internal/database/postgres"
	"github.com/osse101/ChocoboBot_Go/internal/repository"
)

// Repositories holds all repository implementations used by the application.
type Repositories struct {
	Characters repository.Character
	Groups     repository.Group
	Progress   repository.Progress
}

// InitializeRepositories creates all repository implementations.
func InitializeRepositories(dbPool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Characters: postgres.NewCharacterRepository(dbPool),
		Groups:     postgres.NewGroupRepository(dbPool),
		Progress:   postgres.NewProgressRepository(dbPool),
	}
}
