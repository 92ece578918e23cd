package components

import (
	"venue-booking/internal/infra/uow"
	"venue-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		// UnitOfWork
		uow.NewPostgresUoW,
		// Reads outside transactions share the pool
		func(u shared.UnitOfWork) shared.CommandReads {
			return u.CommandReads()
		},
	),
)
