package quote

import (
	"github.com/PelvK/club-sarmiento-management-sub000/internal/quote/repository"
	"github.com/PelvK/club-sarmiento-management-sub000/internal/quote/service"
	"go.uber.org/fx"
)

var Module = fx.Module("quote.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
