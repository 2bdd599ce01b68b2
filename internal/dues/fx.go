package dues

import (
	"github.com/PelvK/club-sarmiento-management-sub000/internal/dues/repository"
	"github.com/PelvK/club-sarmiento-management-sub000/internal/dues/service"
	"go.uber.org/fx"
)

var Module = fx.Module("dues.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
