package sport

import (
	"github.com/PelvK/club-sarmiento-management-sub000/internal/sport/repository"
	"github.com/PelvK/club-sarmiento-management-sub000/internal/sport/service"
	"go.uber.org/fx"
)

var Module = fx.Module("sport.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
