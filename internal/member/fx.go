package member

import (
	"github.com/PelvK/club-sarmiento-management-sub000/internal/member/repository"
	"github.com/PelvK/club-sarmiento-management-sub000/internal/member/service"
	"go.uber.org/fx"
)

var Module = fx.Module("member.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
