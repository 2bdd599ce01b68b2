package migration

import (
	"strings"

	"github.com/PelvK/club-sarmiento-management-sub000/internal/config"
	duesdomain "github.com/PelvK/club-sarmiento-management-sub000/internal/dues/domain"
	memberdomain "github.com/PelvK/club-sarmiento-management-sub000/internal/member/domain"
	paymentdomain "github.com/PelvK/club-sarmiento-management-sub000/internal/payment/domain"
	quotedomain "github.com/PelvK/club-sarmiento-management-sub000/internal/quote/domain"
	sportdomain "github.com/PelvK/club-sarmiento-management-sub000/internal/sport/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		// The versioned SQL migrations target postgres; other dialects fall
		// back to the model schema.
		if strings.EqualFold(cfg.DBType, "postgres") {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return RunMigrations(sqlDB)
		}

		return conn.AutoMigrate(
			&sportdomain.Sport{},
			&quotedomain.Quote{},
			&memberdomain.Member{},
			&memberdomain.SportEnrollment{},
			&duesdomain.PaymentGeneration{},
			&duesdomain.Due{},
			&paymentdomain.Receipt{},
		)
	}),
)
