package priceterm

import (
	"github.com/smallbiznis/priceterm/internal/money"
	pricetermdomain "github.com/smallbiznis/priceterm/internal/priceterm/domain"
	"github.com/smallbiznis/priceterm/internal/priceterm/format"
	"github.com/smallbiznis/priceterm/internal/priceterm/repository"
	"github.com/smallbiznis/priceterm/internal/priceterm/service"
	"github.com/smallbiznis/priceterm/internal/priceterm/validation"
	"go.uber.org/fx"
)

var Module = fx.Module("priceterm.service",
	fx.Provide(repository.Provide),
	fx.Provide(validation.New),
	fx.Provide(money.NewFormatter),
	fx.Provide(format.New),
	fx.Provide(service.NewService),
	fx.Provide(func(s *service.Service) pricetermdomain.Service { return s }),
)
