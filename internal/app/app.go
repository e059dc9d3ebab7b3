package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"BrandMember/internal/config"
	"BrandMember/internal/domain"
	"BrandMember/internal/infrastructure/catalog"
	"BrandMember/internal/infrastructure/platform"
	"BrandMember/internal/logging"
	"BrandMember/internal/screening"
	"BrandMember/internal/usecase"
)

// Application wires configuration into the enrollment campaign.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	catalog  *catalog.Cache
	campaign *usecase.Campaign
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.File)
	}

	client := platform.NewClient(nil, cfg.UserAgent, cfg.Platform.Timeout)
	resolver := platform.NewVendorResolver(client, cfg.Platform.ShopURL, baseLogger.With("component", "vendor"))
	api := platform.NewMemberAPI(client, resolver, cfg.Platform, cfg.Registrant, baseLogger.With("component", "platform"))
	cache := catalog.NewCache(cfg.CatalogFile, cfg.CatalogURL, client, baseLogger.With("component", "catalog"))

	campaign := usecase.NewCampaign(usecase.CampaignDeps{
		Profiles:  api,
		Inspector: api,
		Enroller:  api,
		Policy:    screening.Policy{MinBean: cfg.Screening.MinBean, Voucher: cfg.Screening.Voucher},
		Threads:   cfg.Threads,
		Logger:    baseLogger.With("component", "campaign"),
	})

	return &Application{cfg: cfg, logger: baseLogger, catalog: cache, campaign: campaign}
}

// Run loads the shop catalog and drives one full enrollment pass.
func (a *Application) Run(ctx context.Context) error {
	doc, err := a.catalog.Load(ctx)
	if err != nil {
		var corrupt *catalog.CorruptError
		switch {
		case errors.As(err, &corrupt):
			return fmt.Errorf("%w (the damaged file was removed; run again to rebuild it from the remote copy)", err)
		case errors.Is(err, catalog.ErrMissing):
			return fmt.Errorf("%w (place a valid %s next to the binary or configure shop_id_url)", err, a.cfg.CatalogFile)
		}
		return err
	}

	ids := doc.IDs()
	a.logger.Info("catalog loaded", "updated", doc.UpdateTime, "shops", len(ids))

	if len(a.cfg.Cookies) == 0 {
		return errors.New("no accounts configured")
	}

	accounts := make([]domain.Account, 0, len(a.cfg.Cookies))
	for _, cookie := range a.cfg.Cookies {
		accounts = append(accounts, domain.Account{Cookie: cookie})
	}

	return a.campaign.Run(ctx, accounts, ids)
}
