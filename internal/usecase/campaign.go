package usecase

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"BrandMember/internal/domain"
	"BrandMember/internal/ports"
	"BrandMember/internal/screening"
)

// CampaignDeps wires all driven adapters into the enrollment campaign.
type CampaignDeps struct {
	Profiles  ports.ProfileService
	Inspector ports.RewardInspector
	Enroller  ports.Enroller
	Policy    screening.Policy
	Threads   int
	Logger    *slog.Logger
}

// Campaign walks every account over the shop catalog and claims the signup
// rewards that pass screening.
type Campaign struct {
	profiles  ports.ProfileService
	inspector ports.RewardInspector
	enroller  ports.Enroller
	policy    screening.Policy
	threads   int
	logger    *slog.Logger
}

// NewCampaign constructs the orchestration component.
func NewCampaign(deps CampaignDeps) *Campaign {
	threads := deps.Threads
	if threads < 1 {
		threads = 1
	}
	return &Campaign{
		profiles:  deps.Profiles,
		inspector: deps.Inspector,
		enroller:  deps.Enroller,
		policy:    deps.Policy,
		threads:   threads,
		logger:    deps.Logger,
	}
}

// Run processes accounts one after another. A dead session skips that account
// and the run continues. Each live account fans out over interleaved slices
// of the catalog; the worker group is waited on before the next account
// starts, so nothing is left in flight at process exit.
func (c *Campaign) Run(ctx context.Context, accounts []domain.Account, shopIDs []string) error {
	for _, acct := range accounts {
		profile, err := c.profiles.Profile(ctx, acct)
		if err != nil {
			c.logger.Error("cookie rejected", "account", acct.Tail(), "error", err)
			continue
		}
		c.logger.Info("account ready", "nickname", profile.Nickname, "beans", profile.BeanNum)

		g, gctx := errgroup.WithContext(ctx)
		for _, slice := range Partition(shopIDs, c.threads) {
			slice := slice
			g.Go(func() error {
				c.walkSlice(gctx, acct, slice)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}
	return nil
}

// Partition splits ids into n interleaved slices: slice k holds the elements
// at positions congruent to k mod n, in catalog order. The slices are
// pairwise disjoint and their union is exactly ids.
func Partition(ids []string, n int) [][]string {
	if n < 1 {
		n = 1
	}
	slices := make([][]string, n)
	for i, id := range ids {
		slices[i%n] = append(slices[i%n], id)
	}
	return slices
}

// walkSlice runs inspect -> screen -> enroll for each shop id in order. Any
// failure or rejection only skips that storefront; the rest of the slice
// still gets its turn.
func (c *Campaign) walkSlice(ctx context.Context, acct domain.Account, ids []string) {
	for _, shopID := range ids {
		offer, ok, err := c.inspector.Inspect(ctx, acct, shopID)
		if err != nil || !ok {
			continue // adapters already logged any failure
		}
		if !c.policy.Accept(offer.Kind, offer.Magnitude) {
			continue
		}
		enrolled, err := c.enroller.Enroll(ctx, acct, shopID, offer.ActivityID)
		if err != nil || !enrolled {
			continue
		}
		c.logger.Info("membership opened",
			"shop", shopID,
			"reward", offer.Magnitude,
			"kind", string(offer.Kind),
		)
	}
}
