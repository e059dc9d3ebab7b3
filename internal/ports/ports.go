package ports

import (
	"context"

	"BrandMember/internal/domain"
)

// ProfileService verifies that an account's session is still live.
type ProfileService interface {
	Profile(ctx context.Context, acct domain.Account) (domain.UserProfile, error)
}

// RewardInspector determines whether a storefront offers a signup reward to
// the account. ok=false means there is nothing to evaluate (already a member,
// no rules, no recognized prize); err reports transport or parse trouble.
type RewardInspector interface {
	Inspect(ctx context.Context, acct domain.Account, shopID string) (domain.RewardOffer, bool, error)
}

// Enroller performs the join-as-member call. true means newly enrolled;
// an "already a member" response counts as false.
type Enroller interface {
	Enroll(ctx context.Context, acct domain.Account, shopID, activityID string) (bool, error)
}

// VendorResolver maps a public shop id to the platform's internal vendor id.
type VendorResolver interface {
	Resolve(ctx context.Context, shopID string) (string, error)
}
