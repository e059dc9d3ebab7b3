package screening

import (
	"strconv"
	"strings"

	"BrandMember/internal/domain"
)

// Policy decides which reward offers are worth claiming. It is pure and
// total: every kind/magnitude combination yields a verdict, no side effects.
type Policy struct {
	MinBean int
	Voucher bool
}

// Accept reports whether an offer passes the operator's thresholds. Currency
// offers need an integer magnitude at or above the minimum; magnitudes that
// fail to parse are rejected rather than guessed at. Voucher offers pass only
// when the voucher gate is on. Unrecognized kinds never pass.
func (p Policy) Accept(kind domain.RewardKind, magnitude string) bool {
	switch kind {
	case domain.RewardCurrency:
		n, err := strconv.Atoi(strings.TrimSpace(magnitude))
		if err != nil {
			return false
		}
		return n >= p.MinBean
	case domain.RewardVoucher:
		return p.Voucher
	default:
		return false
	}
}
