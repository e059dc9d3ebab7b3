package domain

// RewardKind classifies the signup prize a storefront advertises.
type RewardKind string

const (
	RewardCurrency RewardKind = "currency"
	RewardVoucher  RewardKind = "voucher"
	RewardOther    RewardKind = "other"
)

// Account is one authenticated platform session, identified by its cookie.
type Account struct {
	Cookie string
}

// Tail returns the trailing slice of the credential, enough to tell accounts
// apart in log lines without leaking the whole cookie.
func (a Account) Tail() string {
	const n = 15
	if len(a.Cookie) <= n {
		return a.Cookie
	}
	return a.Cookie[len(a.Cookie)-n:]
}

// UserProfile is the result of the session liveness check.
type UserProfile struct {
	Nickname string
	BeanNum  string
}

// RewardOffer describes the reward a storefront hands out for joining, plus
// the activity token required to actually claim it.
type RewardOffer struct {
	Kind       RewardKind
	Magnitude  string
	ActivityID string
}

// EnrollmentResult summarizes one join attempt; only its log line survives.
type EnrollmentResult struct {
	Account   string
	ShopID    string
	Kind      RewardKind
	Magnitude string
	Enrolled  bool
}
