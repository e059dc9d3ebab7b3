package platform

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"

	"BrandMember/internal/config"
	"BrandMember/internal/domain"
	"BrandMember/internal/ports"
)

// Fixed client identification the membership API expects on every call.
const (
	appID         = "jd_shop_member"
	clientName    = "H5"
	clientVersion = "9.2.0"
	clientUUID    = "88888"
	channelID     = 406
)

// Prize names the platform uses for the two reward kinds we recognize.
const (
	prizeBean    = "京豆"
	prizeVoucher = "元红包"
)

// MemberAPI talks to the platform's membership surface: session check,
// reward-rule inspection, and the enrollment call itself.
type MemberAPI struct {
	client     *Client
	resolver   ports.VendorResolver
	platform   config.PlatformConfig
	registrant config.RegistrantConfig
	logger     *slog.Logger
}

var _ ports.ProfileService = (*MemberAPI)(nil)
var _ ports.RewardInspector = (*MemberAPI)(nil)
var _ ports.Enroller = (*MemberAPI)(nil)

// NewMemberAPI builds the adapter from configuration.
func NewMemberAPI(client *Client, resolver ports.VendorResolver, platform config.PlatformConfig, registrant config.RegistrantConfig, logger *slog.Logger) *MemberAPI {
	return &MemberAPI{
		client:     client,
		resolver:   resolver,
		platform:   platform,
		registrant: registrant,
		logger:     logger,
	}
}

type userInfoResponse struct {
	Msg  string `json:"msg"`
	Data struct {
		UserInfo struct {
			BaseInfo struct {
				Nickname string `json:"nickname"`
			} `json:"baseInfo"`
		} `json:"userInfo"`
		AssetInfo struct {
			BeanNum json.Number `json:"beanNum"`
		} `json:"assetInfo"`
	} `json:"data"`
}

// Profile fetches the account's user info to verify the session is live.
func (m *MemberAPI) Profile(ctx context.Context, acct domain.Account) (domain.UserProfile, error) {
	body, err := m.client.Get(ctx, "user info", m.platform.UserInfoURL, nil, acct, m.platform.UserInfoHost)
	if err != nil {
		m.logger.Error("user info failed", "account", acct.Tail(), "error", err)
		return domain.UserProfile{}, err
	}

	var resp userInfoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		perr := &ParseError{Op: "user info", Body: excerpt(body), Err: err}
		m.logger.Error("user info unreadable", "account", acct.Tail(), "body", perr.Body)
		return domain.UserProfile{}, perr
	}
	if resp.Msg != "success" {
		return domain.UserProfile{}, &ParseError{Op: "user info", Body: excerpt(body)}
	}

	return domain.UserProfile{
		Nickname: resp.Data.UserInfo.BaseInfo.Nickname,
		BeanNum:  resp.Data.AssetInfo.BeanNum.String(),
	}, nil
}

type openCardRequest struct {
	VenderID string `json:"venderId"`
	Channel  int    `json:"channel"`
}

type openCardResponse struct {
	Success bool `json:"success"`
	Result  *struct {
		UserInfo struct {
			OpenCardStatus bool `json:"openCardStatus"`
		} `json:"userInfo"`
		InterestsRuleList []struct {
			PrizeName      string `json:"prizeName"`
			DiscountString string `json:"discountString"`
			InterestsInfo  struct {
				ActivityID json.Number `json:"activityId"`
			} `json:"interestsInfo"`
		} `json:"interestsRuleList"`
	} `json:"result"`
}

// Inspect asks the platform for the storefront's member-enrollment rules and
// returns the first rule whose prize is one of the recognized kinds. ok=false
// means nothing is on offer: the call was refused, the account already holds
// the membership, or no recognized prize appears in the rule list.
func (m *MemberAPI) Inspect(ctx context.Context, acct domain.Account, shopID string) (domain.RewardOffer, bool, error) {
	vendorID, err := m.resolver.Resolve(ctx, shopID)
	if err != nil {
		return domain.RewardOffer{}, false, err
	}

	payload, err := json.Marshal(openCardRequest{VenderID: vendorID, Channel: channelID})
	if err != nil {
		return domain.RewardOffer{}, false, err
	}

	body, err := m.client.Get(ctx, "open card info", m.platform.ActionURL, m.actionParams("getShopOpenCardInfo", payload), acct, m.platform.ActionHost)
	if err != nil {
		m.logger.Error("open card info failed", "shop", shopID, "error", err)
		return domain.RewardOffer{}, false, err
	}

	var resp openCardResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		perr := &ParseError{Op: "open card info", Body: excerpt(body), Err: err}
		m.logger.Error("open card info unreadable", "shop", shopID, "body", perr.Body)
		return domain.RewardOffer{}, false, perr
	}

	if !resp.Success || resp.Result == nil {
		return domain.RewardOffer{}, false, nil
	}
	if resp.Result.UserInfo.OpenCardStatus || len(resp.Result.InterestsRuleList) == 0 {
		return domain.RewardOffer{}, false, nil
	}

	// First recognized prize wins; rules of other kinds are passed over even
	// when they appear earlier in the list.
	for _, rule := range resp.Result.InterestsRuleList {
		var kind domain.RewardKind
		switch rule.PrizeName {
		case prizeBean:
			kind = domain.RewardCurrency
		case prizeVoucher:
			kind = domain.RewardVoucher
		default:
			continue
		}
		return domain.RewardOffer{
			Kind:       kind,
			Magnitude:  rule.DiscountString,
			ActivityID: rule.InterestsInfo.ActivityID.String(),
		}, true, nil
	}

	return domain.RewardOffer{}, false, nil
}

type registerExtend struct {
	Sex      string `json:"v_sex"`
	Birthday string `json:"v_birthday"`
	Name     string `json:"v_name"`
}

type bindRequest struct {
	VenderID             string         `json:"venderId"`
	ShopID               string         `json:"shopId"`
	BindByVerifyCodeFlag int            `json:"bindByVerifyCodeFlag"`
	RegisterExtend       registerExtend `json:"registerExtend"`
	WriteChildFlag       int            `json:"writeChildFlag"`
	ActivityID           json.Number    `json:"activityId"`
	Channel              int            `json:"channel"`
}

type bindResponse struct {
	Success  bool   `json:"success"`
	BusiCode string `json:"busiCode"`
	Message  string `json:"message"`
	Result   *struct {
		GiftInfo json.RawMessage `json:"giftInfo"`
	} `json:"result"`
}

// Enroll performs the join-as-member call for one storefront. true means the
// account is newly enrolled with a gift attached; a success response without
// gift info (typically "already a member") counts as false. One attempt, no
// retries.
func (m *MemberAPI) Enroll(ctx context.Context, acct domain.Account, shopID, activityID string) (bool, error) {
	vendorID, err := m.resolver.Resolve(ctx, shopID)
	if err != nil {
		return false, err
	}

	payload, err := json.Marshal(bindRequest{
		VenderID:             vendorID,
		ShopID:               shopID,
		BindByVerifyCodeFlag: 1,
		RegisterExtend: registerExtend{
			Sex:      m.registrant.Sex,
			Birthday: m.registrant.Birthday,
			Name:     m.registrant.Name,
		},
		ActivityID: json.Number(activityID),
		Channel:    channelID,
	})
	if err != nil {
		return false, err
	}

	body, err := m.client.Get(ctx, "enroll", m.platform.ActionURL, m.actionParams("bindWithVender", payload), acct, m.platform.ActionHost)
	if err != nil {
		m.logger.Error("enroll failed", "shop", shopID, "error", err)
		return false, err
	}

	var resp bindResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		perr := &ParseError{Op: "enroll", Body: excerpt(body), Err: err}
		m.logger.Error("enroll response unreadable", "shop", shopID, "body", perr.Body)
		return false, perr
	}

	if !resp.Success || resp.Result == nil {
		return false, nil
	}
	gift := string(resp.Result.GiftInfo)
	return gift != "" && gift != "null", nil
}

func (m *MemberAPI) actionParams(functionID string, payload []byte) url.Values {
	return url.Values{
		"appid":         {appID},
		"functionId":    {functionID},
		"body":          {string(payload)},
		"client":        {clientName},
		"clientVersion": {clientVersion},
		"uuid":          {clientUUID},
	}
}
