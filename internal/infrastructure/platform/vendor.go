package platform

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"BrandMember/internal/domain"
	"BrandMember/internal/ports"
)

var vendorIDExpr = regexp.MustCompile(`venderId: '(\d+)'`)

// VendorResolver maps a public shop id to the platform's internal vendor id
// by scraping the mobile shop page. The mapping is recomputed on every call;
// the page is cheap and the id is only needed twice per storefront.
type VendorResolver struct {
	client  *Client
	shopURL string
	logger  *slog.Logger
}

var _ ports.VendorResolver = (*VendorResolver)(nil)

// NewVendorResolver wires the gateway with the public shop page endpoint.
func NewVendorResolver(client *Client, shopURL string, logger *slog.Logger) *VendorResolver {
	return &VendorResolver{client: client, shopURL: shopURL, logger: logger}
}

// Resolve fetches the shop page and extracts the first venderId literal found
// in an inline script. A failed resolution disables further processing of the
// storefront; the raw body is logged for diagnosis.
func (r *VendorResolver) Resolve(ctx context.Context, shopID string) (string, error) {
	body, err := r.client.Get(ctx, "vendor lookup", r.shopURL, url.Values{"shopId": {shopID}}, domain.Account{}, "")
	if err != nil {
		r.logger.Error("vendor lookup failed", "shop", shopID, "error", err)
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		perr := &ParseError{Op: "vendor lookup", Body: excerpt(body), Err: err}
		r.logger.Error("shop page unreadable", "shop", shopID, "error", perr, "body", perr.Body)
		return "", perr
	}

	var vendorID string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if m := vendorIDExpr.FindStringSubmatch(s.Text()); m != nil {
			vendorID = m[1]
			return false
		}
		return true
	})
	if vendorID == "" {
		perr := &ParseError{Op: "vendor lookup", Body: excerpt(body)}
		r.logger.Error("vendor id not found", "shop", shopID, "body", perr.Body)
		return "", perr
	}

	return vendorID, nil
}
