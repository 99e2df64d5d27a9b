package vouchers

import (
	"fmt"
	"strings"
	"time"

	"github.com/akaynusantara/marketplace-backend/pkg/db/models"
	"github.com/akaynusantara/marketplace-backend/pkg/enums"
)

// Validation is the outcome of applying a voucher against an items subtotal.
// An invalid voucher is never a hard failure: checkout proceeds with a zero
// discount and the message explains why.
type Validation struct {
	Valid       bool
	DiscountIDR int64
	Message     string
}

// Validate runs the voucher rule checks in order, short-circuiting on the
// first failure: existence, active flag, expiry, then minimum spend. The
// discount is computed only when every check passes.
func Validate(voucher *models.Voucher, itemsTotalIDR int64, now time.Time) Validation {
	if voucher == nil {
		return Validation{Message: "voucher not found"}
	}
	if !voucher.Active {
		return Validation{Message: "voucher inactive"}
	}
	if voucher.ExpiresAt != nil && now.After(*voucher.ExpiresAt) {
		return Validation{Message: "voucher expired"}
	}
	if itemsTotalIDR < voucher.MinSpendIDR {
		return Validation{Message: fmt.Sprintf("minimum spend of %s not met", FormatRupiah(voucher.MinSpendIDR))}
	}
	return Validation{
		Valid:       true,
		DiscountIDR: Discount(voucher.Kind, voucher.Value, itemsTotalIDR),
		Message:     "voucher applied",
	}
}

// Discount computes the rupiah discount for a voucher kind. Percent vouchers
// floor the proportional amount; fixed vouchers never exceed the subtotal.
// Shipping cost is never discounted.
func Discount(kind enums.VoucherKind, value, itemsTotalIDR int64) int64 {
	switch kind {
	case enums.VoucherKindPercent:
		return itemsTotalIDR * value / 100
	case enums.VoucherKindFixed:
		if value > itemsTotalIDR {
			return itemsTotalIDR
		}
		return value
	default:
		return 0
	}
}

// NormalizeCode uppercases and trims a voucher code so lookups are
// case-insensitive.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// FormatRupiah renders a whole-rupiah amount with Indonesian thousand
// separators, e.g. 150000 -> "Rp150.000".
func FormatRupiah(amountIDR int64) string {
	negative := amountIDR < 0
	if negative {
		amountIDR = -amountIDR
	}

	digits := fmt.Sprintf("%d", amountIDR)
	var b strings.Builder
	if negative {
		b.WriteString("-")
	}
	b.WriteString("Rp")
	for i, digit := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteString(".")
		}
		b.WriteRune(digit)
	}
	return b.String()
}
