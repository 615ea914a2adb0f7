package wheel

import "github.com/unionmart/lucky-wheel-service/internal/model"

// pointsByVoucherValue keys point credits for voucher prizes by their display
// value, which doubles as the tier discriminator.
var pointsByVoucherValue = map[string]int{
	"50k":  10,
	"100k": 20,
	"VIP":  50,
}

// PointsFor returns the loyalty points credited for winning a prize. Unknown
// types and voucher tiers earn nothing.
func PointsFor(prizeType model.PrizeType, value string) int {
	switch prizeType {
	case model.PrizeTypeVoucher:
		return pointsByVoucherValue[value]
	case model.PrizeTypeDiscount:
		return 5
	case model.PrizeTypeFreeShipping:
		return 3
	case model.PrizeTypeGoodLuck:
		return 1
	default:
		return 0
	}
}
