package checkout

import (
	"crypto/rand"
	"math/big"

	pkgerrors "github.com/akaynusantara/marketplace-backend/pkg/errors"
)

// randomUniqueCode draws a uniformly random integer in [1, max]. The code is
// added to a bank-transfer total so each pending transfer carries a
// distinguishable exact amount.
func randomUniqueCode(max int64) (int64, error) {
	if max < 1 {
		return 0, pkgerrors.New(pkgerrors.CodeConfiguration, "unique code range is empty")
	}
	n, err := rand.Int(rand.Reader, big.NewInt(max))
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate unique code")
	}
	return n.Int64() + 1, nil
}

// pickUniqueCode draws a code and re-rolls, up to rolls extra attempts, while
// base+code collides with an open transfer total. A collision after the last
// roll is accepted: the code only needs to make collisions unlikely, not
// impossible.
func pickUniqueCode(max int64, rolls int, base int64, openTotals []int64) (int64, error) {
	taken := make(map[int64]struct{}, len(openTotals))
	for _, total := range openTotals {
		taken[total] = struct{}{}
	}

	code, err := randomUniqueCode(max)
	if err != nil {
		return 0, err
	}
	for attempt := 0; attempt < rolls; attempt++ {
		if _, collides := taken[base+code]; !collides {
			break
		}
		code, err = randomUniqueCode(max)
		if err != nil {
			return 0, err
		}
	}
	return code, nil
}
