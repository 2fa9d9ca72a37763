package auth

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/storefront/internal/common"
)

// GenerateResetToken returns a fresh hex reset token and its expiry.
func GenerateResetToken(now time.Time) (string, time.Time, error) {
	token, err := common.MakeRandHexString(common.ResetTokenBytes)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %v", common.ErrHashing, err)
	}
	return token, now.Add(common.ResetTokenValidity), nil
}

// ResetWindowStart is the earliest stored expiry still accepted at now.
// A token is redeemable iff its expiry is not before this instant.
func ResetWindowStart(now time.Time) time.Time {
	return now.Add(-common.ResetTokenValidity)
}
