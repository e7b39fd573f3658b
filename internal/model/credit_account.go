// internal/model/credit_account.go
package model

import "time"

// CreditAccount tracks an account's SMS allowance. available + reserved only
// grows through purchase/grant events and only shrinks through consumption;
// all mutations go through the CreditRepository's conditional updates.
type CreditAccount struct {
    AccountID        int       `db:"account_id" json:"account_id"`
    AvailableCredits int       `db:"available_credits" json:"available_credits"`
    ReservedCredits  int       `db:"reserved_credits" json:"reserved_credits"`
    UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}
