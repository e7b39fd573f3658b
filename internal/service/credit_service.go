// internal/service/credit_service.go
package service

import (
    "log"

    appErrors "github.com/unclebandit/chairtime-backend/internal/errors"
    "github.com/unclebandit/chairtime-backend/internal/model"
    "github.com/unclebandit/chairtime-backend/internal/repository"
)

type DeliveryOutcome string

const (
    OutcomeSuccess     DeliveryOutcome = "success"
    OutcomeDelivered   DeliveryOutcome = "delivered"
    OutcomeFailed      DeliveryOutcome = "failed"
    OutcomeUndelivered DeliveryOutcome = "undelivered"
)

type CreditService struct {
    CreditRepo repository.CreditRepositoryInterface
    ClientRepo repository.ClientRepositoryInterface
}

// Reserve holds count credits for an in-flight batch. A decline carries the
// current available balance so the caller can report it.
func (s *CreditService) Reserve(accountID, count int) error {
    if accountID <= 0 {
        return appErrors.NewValidation("account_id", "must be a positive integer")
    }
    if count <= 0 {
        return appErrors.NewValidation("count", "must be a positive integer")
    }

    ok, err := s.CreditRepo.Reserve(accountID, count)
    if err != nil {
        return err
    }
    if ok {
        return nil
    }

    available := 0
    if account, err := s.CreditRepo.GetAccount(accountID); err == nil {
        available = account.AvailableCredits
    }
    return appErrors.NewInsufficientCredits(accountID, count, available)
}

// Settle resolves one reserved credit after the transport reported a delivery
// outcome. Keyed by phone because that is all the webhook carries. Unknown
// phones, unknown outcomes and already-settled reservations are logged no-ops;
// only a storage failure comes back as an error, and the webhook handler logs
// that too rather than failing the callback.
func (s *CreditService) Settle(phone string, outcome DeliveryOutcome) error {
    accountID, err := s.ClientRepo.FindAccountIDByPhone(phone)
    if err != nil {
        return err
    }
    if accountID == 0 {
        log.Println("⚠️ delivery status for unknown phone, skipping settlement:", phone)
        return nil
    }

    var settled bool
    switch outcome {
    case OutcomeSuccess, OutcomeDelivered:
        settled, err = s.CreditRepo.SettleDelivered(accountID)
    case OutcomeFailed, OutcomeUndelivered:
        settled, err = s.CreditRepo.SettleFailed(accountID)
    default:
        // Interim transport statuses (queued, sent, ...) carry no outcome yet.
        return nil
    }
    if err != nil {
        return err
    }
    if !settled {
        log.Printf("⚠️ no reserved credits to settle for account %d (duplicate webhook?)\n", accountID)
    }
    return nil
}

// Release refunds one reserved credit back to available, for sends that never
// reached the transport. Releasing with nothing reserved is a logged no-op.
func (s *CreditService) Release(accountID int) error {
    released, err := s.CreditRepo.SettleFailed(accountID)
    if err != nil {
        return err
    }
    if !released {
        log.Printf("⚠️ no reserved credits to release for account %d\n", accountID)
    }
    return nil
}

// Balance returns the account's current credit balances.
func (s *CreditService) Balance(accountID int) (*model.CreditAccount, error) {
    if accountID <= 0 {
        return nil, appErrors.NewValidation("account_id", "must be a positive integer")
    }
    return s.CreditRepo.GetAccount(accountID)
}
