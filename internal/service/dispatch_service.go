// internal/service/dispatch_service.go
package service

import (
    "log"
    "strings"

    "github.com/google/uuid"

    appErrors "github.com/unclebandit/chairtime-backend/internal/errors"
    "github.com/unclebandit/chairtime-backend/internal/model"
    "github.com/unclebandit/chairtime-backend/internal/queue"
    "github.com/unclebandit/chairtime-backend/internal/repository"
    "github.com/unclebandit/chairtime-backend/internal/selection"
)

type DispatchService struct {
    Selection    *SelectionService
    Credits      *CreditService
    OutboundRepo repository.OutboundMessageRepositoryInterface
    ClientRepo   repository.ClientRepositoryInterface
    Queue        queue.Queue
}

type DispatchResult struct {
    BatchID        string `json:"batch_id"`
    AccountID      int    `json:"account_id"`
    MessagesQueued int    `json:"messages_queued"`
    MessageIDs     []int  `json:"message_ids"`
}

// DispatchBatch selects recipients, reserves one credit each, writes the
// outbound rows and queues them. Reservation happens before any message is
// created: either the whole batch is covered or nothing is sent.
func (s *DispatchService) DispatchBatch(accountID int, alg selection.Algorithm, limit int, visitingType, template string) (*DispatchResult, error) {
    if strings.TrimSpace(template) == "" {
        return nil, appErrors.NewValidation("message", "template cannot be empty")
    }

    result, err := s.Selection.PreviewRecipients(accountID, alg, limit, visitingType)
    if err != nil {
        return nil, err
    }
    return s.DispatchSelected(accountID, result.Clients, template)
}

// DispatchSelected sends to an already-selected recipient list. The weekly
// nudge path lands here after recording its batch row.
func (s *DispatchService) DispatchSelected(accountID int, clients []model.ScoredClient, template string) (*DispatchResult, error) {
    result := &DispatchResult{
        BatchID:    uuid.NewString(),
        AccountID:  accountID,
        MessageIDs: []int{},
    }
    if len(clients) == 0 {
        return result, nil
    }

    if err := s.Credits.Reserve(accountID, len(clients)); err != nil {
        return nil, err
    }

    sentTo := []int{}
    for _, sc := range clients {
        msg := &model.OutboundMessage{
            BatchID:         result.BatchID,
            AccountID:       accountID,
            ClientID:        sc.ID,
            Phone:           sc.PhoneNormalized,
            RenderedContent: RenderForClient(template, sc.Client),
        }
        if err := s.OutboundRepo.Create(msg); err != nil {
            log.Println("⚠️ failed to create outbound message:", err)
            // The credit reserved for this recipient goes back.
            if ferr := s.Credits.Release(accountID); ferr != nil {
                log.Println("⚠️ failed to release credit:", ferr)
            }
            continue
        }

        if err := s.Queue.Publish(queue.TopicSMSDispatch, msg.ID); err != nil {
            log.Println("⚠️ failed to enqueue message ID", msg.ID, ":", err)
            continue
        }

        result.MessageIDs = append(result.MessageIDs, msg.ID)
        result.MessagesQueued++
        sentTo = append(sentTo, sc.ID)
    }

    if err := s.ClientRepo.TouchLastSMSSent(accountID, sentTo); err != nil {
        log.Println("⚠️ failed to stamp date_last_sms_sent:", err)
    }

    return result, nil
}
