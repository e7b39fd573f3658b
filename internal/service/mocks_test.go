package service_test

import (
    "sync"
    "time"

    "github.com/unclebandit/chairtime-backend/internal/model"
    "github.com/unclebandit/chairtime-backend/internal/repository"
)

// --- Mock repositories ---

type MockClientRepo struct {
    Candidates    []model.Client
    VisitCounts   map[int]int
    PhoneAccounts map[string]int
    Touched       []int
    ListErr       error
}

func (m *MockClientRepo) ListCandidates(accountID int, f repository.CandidateFilter) ([]model.Client, error) {
    if m.ListErr != nil {
        return nil, m.ListErr
    }
    out := []model.Client{}
    for _, c := range m.Candidates {
        if c.AccountID != accountID {
            continue
        }
        if f.VisitingType != "" && c.VisitingType != f.VisitingType {
            continue
        }
        if f.MinLastAppt != nil && (c.LastAppt == nil || c.LastAppt.Before(*f.MinLastAppt)) {
            continue
        }
        if len(f.IDs) > 0 && !containsID(f.IDs, c.ID) {
            continue
        }
        out = append(out, c)
    }
    return out, nil
}

func containsID(ids []int, id int) bool {
    for _, candidate := range ids {
        if candidate == id {
            return true
        }
    }
    return false
}

func (m *MockClientRepo) CountVisitsInRange(accountID int, clientIDs []int, from, to time.Time) (map[int]int, error) {
    counts := map[int]int{}
    for _, id := range clientIDs {
        if n, ok := m.VisitCounts[id]; ok {
            counts[id] = n
        }
    }
    return counts, nil
}

func (m *MockClientRepo) FindAccountIDByPhone(phone string) (int, error) {
    return m.PhoneAccounts[phone], nil
}

func (m *MockClientRepo) TouchLastSMSSent(accountID int, clientIDs []int) error {
    m.Touched = append(m.Touched, clientIDs...)
    return nil
}

// MockCreditRepo mimics the conditional-update semantics of the real
// repository under a mutex, so service-level race tests mean something.
type MockCreditRepo struct {
    mu        sync.Mutex
    Available int
    Reserved  int

    Delivered int
    Refunded  int
}

func (m *MockCreditRepo) GetAccount(accountID int) (*model.CreditAccount, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    return &model.CreditAccount{
        AccountID:        accountID,
        AvailableCredits: m.Available,
        ReservedCredits:  m.Reserved,
    }, nil
}

func (m *MockCreditRepo) Reserve(accountID, count int) (bool, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    if m.Available < count {
        return false, nil
    }
    m.Available -= count
    m.Reserved += count
    return true, nil
}

func (m *MockCreditRepo) SettleDelivered(accountID int) (bool, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    if m.Reserved == 0 {
        return false, nil
    }
    m.Reserved--
    m.Delivered++
    return true, nil
}

func (m *MockCreditRepo) SettleFailed(accountID int) (bool, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    if m.Reserved == 0 {
        return false, nil
    }
    m.Reserved--
    m.Available++
    m.Refunded++
    return true, nil
}

type MockNudgeRepo struct {
    Batches map[string]*model.NudgeBatch // keyed by iso_week

    // MissFirstGet makes the first GetByWeek report nothing even when a batch
    // exists, simulating a concurrent trigger landing between the existence
    // check and the insert.
    MissFirstGet bool
    gets         int
}

func (m *MockNudgeRepo) Create(batch *model.NudgeBatch) (bool, error) {
    if m.Batches == nil {
        m.Batches = map[string]*model.NudgeBatch{}
    }
    if _, exists := m.Batches[batch.ISOWeek]; exists {
        return false, nil
    }
    batch.CreatedAt = time.Now()
    m.Batches[batch.ISOWeek] = batch
    return true, nil
}

func (m *MockNudgeRepo) Delete(accountID int, isoWeek string) error {
    delete(m.Batches, isoWeek)
    return nil
}

func (m *MockNudgeRepo) GetByWeek(accountID int, isoWeek string) (*model.NudgeBatch, error) {
    m.gets++
    if m.MissFirstGet && m.gets == 1 {
        return nil, nil
    }
    return m.Batches[isoWeek], nil
}

type MockOutboundRepo struct {
    Created []*model.OutboundMessage
    nextID  int
}

func (m *MockOutboundRepo) Create(msg *model.OutboundMessage) error {
    m.nextID++
    msg.ID = m.nextID
    if msg.Status == "" {
        msg.Status = "pending"
    }
    m.Created = append(m.Created, msg)
    return nil
}

func (m *MockOutboundRepo) GetByID(id int) (*model.OutboundMessage, error) {
    for _, msg := range m.Created {
        if msg.ID == id {
            return msg, nil
        }
    }
    return nil, nil
}

func (m *MockOutboundRepo) ListByBatch(batchID string) ([]model.OutboundMessage, error) {
    msgs := []model.OutboundMessage{}
    for _, msg := range m.Created {
        if msg.BatchID == batchID {
            msgs = append(msgs, *msg)
        }
    }
    return msgs, nil
}

func (m *MockOutboundRepo) UpdateStatus(id int, status, lastError string) error {
    for _, msg := range m.Created {
        if msg.ID == id {
            msg.Status = status
            msg.LastError = lastError
        }
    }
    return nil
}

func (m *MockOutboundRepo) BatchStats(batchID string) (map[string]int, error) {
    stats := map[string]int{}
    for _, msg := range m.Created {
        if msg.BatchID == batchID {
            stats[msg.Status]++
        }
    }
    return stats, nil
}

type MockQueue struct {
    Published []any
}

func (m *MockQueue) Publish(topic string, payload any) error {
    m.Published = append(m.Published, payload)
    return nil
}

func (m *MockQueue) Subscribe(topic string, handler func(payload any) error) error {
    return nil
}
