// internal/handler/delivery_webhook_handler.go
package handler

import (
    "encoding/json"
    "log"
    "net/http"

    "github.com/unclebandit/chairtime-backend/internal/service"
)

// DeliveryWebhookHandler receives delivery-status callbacks from the SMS
// transport. The transport retries on anything but a 2xx, so this handler
// always acknowledges; bookkeeping problems are logged for reconciliation.
type DeliveryWebhookHandler struct {
    CreditService *service.CreditService
}

func (h *DeliveryWebhookHandler) HandleDeliveryStatus(w http.ResponseWriter, r *http.Request) {
    var body struct {
        Phone  string `json:"phone"`
        Status string `json:"status"`
    }
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        log.Println("⚠️ unreadable delivery webhook:", err)
        ack(w)
        return
    }
    if body.Phone == "" {
        log.Println("⚠️ delivery webhook without phone, ignoring")
        ack(w)
        return
    }

    if err := h.CreditService.Settle(body.Phone, service.DeliveryOutcome(body.Status)); err != nil {
        log.Println("⚠️ settlement failed for", body.Phone, ":", err)
    }
    ack(w)
}

func ack(w http.ResponseWriter) {
    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(map[string]bool{"received": true})
}
