// cmd/server/main.go
package main

import (
    "log"
    "net/http"
    "os"

    "github.com/go-chi/chi/v5"
    "github.com/go-chi/cors"
    "github.com/joho/godotenv"

    "github.com/unclebandit/chairtime-backend/internal/controller"
    "github.com/unclebandit/chairtime-backend/internal/db"
    "github.com/unclebandit/chairtime-backend/internal/handler"
    "github.com/unclebandit/chairtime-backend/internal/queue"
    "github.com/unclebandit/chairtime-backend/internal/repository"
    "github.com/unclebandit/chairtime-backend/internal/scoring"
    "github.com/unclebandit/chairtime-backend/internal/service"
)

func main() {
    // Load .env
    if err := godotenv.Load(); err != nil {
        log.Println("⚠️ No .env file found, relying on OS environment variables")
    }

    // Init DB
    db.Init()
    q := queue.NewInMemoryQueue()

    clientRepo := &repository.ClientRepository{DB: db.DB}
    creditRepo := &repository.CreditRepository{DB: db.DB}
    nudgeRepo := &repository.NudgeBatchRepository{DB: db.DB}
    outboundRepo := &repository.OutboundMessageRepository{DB: db.DB}
    queue.StartDispatchSubscriber(q, outboundRepo, creditRepo)

    selectionService := &service.SelectionService{
        ClientRepo:   clientRepo,
        OutboundRepo: outboundRepo,
        Engine:       scoring.NewEngine(),
    }
    creditService := &service.CreditService{
        CreditRepo: creditRepo,
        ClientRepo: clientRepo,
    }
    dispatchService := &service.DispatchService{
        Selection:    selectionService,
        Credits:      creditService,
        OutboundRepo: outboundRepo,
        ClientRepo:   clientRepo,
        Queue:        q,
    }
    nudgeService := &service.NudgeService{
        Selection: selectionService,
        Dispatch:  dispatchService,
        NudgeRepo: nudgeRepo,
    }

    recipientController := &controller.RecipientController{
        SelectionService: selectionService,
        DispatchService:  dispatchService,
        CreditService:    creditService,
        NudgeService:     nudgeService,
    }

    deliveryWebhook := &handler.DeliveryWebhookHandler{
        CreditService: creditService,
    }

    r := chi.NewRouter()
    r.Use(cors.Handler(cors.Options{
        AllowedOrigins: []string{"*"},
        AllowedMethods: []string{"GET", "POST", "OPTIONS"},
        AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
    }))

    // Recipient selection routes
    r.Post("/accounts/{accountID}/recipients/preview", recipientController.PreviewRecipients)
    r.Post("/accounts/{accountID}/batches", recipientController.DispatchBatch)
    r.Post("/accounts/{accountID}/nudge/run", recipientController.RunNudge)
    r.Get("/accounts/{accountID}/credits", recipientController.GetCredits)

    // Transport callbacks
    r.Post("/webhooks/delivery", deliveryWebhook.HandleDeliveryStatus)

    addr := os.Getenv("LISTEN_ADDR")
    if addr == "" {
        addr = ":8080"
    }

    log.Println("🚀 Server running on", addr)
    log.Fatal(http.ListenAndServe(addr, r))
}
