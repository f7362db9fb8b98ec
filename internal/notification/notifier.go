package notification

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"

	"booking-backend/internal/model"
	"booking-backend/internal/store"
	"booking-backend/internal/timeutil"
)

// Reservation events that trigger a push notification.
const (
	EventCreated  = "created"
	EventUpdated  = "updated"
	EventCanceled = "canceled"
)

// Job identifies a reservation and the event that happened to it.
type Job struct {
	ReservationID string
	Event         string
}

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool manages a pool of workers for sending notifications.
type WorkerPool struct {
	size    int
	jobs    chan Job
	store   store.Store
	webpush *webpush.Options
	sender  NotificationSender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, st store.Store, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Job, size), // Buffered channel
		store:   st,
		webpush: webpushOptions,
		sender:  &WebPushSender{}, // Use the real sender by default
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

// worker is the actual worker goroutine.
func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Worker %d started", id)
	for {
		select {
		case job := <-wp.jobs:
			log.Printf("Worker %d processing reservation %s (%s)", id, job.ReservationID, job.Event)
			wp.notifyReservation(ctx, job)
		case <-ctx.Done():
			log.Printf("Worker %d shutting down", id)
			return
		}
	}
}

// Dispatch sends a job to the worker pool. It is safe to call on a nil pool,
// which is how the server runs when push is not configured.
func (wp *WorkerPool) Dispatch(reservationID, event string) {
	if wp == nil {
		return
	}
	wp.jobs <- Job{ReservationID: reservationID, Event: event}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan Job {
	return wp.jobs
}

// notifyReservation fetches the reservation's participants and pushes the
// event to every registered subscription.
func (wp *WorkerPool) notifyReservation(ctx context.Context, job Job) {
	res, err := wp.store.GetReservation(ctx, job.ReservationID)
	if err != nil {
		log.Printf("Error fetching reservation %s: %v", job.ReservationID, err)
		return
	}

	userIDs := make([]string, 0, len(res.Attendees)+1)
	userIDs = append(userIDs, res.UserID)
	for _, a := range res.Attendees {
		if a.ID != res.UserID {
			userIDs = append(userIDs, a.ID)
		}
	}

	subscriptions, err := wp.store.SubscriptionsForUsers(ctx, userIDs)
	if err != nil {
		log.Printf("Error fetching subscriptions for reservation %s: %v", job.ReservationID, err)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	itemName := res.ItemID
	if res.Item != nil {
		itemName = res.Item.Name
	}
	when := res.StartAt.In(timeutil.KST).Format("01/02 15:04")

	var message string
	switch job.Event {
	case EventCanceled:
		message = fmt.Sprintf("%s %s 예약이 취소되었습니다.", when, itemName)
	case EventUpdated:
		message = fmt.Sprintf("%s %s 예약이 변경되었습니다.", when, itemName)
	default:
		message = fmt.Sprintf("%s %s 예약이 완료되었습니다.", when, itemName)
	}

	log.Printf("Sending %d notifications for reservation %s", len(subscriptions), job.ReservationID)
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, []byte(message))
	}
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == 410 {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.store.DeleteSubscription(ctx, sub.Endpoint); err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
