package email

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/linhlinh38/Bookminton/internal/logger"
	"github.com/linhlinh38/Bookminton/internal/metrics"
)

const (
	queueKey       = "bookminton:emails"
	failedQueueKey = "bookminton:emails:failed"
	maxTries       = 3
	retryDelay     = 5 * time.Second
	dateFormat     = "Mon, Jan 2 2006"
)

const (
	KindBookingCreated   = "booking_created"
	KindBookingCancelled = "booking_cancelled"
	KindPackageReceipt   = "package_receipt"
	KindGeneric          = "generic"
)

type EmailJob struct {
	Kind    string    `json:"kind"`
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

// BookingMail carries what a customer needs to find their court.
type BookingMail struct {
	BookingID int
	CourtName string
	Type      string
	Slots     []string
	Dates     []time.Time
}

type Service struct {
	redis    *redis.Client
	from     string
	fromName string
	smtpHost string
	smtpPort string
	smtpUser string
	smtpPass string
}

func New(fromEmail, fromName, smtpHost, smtpPort, smtpUser, smtpPass, redisAddr string) *Service {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: redisAddr}),
		fromEmail, fromName, smtpHost, smtpPort, smtpUser, smtpPass)
}

func NewWithClient(rdb *redis.Client, fromEmail, fromName, smtpHost, smtpPort, smtpUser, smtpPass string) *Service {
	return &Service{
		redis:    rdb,
		from:     fromEmail,
		fromName: fromName,
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		smtpUser: smtpUser,
		smtpPass: smtpPass,
	}
}

// Send queues a plain message for the worker.
func (s *Service) Send(ctx context.Context, to, name, subject, body string) error {
	return s.enqueue(ctx, EmailJob{Kind: KindGeneric, To: to, Name: name, Subject: subject, Body: body})
}

func (s *Service) enqueue(ctx context.Context, job EmailJob) error {
	job.Created = time.Now()

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal email job: %w", err)
	}

	if err := s.redis.LPush(ctx, queueKey, string(data)).Err(); err != nil {
		logger.Error("failed to queue email", "to", job.To, "kind", job.Kind, "error", err.Error())
		return err
	}

	logger.Debug("email queued", "to", job.To, "kind", job.Kind)
	return nil
}

// Start drains the queue until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	logger.Info("email worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("email worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		return
	}

	var job EmailJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Error("dropping malformed email job", "error", err.Error())
		return
	}

	job.Tries++
	if err := s.sendNow(job); err != nil {
		metrics.RecordEmail(job.Kind, "failed")
		logger.Error("email delivery failed", "to", job.To, "attempt", job.Tries, "error", err.Error())

		if job.Tries >= maxTries {
			s.saveFailed(ctx, job, err)
			return
		}

		select {
		case <-ctx.Done():
		case <-time.After(retryDelay):
		}
		data, _ := json.Marshal(job)
		s.redis.LPush(context.WithoutCancel(ctx), queueKey, string(data))
		return
	}

	metrics.RecordEmail(job.Kind, "sent")
	metrics.EmailQueueLength.Set(float64(s.QueueLength(ctx)))
	logger.Info("email sent", "to", job.To, "kind", job.Kind)
}

func (s *Service) sendNow(job EmailJob) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", s.fromName, s.from)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.smtpUser != "" && s.smtpPass != "" {
		auth = smtp.PlainAuth("", s.smtpUser, s.smtpPass, s.smtpHost)
	}

	return smtp.SendMail(s.smtpHost+":"+s.smtpPort, auth, s.from, []string{job.To}, []byte(message))
}

func (s *Service) saveFailed(ctx context.Context, job EmailJob, err error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": err.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(context.WithoutCancel(ctx), failedQueueKey, string(data))
	logger.Error("email moved to failed queue", "to", job.To, "kind", job.Kind)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}

func (s *Service) SendBookingCreated(ctx context.Context, to, name string, b BookingMail) error {
	subject := fmt.Sprintf("Booking #%d received - %s", b.BookingID, b.CourtName)

	body := fmt.Sprintf("Hi %s,\n\nWe have received your booking #%d.\n\nCourt: %s\nType: %s\n",
		name, b.BookingID, b.CourtName, b.Type)
	if len(b.Slots) > 0 {
		body += fmt.Sprintf("Slots: %v\n", b.Slots)
	}
	for _, d := range b.Dates {
		body += "  - " + d.Format(dateFormat) + "\n"
	}
	body += "\nIt will be confirmed once the payment is settled.\n\n- Bookminton"

	return s.enqueue(ctx, EmailJob{Kind: KindBookingCreated, To: to, Name: name, Subject: subject, Body: body})
}

func (s *Service) SendBookingCancelled(ctx context.Context, to, name string, bookingID int) error {
	subject := fmt.Sprintf("Booking #%d cancelled", bookingID)
	body := fmt.Sprintf("Hi %s,\n\nYour booking #%d has been cancelled and its slots were released.\n\n- Bookminton",
		name, bookingID)

	return s.enqueue(ctx, EmailJob{Kind: KindBookingCancelled, To: to, Name: name, Subject: subject, Body: body})
}

func (s *Service) SendPackageReceipt(ctx context.Context, to, name, packageName string, total decimal.Decimal, start, end time.Time) error {
	subject := "Package purchase - " + packageName
	body := fmt.Sprintf("Hi %s,\n\nThank you for purchasing %s.\n\nAmount: %s\nValid: %s to %s\n\n- Bookminton",
		name, packageName, total.StringFixed(2), start.Format(dateFormat), end.Format(dateFormat))

	return s.enqueue(ctx, EmailJob{Kind: KindPackageReceipt, To: to, Name: name, Subject: subject, Body: body})
}
