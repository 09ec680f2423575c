package service

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"time"

	"cottage-booking/config"
	"cottage-booking/internal/domain/entity"
	"cottage-booking/internal/domain/repository"
	"cottage-booking/internal/infrastructure/mail"
	"cottage-booking/internal/infrastructure/weather"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// Notifier sends best-effort emails. Methods never block the caller on
// delivery and never return an error: a failed send is logged and dropped.
type Notifier interface {
	NotifyApprovers(ctx context.Context, booking entity.Booking)
	NotifyGuestOfDecision(ctx context.Context, booking entity.Booking, decision entity.ApprovalAction, comment *string)
	NotifyGuestOfCancellation(ctx context.Context, booking entity.Booking, reason string)
	NotifyApproversOfCancellation(ctx context.Context, booking entity.Booking, reason string)
	NotifyCleanersOfCheckouts(ctx context.Context, day time.Time, bookings []entity.Booking)
	RemindGuestOfArrival(ctx context.Context, booking entity.Booking)
	NotifyAdminsOfRecommendation(ctx context.Context, rec entity.Recommendation)
	SendSunnyWeekAlert(ctx context.Context, subscribers []entity.Subscriber, week []ForecastDay)
}

// ForecastDay is one day of the newsletter week: the forecast plus whether the
// night is already taken by an approved stay.
type ForecastDay struct {
	weather.Day
	Booked bool
}

// Available reports a sunny day nobody has booked.
func (d ForecastDay) Available() bool {
	return d.Sunny() && !d.Booked
}

const (
	emailDateLayout    = "02/01/2006"
	emailSendTimeout   = 10 * time.Second
	emailDrainTimeout  = 5 * time.Second
	defaultEmailQueue  = 256
	defaultEmailPerSec = 2
)

// outboundEmail is a rendered message waiting for delivery. When Roles is set
// the recipients are resolved from active staff accounts at send time.
type outboundEmail struct {
	msg   mail.Message
	roles []entity.Role
}

type tariffLine struct {
	Label string
	Rate  string
}

type cleanerStay struct {
	GuestName string
	Party     int
	CheckOut  string
}

type forecastCell struct {
	Weekday string
	Date    string
	IconURL string
	MaxTemp int
	Booked  bool
	Sunny   bool
}

type emailData struct {
	Title     string
	Property  string
	SiteURL   string
	AdminURL  string
	CancelURL string

	Booking  entity.Booking
	CheckIn  string
	CheckOut string
	Comment  string
	Reason   string
	Tariff   []tariffLine

	Day   string
	Stays []cleanerStay

	Recommendation entity.Recommendation

	Subscriber     entity.Subscriber
	UnsubscribeURL string
	Period         string
	Forecast       []forecastCell
}

// EmailNotifier renders messages synchronously and hands them to a single
// delivery worker started with Run. Sends are throttled by a token bucket.
type EmailNotifier struct {
	db       *gorm.DB
	log      *logrus.Logger
	userRepo repository.UserRepository
	sender   mail.Sender
	limiter  *rate.Limiter
	queue    chan outboundEmail

	property string
	siteURL  string
	tariff   config.TariffConfig
}

func NewEmailNotifier(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	sender mail.Sender,
	cfg config.MailConfig,
	tariff config.TariffConfig,
) *EmailNotifier {
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = defaultEmailQueue
	}
	perSecond := cfg.RatePerSecond
	if perSecond <= 0 {
		perSecond = defaultEmailPerSec
	}

	return &EmailNotifier{
		db:       db,
		log:      log,
		userRepo: userRepo,
		sender:   sender,
		limiter:  rate.NewLimiter(rate.Limit(perSecond), 1),
		queue:    make(chan outboundEmail, queueSize),
		property: cfg.PropertyName,
		siteURL:  cfg.SiteURL,
		tariff:   tariff,
	}
}

// Run delivers queued messages until ctx is done, then drains what is left
// within a short grace period.
func (n *EmailNotifier) Run(ctx context.Context) error {
	n.log.Info("Email notifier started")
	for {
		select {
		case <-ctx.Done():
			n.drain()
			n.log.Info("Email notifier stopped")
			return nil
		case job := <-n.queue:
			n.deliver(ctx, job)
		}
	}
}

func (n *EmailNotifier) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), emailDrainTimeout)
	defer cancel()

	for {
		select {
		case job := <-n.queue:
			n.deliver(ctx, job)
		default:
			return
		}
	}
}

func (n *EmailNotifier) deliver(ctx context.Context, job outboundEmail) {
	msg := job.msg

	if len(job.roles) > 0 {
		users, err := n.userRepo.FindActiveByRoles(n.db.WithContext(ctx), job.roles...)
		if err != nil {
			n.log.Warnf("Failed to resolve recipients for %q: %+v", msg.Subject, err)
			return
		}
		for _, u := range users {
			msg.To = append(msg.To, u.Email)
		}
	}
	if len(msg.To) == 0 {
		n.log.Warnf("No recipients for %q, email skipped", msg.Subject)
		return
	}

	if err := n.limiter.Wait(ctx); err != nil {
		n.log.Warnf("Email %q not sent: %+v", msg.Subject, err)
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, emailSendTimeout)
	defer cancel()
	if err := n.sender.Send(sendCtx, msg); err != nil {
		n.log.Warnf("Failed to send email %q: %+v", msg.Subject, err)
		return
	}
	n.log.Debugf("Email %q delivered to %d recipients", msg.Subject, len(msg.To))
}

func (n *EmailNotifier) enqueue(tmpl string, subject string, data emailData, to []string, roles ...entity.Role) {
	data.Title = subject
	data.Property = n.property
	data.SiteURL = n.siteURL

	var buf bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&buf, tmpl, data); err != nil {
		n.log.Errorf("Failed to render email template %s: %+v", tmpl, err)
		return
	}

	job := outboundEmail{
		msg:   mail.Message{To: to, Subject: subject, HTML: buf.String()},
		roles: roles,
	}
	select {
	case n.queue <- job:
	default:
		n.log.Warnf("Email queue full, dropping %q", subject)
	}
}

func (n *EmailNotifier) NotifyApprovers(ctx context.Context, booking entity.Booking) {
	data := n.bookingData(booking)
	subject := fmt.Sprintf("New Booking Pending Approval – %s", booking.GuestName)
	n.enqueue("approvers_new_booking", subject, data, nil, entity.ApproverRoles...)
}

func (n *EmailNotifier) NotifyGuestOfDecision(ctx context.Context, booking entity.Booking, decision entity.ApprovalAction, comment *string) {
	data := n.bookingData(booking)
	if comment != nil {
		data.Comment = *comment
	}

	if decision == entity.ApprovalActionApproved {
		data.Tariff = n.tariffCard(booking.FamilyMember)
		n.enqueue("guest_approved", fmt.Sprintf("Your %s Booking Confirmation", n.property), data, []string{booking.GuestEmail})
		return
	}
	n.enqueue("guest_rejected", fmt.Sprintf("Your %s Booking Update", n.property), data, []string{booking.GuestEmail})
}

func (n *EmailNotifier) NotifyGuestOfCancellation(ctx context.Context, booking entity.Booking, reason string) {
	data := n.bookingData(booking)
	data.Reason = reason
	subject := fmt.Sprintf("Your Booking at %s Has Been Cancelled", n.property)
	n.enqueue("guest_cancelled", subject, data, []string{booking.GuestEmail})
}

func (n *EmailNotifier) NotifyApproversOfCancellation(ctx context.Context, booking entity.Booking, reason string) {
	data := n.bookingData(booking)
	data.Reason = reason
	subject := fmt.Sprintf("Booking Cancelled – %s (%s)", booking.GuestName, booking.BookingCode)
	n.enqueue("approvers_cancelled", subject, data, nil, entity.ApproverRoles...)
}

func (n *EmailNotifier) NotifyCleanersOfCheckouts(ctx context.Context, day time.Time, bookings []entity.Booking) {
	if len(bookings) == 0 {
		return
	}

	data := emailData{Day: day.Format(emailDateLayout)}
	for _, b := range bookings {
		data.Stays = append(data.Stays, cleanerStay{
			GuestName: b.GuestName,
			Party:     b.PartySize(),
			CheckOut:  b.CheckOut.Format(emailDateLayout),
		})
	}
	subject := fmt.Sprintf("Upcoming Checkout: %s", data.Day)
	n.enqueue("cleaner_checkouts", subject, data, nil, entity.RoleCleaner)
}

func (n *EmailNotifier) RemindGuestOfArrival(ctx context.Context, booking entity.Booking) {
	data := n.bookingData(booking)
	data.Tariff = n.tariffCard(booking.FamilyMember)
	subject := fmt.Sprintf("Your Upcoming Stay at %s", n.property)
	n.enqueue("guest_reminder", subject, data, []string{booking.GuestEmail})
}

func (n *EmailNotifier) NotifyAdminsOfRecommendation(ctx context.Context, rec entity.Recommendation) {
	data := emailData{
		Recommendation: rec,
		AdminURL:       n.siteURL + "/admin",
	}
	subject := fmt.Sprintf("New Local Recommendation: %s", rec.Name)
	n.enqueue("admins_recommendation", subject, data, nil, entity.RoleAdmin)
}

// SendSunnyWeekAlert mails each subscriber the coming week's forecast with the
// free sunny days highlighted. Every subscriber gets their own unsubscribe link.
func (n *EmailNotifier) SendSunnyWeekAlert(ctx context.Context, subscribers []entity.Subscriber, week []ForecastDay) {
	if len(subscribers) == 0 || len(week) == 0 {
		return
	}

	cells := make([]forecastCell, 0, len(week))
	for _, d := range week {
		cells = append(cells, forecastCell{
			Weekday: d.Date.Format("Mon"),
			Date:    d.Date.Format("02/01"),
			IconURL: fmt.Sprintf("%s/images/%s.png", n.siteURL, d.Icon()),
			MaxTemp: int(math.Round(d.MaxTempC)),
			Booked:  d.Booked,
			Sunny:   d.Sunny(),
		})
	}
	period := fmt.Sprintf("%s – %s", week[0].Date.Format("Monday 2 January"), week[len(week)-1].Date.Format("Monday 2 January"))
	subject := fmt.Sprintf("Seize the Ray: Sunny week ahead at %s", n.property)

	for _, sub := range subscribers {
		data := emailData{
			Subscriber:     sub,
			UnsubscribeURL: n.UnsubscribeURL(sub.ID.String()),
			Period:         period,
			Forecast:       cells,
		}
		n.enqueue("subscriber_sunny_week", subject, data, []string{sub.Email})
	}
}

// UnsubscribeURL is the newsletter opt-out link for a subscriber.
func (n *EmailNotifier) UnsubscribeURL(subscriberID string) string {
	return n.siteURL + "/unsubscribe/" + subscriberID
}

// CancelURL is the guest self-service link. The token is embedded verbatim.
func (n *EmailNotifier) CancelURL(token string) string {
	return n.siteURL + "/cancel/" + token
}

func (n *EmailNotifier) bookingData(booking entity.Booking) emailData {
	return emailData{
		Booking:   booking,
		CheckIn:   booking.CheckIn.Format(emailDateLayout),
		CheckOut:  booking.CheckOut.Format(emailDateLayout),
		AdminURL:  fmt.Sprintf("%s/admin?booking=%s", n.siteURL, booking.ID),
		CancelURL: n.CancelURL(booking.CancelToken),
	}
}

func (n *EmailNotifier) tariffCard(family bool) []tariffLine {
	var lines []tariffLine
	if family {
		lines = append(lines,
			tariffLine{"Adults (21+)", perNight(n.tariff.FamilyAdult)},
			tariffLine{"Grandchildren over 21 and in paid employment", perNight(n.tariff.FamilyGrandchild)},
		)
	} else {
		lines = append(lines, tariffLine{"Adults (21+)", perNight(n.tariff.StandardAdult)})
	}
	return append(lines,
		tariffLine{"Young people 16+ / students", perNight(n.tariff.YoungPersonStudent)},
		tariffLine{"Children under 16", "No charge"},
		tariffLine{"Cleaning charge", formatPounds(n.tariff.CleaningCharge) + " per booking"},
	)
}

func perNight(d decimal.Decimal) string {
	return formatPounds(d) + " per person per night"
}

func formatPounds(d decimal.Decimal) string {
	if d.IsInteger() {
		return "£" + d.String()
	}
	return "£" + d.StringFixed(2)
}
