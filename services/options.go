package services

import (
	"context"
	"time"
)

// SlotLocker serializes bookings of one provider slot across instances.
type SlotLocker interface {
	WithSlotLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// Mailer delivers notification mail.
type Mailer interface {
	SendEmail(to, subject, body string) error
}

// Publisher emits domain events to a broker.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event interface{}) error
}

// Uploader stores a photo and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, file interface{}, publicID string) (string, error)
}

type options struct {
	now       func() time.Time
	locker    SlotLocker
	mailer    Mailer
	publisher Publisher
	uploader  Uploader
}

type Option func(*options)

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithSlotLocker(l SlotLocker) Option {
	return func(o *options) {
		if l != nil {
			o.locker = l
		}
	}
}

func WithMailer(m Mailer) Option {
	return func(o *options) { o.mailer = m }
}

func WithPublisher(p Publisher) Option {
	return func(o *options) { o.publisher = p }
}

func WithUploader(u Uploader) Option {
	return func(o *options) { o.uploader = u }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now, locker: noopLocker{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type noopLocker struct{}

func (noopLocker) WithSlotLock(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
