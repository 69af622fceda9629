// Package auth simulates the phone/OTP login flow. No code is ever
// delivered; verification accepts a fixed development code after a short
// artificial delay.
package auth

import (
	"context"
	"errors"
	"log"
	"regexp"
	"time"

	sessionstore "github.com/adityakhanna/gemini-chat/backend/internal/store/session"
)

var (
	ErrInvalidPhone       = errors.New("phone number must be exactly 10 digits")
	ErrInvalidCountryCode = errors.New("country code is required")
	ErrMalformedOTP       = errors.New("otp must be 6 digits")
	ErrInvalidOTP         = errors.New("invalid otp")
)

var (
	phonePattern = regexp.MustCompile(`^\d{10}$`)
	otpPattern   = regexp.MustCompile(`^\d{6}$`)
)

// Config carries the simulation tunables.
type Config struct {
	// Code is the accepted development OTP.
	Code string
	// SendDelay and VerifyDelay imitate network latency.
	SendDelay   time.Duration
	VerifyDelay time.Duration
}

// Service validates login input and drives the session store.
type Service struct {
	sessions *sessionstore.Store
	cfg      Config
}

// NewService wires the simulated flow to the session store.
func NewService(sessions *sessionstore.Store, cfg Config) *Service {
	if cfg.Code == "" {
		cfg.Code = "123456"
	}
	return &Service{sessions: sessions, cfg: cfg}
}

// SendOTP validates the destination and pretends to deliver a code.
func (s *Service) SendOTP(ctx context.Context, countryCode, phone string) error {
	if countryCode == "" {
		return ErrInvalidCountryCode
	}
	if !phonePattern.MatchString(phone) {
		return ErrInvalidPhone
	}

	if err := sleep(ctx, s.cfg.SendDelay); err != nil {
		return err
	}
	log.Printf("[auth] otp sent to %s%s", countryCode, phone)
	return nil
}

// VerifyOTP checks the code and, on success, logs the session in with the
// full dialed number.
func (s *Service) VerifyOTP(ctx context.Context, countryCode, phone, code string) error {
	if countryCode == "" {
		return ErrInvalidCountryCode
	}
	if !phonePattern.MatchString(phone) {
		return ErrInvalidPhone
	}
	if !otpPattern.MatchString(code) {
		return ErrMalformedOTP
	}

	if err := sleep(ctx, s.cfg.VerifyDelay); err != nil {
		return err
	}
	if code != s.cfg.Code {
		return ErrInvalidOTP
	}

	s.sessions.Login(countryCode + phone)
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
