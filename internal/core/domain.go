package core

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	Weekly    BillingCycle = "weekly"
	Monthly   BillingCycle = "monthly"
	Quarterly BillingCycle = "quarterly"
	Yearly    BillingCycle = "yearly"
)

type (
	BillingCycle string

	Money struct {
		Cents int64
	}

	// Subscription is a user's recurring charge for a platform.
	Subscription struct {
		ID     string
		UserID string

		PlatformID   string
		PlatformName string
		PlatformLogo string
		Color        string
		Category     string

		Price    Money
		Currency string
		Cycle    BillingCycle

		StartDate time.Time
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	// Platform is a subscription template. Catalog platforms come from the
	// built-in list; custom ones are user-authored and carry Custom=true.
	Platform struct {
		ID       string
		Name     string
		Logo     string
		Category string
		Color    string
		Custom   bool
	}

	// BillingHistory is a read-only historical billing record.
	BillingHistory struct {
		ID             string
		SubscriptionID string
		Amount         Money
		Currency       string
		PeriodStart    time.Time
		PeriodEnd      time.Time
		Status         BillingStatus
	}

	BillingStatus string

	// User is the account record produced by the auth stand-in.
	User struct {
		ID     string
		Email  string
		Name   string
		Avatar string
	}
)

const (
	BillingPaid    BillingStatus = "paid"
	BillingPending BillingStatus = "pending"
	BillingFailed  BillingStatus = "failed"
)

// maxPlatformNameLen bounds platform names, counted in runes.
const maxPlatformNameLen = 100

var (
	ErrInvalidPrice        = errors.New("invalid price")
	ErrInvalidCycle        = errors.New("invalid billing cycle")
	ErrInvalidCurrency     = errors.New("invalid currency code")
	ErrEmptyPlatform       = errors.New("empty platform name")
	ErrPlatformNameTooLong = errors.New("platform name too long (max 100 characters)")
	ErrEmptyCategory       = errors.New("empty category")
	ErrZeroStartDate       = errors.New("start date cannot be zero")
)

// Cycles lists the supported billing cycles in display order.
func Cycles() []BillingCycle {
	return []BillingCycle{Weekly, Monthly, Quarterly, Yearly}
}

func (c BillingCycle) Valid() bool {
	switch c {
	case Weekly, Monthly, Quarterly, Yearly:
		return true
	default:
		return false
	}
}

// Label returns the capitalized display name ("weekly" -> "Weekly").
func (c BillingCycle) Label() string {
	s := string(c)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidPrice
	}
	return nil
}

func (s BillingStatus) Valid() bool {
	switch s {
	case BillingPaid, BillingPending, BillingFailed:
		return true
	default:
		return false
	}
}

func (s Subscription) Validate() error {
	if strings.TrimSpace(s.PlatformName) == "" {
		return ErrEmptyPlatform
	}
	if utf8.RuneCountInString(s.PlatformName) > maxPlatformNameLen {
		return ErrPlatformNameTooLong
	}
	if strings.TrimSpace(s.Category) == "" {
		return ErrEmptyCategory
	}
	if err := s.Price.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(s.Currency)) != 3 {
		return ErrInvalidCurrency
	}
	if !s.Cycle.Valid() {
		return ErrInvalidCycle
	}
	// Future start dates are allowed: the next billing date degrades to the
	// start date itself.
	if s.StartDate.IsZero() {
		return ErrZeroStartDate
	}
	return nil
}

func (p Platform) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyPlatform
	}
	if strings.TrimSpace(p.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}
