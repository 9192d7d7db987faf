package http

import (
	"math"
	"time"

	"subtrack/internal/core"
)

// subscriptionView is the wire shape of a subscription, decorated with the
// derived billing fields clients render directly.
type subscriptionView struct {
	ID             string    `json:"id"`
	PlatformID     string    `json:"platformId,omitempty"`
	PlatformName   string    `json:"platformName"`
	PlatformLogo   string    `json:"platformLogo,omitempty"`
	Color          string    `json:"color,omitempty"`
	Category       string    `json:"category"`
	Price          float64   `json:"price"`
	PriceFormatted string    `json:"priceFormatted"`
	Currency       string    `json:"currency"`
	Cycle          string    `json:"cycle"`
	StartDate      string    `json:"startDate"`
	NextBilling    string    `json:"nextBillingDate"`
	DaysUntil      int       `json:"daysUntilBilling"`
	NearBilling    bool      `json:"nearBilling"`
	DueStatus      string    `json:"dueStatus"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

const dateLayout = "2006-01-02"

func newSubscriptionView(sub core.Subscription, now time.Time) subscriptionView {
	due := core.NextBillingDate(sub.StartDate, sub.Cycle, now)
	return subscriptionView{
		ID:             sub.ID,
		PlatformID:     sub.PlatformID,
		PlatformName:   sub.PlatformName,
		PlatformLogo:   sub.PlatformLogo,
		Color:          sub.Color,
		Category:       sub.Category,
		Price:          sub.Price.Amount(),
		PriceFormatted: core.FormatCurrency(sub.Price.Amount(), sub.Currency),
		Currency:       sub.Currency,
		Cycle:          string(sub.Cycle),
		StartDate:      sub.StartDate.Format(dateLayout),
		NextBilling:    due.Format(dateLayout),
		DaysUntil:      core.DaysUntil(due, now),
		NearBilling:    core.NearBilling(due, now),
		DueStatus:      core.DueStatus(due, now),
		CreatedAt:      sub.CreatedAt,
		UpdatedAt:      sub.UpdatedAt,
	}
}

func newSubscriptionViews(subs []core.Subscription, now time.Time) []subscriptionView {
	views := make([]subscriptionView, 0, len(subs))
	for _, sub := range subs {
		views = append(views, newSubscriptionView(sub, now))
	}
	return views
}

type historyView struct {
	ID              string  `json:"id"`
	SubscriptionID  string  `json:"subscriptionId"`
	Amount          float64 `json:"amount"`
	AmountFormatted string  `json:"amountFormatted"`
	Currency        string  `json:"currency"`
	PeriodStart     string  `json:"periodStart"`
	PeriodEnd       string  `json:"periodEnd"`
	Status          string  `json:"status"`
}

func newHistoryViews(records []core.BillingHistory) []historyView {
	views := make([]historyView, 0, len(records))
	for _, rec := range records {
		views = append(views, historyView{
			ID:              rec.ID,
			SubscriptionID:  rec.SubscriptionID,
			Amount:          rec.Amount.Amount(),
			AmountFormatted: core.FormatCurrency(rec.Amount.Amount(), rec.Currency),
			Currency:        rec.Currency,
			PeriodStart:     rec.PeriodStart.Format(dateLayout),
			PeriodEnd:       rec.PeriodEnd.Format(dateLayout),
			Status:          string(rec.Status),
		})
	}
	return views
}

type platformView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Logo     string `json:"logo,omitempty"`
	Category string `json:"category"`
	Color    string `json:"color"`
	Custom   bool   `json:"custom"`
}

func newPlatformViews(platforms []core.Platform) []platformView {
	views := make([]platformView, 0, len(platforms))
	for _, p := range platforms {
		views = append(views, platformView{
			ID:       p.ID,
			Name:     p.Name,
			Logo:     p.Logo,
			Category: p.Category,
			Color:    p.Color,
			Custom:   p.Custom,
		})
	}
	return views
}

type userView struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

func newUserView(user core.User) userView {
	return userView{ID: user.ID, Email: user.Email, Name: user.Name, Avatar: user.Avatar}
}

type currencyTotalView struct {
	Currency  string  `json:"currency"`
	Amount    float64 `json:"amount"`
	Formatted string  `json:"formatted"`
}

// summaryView is the spending rollup. Total is the monthly-equivalent spend
// of subscriptions billed on Cycle, summed naively across currencies;
// TotalsByCurrency breaks down the monthly-equivalent spend of the whole
// account per currency, which is what mixed-currency clients should render.
type summaryView struct {
	Cycle            string              `json:"cycle"`
	Total            float64             `json:"total"`
	TotalsByCurrency []currencyTotalView `json:"totalsByCurrency"`
	Count            int                 `json:"count"`
	NearBillingCount int                 `json:"nearBillingCount"`
}

type categoryTotalView struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Color    string  `json:"color"`
}

// round2 trims float noise before JSON encoding.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
