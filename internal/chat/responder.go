// Package chat builds the bot's replies independently of the chat transport.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/i474232898/weather-bot/internal/resolver"
	"github.com/i474232898/weather-bot/internal/weather"
)

// Fixed replies.
const (
	MsgMissingArgument = "Укажите город/адрес после 'погода'"
	MsgUnresolved      = "Используйте меню или напишите 'погода [место]'"
	MsgHelp            = "Просто напишите 'погода' и название города или выберите из меню"

	MenuPlaceholder = "Выберите локацию"
)

// Describer renders weather for a resolved query. *weather.Service implements it.
type Describer interface {
	Describe(ctx context.Context, q weather.Query) string
}

// Profile holds the user fields shown in the greeting.
type Profile struct {
	ID        int64
	FirstName string
	LastName  string
	Username  string
}

// Responder produces reply text for commands and free-text messages.
type Responder struct {
	resolver  *resolver.Resolver
	describer Describer
}

// NewResponder creates a new Responder.
func NewResponder(r *resolver.Resolver, d Describer) *Responder {
	return &Responder{
		resolver:  r,
		describer: d,
	}
}

// Reply answers a free-text message. Only resolved locations reach the provider.
func (r *Responder) Reply(ctx context.Context, text string) string {
	q, err := r.resolver.Resolve(text)
	switch {
	case errors.Is(err, resolver.ErrMissingArgument):
		return MsgMissingArgument
	case err != nil:
		return MsgUnresolved
	}
	return r.describer.Describe(ctx, q)
}

// Greeting is the /start reply.
func (r *Responder) Greeting(p Profile, now time.Time) string {
	lines := make([]string, 0, 6)

	if p.FirstName != "" {
		lines = append(lines, fmt.Sprintf("👋 Привет, %s!", p.FirstName))
	} else {
		lines = append(lines, "👋 Привет!")
	}
	lines = append(lines, fmt.Sprintf("🆔 ID: %d", p.ID))
	if p.LastName != "" {
		lines = append(lines, fmt.Sprintf("👤 Имя: %s %s", p.FirstName, p.LastName))
	} else {
		lines = append(lines, fmt.Sprintf("👤 Имя: %s", p.FirstName))
	}
	if p.Username != "" {
		lines = append(lines, fmt.Sprintf("🔹 Username: @%s", p.Username))
	} else {
		lines = append(lines, "🔹 Username: не указан")
	}
	lines = append(lines,
		fmt.Sprintf("📅 Сегодня: %s", now.Format("02.01.2006")),
		"🌍 Я ваш персональный погодный бот. Выберите локацию:",
	)

	return strings.Join(lines, "\n")
}

// Help is the /help reply.
func (r *Responder) Help() string {
	return MsgHelp
}

// Menu returns the reply keyboard rows: commands first, then the location
// shortcuts two per row.
func (r *Responder) Menu() [][]string {
	rows := [][]string{{"/start", "/help"}}

	labels := r.resolver.Labels()
	for i := 0; i < len(labels); i += 2 {
		end := i + 2
		if end > len(labels) {
			end = len(labels)
		}
		rows = append(rows, labels[i:end])
	}
	return rows
}
