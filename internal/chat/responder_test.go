package chat

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/i474232898/weather-bot/internal/resolver"
	"github.com/i474232898/weather-bot/internal/weather"
)

type recordingDescriber struct {
	queries []weather.Query
}

func (d *recordingDescriber) Describe(_ context.Context, q weather.Query) string {
	d.queries = append(d.queries, q)
	return "weather for " + q.Location
}

func newTestResponder() (*Responder, *recordingDescriber) {
	d := &recordingDescriber{}
	return NewResponder(resolver.New(nil), d), d
}

func TestReply(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		want      string
		wantCalls int
	}{
		{"command", "погода Лондон", "weather for Лондон", 1},
		{"menu button", "🌤 Москва", "weather for Москва", 1},
		{"display name passes through", "📍 Хотьковский пр.9", "weather for Сергиев Посад", 1},
		{"missing argument", "погода", MsgMissingArgument, 0},
		{"unresolved", "xyz", MsgUnresolved, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, d := newTestResponder()

			if got := r.Reply(context.Background(), tt.in); got != tt.want {
				t.Fatalf("Reply(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if len(d.queries) != tt.wantCalls {
				t.Fatalf("expected %d lookups, got %d", tt.wantCalls, len(d.queries))
			}
		})
	}
}

func TestReplyKeepsDisplayName(t *testing.T) {
	r, d := newTestResponder()
	r.Reply(context.Background(), "хотьковский пр.9")

	want := weather.Query{Location: "Сергиев Посад", DisplayName: "Хотьковский проезд, 9"}
	if len(d.queries) != 1 || d.queries[0] != want {
		t.Fatalf("unexpected queries: %+v", d.queries)
	}
}

func TestGreeting(t *testing.T) {
	now := time.Date(2024, time.January, 5, 10, 0, 0, 0, time.UTC)
	r, _ := newTestResponder()

	tests := []struct {
		name    string
		profile Profile
		want    string
	}{
		{
			name:    "full profile",
			profile: Profile{ID: 42, FirstName: "Иван", LastName: "Петров", Username: "ivan"},
			want: "👋 Привет, Иван!\n" +
				"🆔 ID: 42\n" +
				"👤 Имя: Иван Петров\n" +
				"🔹 Username: @ivan\n" +
				"📅 Сегодня: 05.01.2024\n" +
				"🌍 Я ваш персональный погодный бот. Выберите локацию:",
		},
		{
			name:    "minimal profile",
			profile: Profile{ID: 7},
			want: "👋 Привет!\n" +
				"🆔 ID: 7\n" +
				"👤 Имя: \n" +
				"🔹 Username: не указан\n" +
				"📅 Сегодня: 05.01.2024\n" +
				"🌍 Я ваш персональный погодный бот. Выберите локацию:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Greeting(tt.profile, now); got != tt.want {
				t.Fatalf("unexpected greeting:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestMenu(t *testing.T) {
	r, _ := newTestResponder()

	want := [][]string{
		{"/start", "/help"},
		{"🌤 Москва", "🌤 СПб"},
		{"📍 Хотьковский пр.9", "🌤 Нью-Йорк"},
	}
	if got := r.Menu(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Menu() = %v, want %v", got, want)
	}
}

func TestMenuOddShortcutCount(t *testing.T) {
	r := NewResponder(resolver.New([]resolver.Shortcut{
		{Label: "A", Query: "a"},
		{Label: "B", Query: "b"},
		{Label: "C", Query: "c"},
	}), &recordingDescriber{})

	want := [][]string{{"/start", "/help"}, {"A", "B"}, {"C"}}
	if got := r.Menu(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Menu() = %v, want %v", got, want)
	}
}
