package telegram

import (
	"context"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"event-aggregation-bot/internal/aggregation/adapters/query"
)

// Sender is the subset of *tgbotapi.BotAPI used by Bot.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Answerer interface {
	Answer(ctx context.Context, text string) (string, error)
}

type Bot struct {
	sender   Sender
	answerer Answerer
	log      logrus.FieldLogger
	wg       sync.WaitGroup
}

func NewBot(sender Sender, answerer Answerer, log logrus.FieldLogger) *Bot {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Bot{sender: sender, answerer: answerer, log: log}
}

// Telegram rejects longer texts.
const maxMessageLength = 4096

// Run handles every update in its own goroutine until ctx is done or updates
// is closed, then waits for the in-flight ones. Cancelling ctx stops intake
// only; updates already accepted are answered in full.
func (b *Bot) Run(ctx context.Context, updates <-chan tgbotapi.Update) {
	defer b.wg.Wait()

	work := context.WithoutCancel(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				b.HandleUpdate(work, u)
			}()
		}
	}
}

func (b *Bot) HandleUpdate(ctx context.Context, u tgbotapi.Update) {
	msg := u.Message
	if msg == nil || msg.Chat == nil {
		return
	}

	if msg.IsCommand() {
		switch msg.Command() {
		case "start", "help":
			b.reply(msg.Chat.ID, query.StartMessage)
		}
		return
	}

	if msg.Text == "" {
		return
	}

	// Answer already logs the cause; the reply is the generic message on error.
	reply, _ := b.answerer.Answer(ctx, msg.Text)
	b.reply(msg.Chat.ID, reply)
}

func (b *Bot) reply(chatID int64, text string) {
	for _, part := range splitMessage(text, maxMessageLength) {
		if _, err := b.sender.Send(tgbotapi.NewMessage(chatID, part)); err != nil {
			b.log.WithError(err).WithField("chat_id", chatID).Error("failed to send reply")
			return
		}
	}
}

// splitMessage cuts text into parts of at most limit characters, preferring
// to cut right after a comma so JSON arrays break between elements.
func splitMessage(text string, limit int) []string {
	r := []rune(text)
	if len(r) <= limit {
		return []string{text}
	}

	var parts []string
	for len(r) > limit {
		cut := limit
		if i := strings.LastIndex(string(r[:limit]), ","); i >= 0 {
			// byte index -> rune count, keeping the comma in this part
			cut = len([]rune(string(r[:limit])[:i+1]))
		}
		parts = append(parts, string(r[:cut]))
		r = r[cut:]
	}
	if len(r) > 0 {
		parts = append(parts, string(r))
	}
	return parts
}

// NewAPI authenticates against the Bot API and returns the client together
// with its long-polling update channel.
func NewAPI(token string, log logrus.FieldLogger) (*tgbotapi.BotAPI, tgbotapi.UpdatesChannel, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, nil, err
	}
	log.WithField("username", api.Self.UserName).Info("authorized on telegram")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	return api, api.GetUpdatesChan(u), nil
}
