// Package notify pushes high-edge alerts to Telegram.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/hotshotprops/proplab/internal/pkg/config"
	"github.com/hotshotprops/proplab/internal/pkg/models"
)

// Min interval between any two messages to the same chat, to stay clear of
// the ~30/min Telegram rate limit.
const sendInterval = 2 * time.Second

// TelegramNotifier queues edge alerts and sends them from a background
// worker with rate limiting. A per-(player, stat, book) cooldown stops the
// same edge from re-alerting every refresh cycle.
type TelegramNotifier struct {
	bot       *tgbotapi.BotAPI
	chatID    int64
	threshold float64
	cooldown  time.Duration

	mu        sync.Mutex
	lastSend  time.Time
	lastAlert map[string]time.Time

	queue     chan models.EdgeResult
	queueDone chan struct{}
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewTelegramNotifier builds the notifier, or nil when the bot cannot be
// reached. Callers treat a nil notifier as alerts-disabled.
func NewTelegramNotifier(cfg *config.Config) *TelegramNotifier {
	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		slog.Error("Failed to create telegram bot", "error", err)
		return nil
	}
	bot.Debug = false

	if _, err := bot.GetMe(); err != nil {
		slog.Error("Failed to get bot info", "error", err)
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	n := &TelegramNotifier{
		bot:       bot,
		chatID:    cfg.Telegram.ChatID,
		threshold: cfg.Edge.AlertThreshold,
		cooldown:  cfg.Edge.AlertCooldown,
		lastAlert: make(map[string]time.Time),
		queue:     make(chan models.EdgeResult, 100),
		queueDone: make(chan struct{}),
		ctx:       ctx,
		cancel:    cancel,
	}

	n.wg.Add(1)
	go n.messageSender()

	slog.Info("Telegram notifier initialized", "chat_id", n.chatID, "threshold", n.threshold)
	return n
}

// NotifyEdges queues alerts for every edge at or above the threshold that
// is not still inside its cooldown. Non-blocking: a full queue drops the
// alert with a warning.
func (n *TelegramNotifier) NotifyEdges(ctx context.Context, edges []models.EdgeResult) {
	if n == nil || n.bot == nil || n.threshold <= 0 {
		return
	}
	now := time.Now()
	for _, e := range edges {
		if e.EdgePercent < n.threshold {
			continue
		}
		if !n.shouldAlert(e, now) {
			continue
		}
		select {
		case <-n.ctx.Done():
			return
		case <-ctx.Done():
			return
		case n.queue <- e:
		default:
			slog.Warn("Telegram queue full, dropping alert", "player", e.Player, "stat", e.Stat)
		}
	}
}

func (n *TelegramNotifier) shouldAlert(e models.EdgeResult, now time.Time) bool {
	key := fmt.Sprintf("%s|%s|%s", e.Player, e.Stat, e.Book)
	n.mu.Lock()
	defer n.mu.Unlock()
	if last, ok := n.lastAlert[key]; ok && now.Sub(last) < n.cooldown {
		return false
	}
	n.lastAlert[key] = now
	return true
}

func (n *TelegramNotifier) messageSender() {
	defer n.wg.Done()
	for {
		select {
		case <-n.ctx.Done():
			// Drain what is already queued before exiting.
			for {
				select {
				case e := <-n.queue:
					n.send(e)
				default:
					close(n.queueDone)
					return
				}
			}
		case e := <-n.queue:
			n.send(e)
		}
	}
}

func (n *TelegramNotifier) send(e models.EdgeResult) {
	n.mu.Lock()
	elapsed := time.Since(n.lastSend)
	if elapsed < sendInterval {
		wait := sendInterval - elapsed
		n.mu.Unlock()
		select {
		case <-n.ctx.Done():
			return
		case <-time.After(wait):
		}
		n.mu.Lock()
	}
	n.lastSend = time.Now()
	n.mu.Unlock()

	msg := tgbotapi.NewMessage(n.chatID, FormatEdgeAlert(e, n.threshold))
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := n.bot.Send(msg); err != nil {
		slog.Error("Telegram send failed", "player", e.Player, "stat", e.Stat, "error", err)
		return
	}
	slog.Info("Telegram alert sent",
		"player", e.Player, "stat", e.Stat, "edge_pct", e.EdgePercent, "queue_len", len(n.queue))
}

// Stop shuts the worker down after draining queued alerts.
func (n *TelegramNotifier) Stop() {
	if n == nil {
		return
	}
	n.cancel()
	<-n.queueDone
	n.wg.Wait()
}

// FormatEdgeAlert renders one edge as a Telegram Markdown message.
func FormatEdgeAlert(e models.EdgeResult, threshold float64) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🚨 *Edge Alert (%.1f%%+)*\n\n", threshold))
	b.WriteString(fmt.Sprintf("*%s* %s\n", escapeMarkdown(e.Player), e.Stat))
	b.WriteString(fmt.Sprintf("📊 Line: *%.1f* (%s)\n", e.Line, escapeMarkdown(e.Book)))
	b.WriteString(fmt.Sprintf("🎯 Projection: *%.1f*\n", e.Projection))
	b.WriteString(fmt.Sprintf("📈 Edge: *%.2f%%*\n", e.EdgePercent))
	side := "Over"
	ev := e.EVOver
	if e.EVUnder > e.EVOver {
		side = "Under"
		ev = e.EVUnder
	}
	b.WriteString(fmt.Sprintf("💰 Lean: *%s* (EV %+.2f)\n", side, ev))
	return b.String()
}

func escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"]", "\\]",
		"`", "\\`",
	)
	return replacer.Replace(text)
}
