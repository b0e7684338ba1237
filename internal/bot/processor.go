package bot

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"

	"github.com/linchiawei/twstore-linebot-go/internal/ctxutil"
	"github.com/linchiawei/twstore-linebot-go/internal/lineutil"
	"github.com/linchiawei/twstore-linebot-go/internal/logger"
	"github.com/linchiawei/twstore-linebot-go/internal/metrics"
)

// helpKeywords are the keywords that trigger the help message
var helpKeywords = []string{"使用說明", "help"}

// systemSender labels replies that come from the dispatcher itself
// rather than a specific module.
var systemSender = &messaging_api.Sender{Name: "系統小幫手"}

// Processor handles the core logic of processing LINE events.
// It sanitizes input and dispatches to registered handlers.
type Processor struct {
	registry *Registry
	logger   *logger.Logger
	metrics  *metrics.Metrics

	webhookTimeout time.Duration
}

// ProcessorConfig holds configuration for creating a new Processor.
type ProcessorConfig struct {
	Registry       *Registry
	Logger         *logger.Logger
	Metrics        *metrics.Metrics
	WebhookTimeout time.Duration
}

// NewProcessor creates a new event processor.
func NewProcessor(cfg ProcessorConfig) *Processor {
	return &Processor{
		registry:       cfg.Registry,
		logger:         cfg.Logger,
		metrics:        cfg.Metrics,
		webhookTimeout: cfg.WebhookTimeout,
	}
}

// ProcessMessage handles a message event (text or location).
func (p *Processor) ProcessMessage(ctx context.Context, event webhook.MessageEvent) ([]messaging_api.MessageInterface, error) {
	userID := GetUserID(event.Source)
	ctx = ctxutil.WithUserID(ctx, userID)

	switch msg := event.Message.(type) {
	case webhook.TextMessageContent:
		return p.processText(ctx, userID, msg, IsPersonalChat(event.Source))
	case webhook.LocationMessageContent:
		return p.processLocation(ctx, userID, msg)
	default:
		// Other message types (stickers, images) are ignored.
		return nil, nil
	}
}

func (p *Processor) processText(ctx context.Context, userID string, msg webhook.TextMessageContent, personal bool) ([]messaging_api.MessageInterface, error) {
	text := msg.Text
	if len(text) == 0 {
		return nil, nil
	}
	// LINE API allows up to 20000 characters; anything near that is noise.
	if len(text) > 20000 {
		p.logger.Warnf("Text message too long: %d characters", len(text))
		return nil, nil
	}

	text = strings.TrimSpace(text)
	text = normalizeWhitespace(text)
	if len(text) == 0 {
		return nil, nil
	}

	// Check for help keywords FIRST (before dispatching to bot modules)
	if slices.ContainsFunc(helpKeywords, func(k string) bool {
		return strings.EqualFold(text, k)
	}) {
		p.logger.Info("User requested help/instruction")
		return p.getHelpMessages(), nil
	}

	// Create context with timeout for bot processing.
	processCtx, cancel := context.WithTimeout(ctxutil.PreserveTracing(ctx), p.webhookTimeout)
	defer cancel()

	if msgs := p.registry.DispatchMessage(processCtx, userID, text); len(msgs) > 0 {
		return msgs, nil
	}

	// No handler matched. Personal chats get the usage hint; group and
	// room chats stay silent rather than answering every conversation.
	if personal {
		p.logger.WithField("text_length", len(text)).Debug("Unmatched text, sending usage hint")
		return p.getHelpMessages(), nil
	}
	return nil, nil
}

func (p *Processor) processLocation(ctx context.Context, userID string, msg webhook.LocationMessageContent) ([]messaging_api.MessageInterface, error) {
	if userID == "" {
		return nil, errors.New("location message without user id")
	}

	processCtx, cancel := context.WithTimeout(ctxutil.PreserveTracing(ctx), p.webhookTimeout)
	defer cancel()

	return p.registry.DispatchLocation(processCtx, userID, msg.Address, msg.Latitude, msg.Longitude), nil
}

// ProcessPostback handles a postback event.
func (p *Processor) ProcessPostback(ctx context.Context, event webhook.PostbackEvent) ([]messaging_api.MessageInterface, error) {
	userID := GetUserID(event.Source)
	ctx = ctxutil.WithUserID(ctx, userID)

	data := event.Postback.Data
	if len(data) == 0 {
		p.logger.Warn("Empty postback data")
		return nil, nil
	}
	if len(data) > lineutil.MaxPostbackData {
		p.logger.Warnf("Postback data too long: %d bytes", len(data))
		return []messaging_api.MessageInterface{
			lineutil.NewTextMessageWithSender("❌ 操作資料異常\n\n請重新使用功能。", systemSender),
		}, nil
	}

	data = strings.TrimSpace(data)
	p.logger.WithField("data", data).Debug("Received postback")

	processCtx, cancel := context.WithTimeout(ctxutil.PreserveTracing(ctx), p.webhookTimeout)
	defer cancel()

	if msgs := p.registry.DispatchPostback(processCtx, userID, data); len(msgs) > 0 {
		return msgs, nil
	}

	return []messaging_api.MessageInterface{
		lineutil.NewTextMessageWithSender("操作已過期或無效", systemSender),
	}, nil
}

// ProcessFollow handles a follow event.
func (p *Processor) ProcessFollow(_ webhook.FollowEvent) ([]messaging_api.MessageInterface, error) {
	p.logger.Info("New user followed the bot")

	sender := &messaging_api.Sender{Name: "美食小幫手"}

	messages := []messaging_api.MessageInterface{
		lineutil.NewTextMessageWithSender("泥好~~我是在地美食推薦小幫手 🍜", sender),
		lineutil.NewTextMessageWithSender(
			"輸入「推薦」開始挑選城市與地區\n或直接分享位置，我幫你找附近的店家 📍",
			sender,
		),
		lineutil.NewTextMessageWithSender("輸入「使用說明」查看完整說明", sender),
	}

	messages[len(messages)-1] = withStartQuickReply(messages[len(messages)-1])
	return messages, nil
}

// getHelpMessages returns the usage instructions.
func (p *Processor) getHelpMessages() []messaging_api.MessageInterface {
	sender := &messaging_api.Sender{Name: "幫助小幫手"}

	helpText := "📖 使用說明\n\n" +
		"🍜 店家推薦\n" +
		"• 輸入「推薦」後依序選擇城市、地區、類別\n" +
		"• 我會從該地區挑三間店給你\n\n" +
		"📍 附近店家\n" +
		"• 直接分享你的位置\n" +
		"• 我會找出你所在地區離你最近的店家\n\n" +
		"💡 小提示\n" +
		"• 營業中的店家會標示 🟢\n" +
		"• 想換一批店家，再按一次「推薦」就可以"

	msg := lineutil.NewTextMessageWithSender(helpText, sender)
	return []messaging_api.MessageInterface{withStartQuickReply(msg)}
}

// withStartQuickReply attaches the standard entry points to a message.
func withStartQuickReply(msg messaging_api.MessageInterface) messaging_api.MessageInterface {
	lineutil.AddQuickReplyToMessages(
		[]messaging_api.MessageInterface{msg},
		lineutil.QuickReplyItem{Action: lineutil.NewMessageAction("🍜 推薦", "推薦")},
		lineutil.NewLocationQuickReplyAction("📍 分享位置"),
		lineutil.QuickReplyItem{Action: lineutil.NewMessageAction("📖 使用說明", "使用說明")},
	)
	return msg
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
