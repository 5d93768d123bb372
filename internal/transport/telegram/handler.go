package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	adminService "github.com/mraprguild/guardbot/internal/modules/admin/service"
	channelService "github.com/mraprguild/guardbot/internal/modules/channel/service"
	keywordDomain "github.com/mraprguild/guardbot/internal/modules/keyword/domain"
	keywordService "github.com/mraprguild/guardbot/internal/modules/keyword/service"
	moderationDomain "github.com/mraprguild/guardbot/internal/modules/moderation/domain"
	moderationService "github.com/mraprguild/guardbot/internal/modules/moderation/service"
	searchService "github.com/mraprguild/guardbot/internal/modules/search/service"
	settingsService "github.com/mraprguild/guardbot/internal/modules/settings/service"
	shortenerService "github.com/mraprguild/guardbot/internal/modules/shortener/service"
	statsService "github.com/mraprguild/guardbot/internal/modules/stats/service"
	"github.com/mraprguild/guardbot/internal/shared/config"
	apperrors "github.com/mraprguild/guardbot/internal/shared/errors"
)

// Handler handles Telegram bot interactions
type Handler struct {
	cfg        *config.Config
	admins     *adminService.Service
	channels   *channelService.Service
	keywords   *keywordService.Service
	moderation *moderationService.Service
	settings   *settingsService.Service
	stats      *statsService.Service
	searcher   searchService.Searcher
	shortener  *shortenerService.Service
}

// New creates a new Telegram handler
func New(cfg *config.Config, admins *adminService.Service, channels *channelService.Service, keywords *keywordService.Service, moderation *moderationService.Service, settings *settingsService.Service, stats *statsService.Service, searcher searchService.Searcher, shortener *shortenerService.Service) *Handler {
	return &Handler{
		cfg:        cfg,
		admins:     admins,
		channels:   channels,
		keywords:   keywords,
		moderation: moderation,
		settings:   settings,
		stats:      stats,
		searcher:   searcher,
		shortener:  shortener,
	}
}

// RegisterCommands registers bot commands
func (h *Handler) RegisterCommands(b *bot.Bot) {
	b.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, h.handleStart)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, h.handleHelp)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/getid", bot.MatchTypeExact, h.handleGetID)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/search", bot.MatchTypePrefix, h.handleSearch)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/download", bot.MatchTypePrefix, h.handleDownload)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/addadmin", bot.MatchTypePrefix, h.handleAddAdmin)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/removeadmin", bot.MatchTypePrefix, h.handleRemoveAdmin)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/listadmins", bot.MatchTypeExact, h.handleListAdmins)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/addchannel", bot.MatchTypePrefix, h.handleAddChannel)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/removechannel", bot.MatchTypePrefix, h.handleRemoveChannel)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/listchannels", bot.MatchTypeExact, h.handleListChannels)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/addkeyword", bot.MatchTypePrefix, h.handleAddKeyword)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/removekeyword", bot.MatchTypePrefix, h.handleRemoveKeyword)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/listkeywords", bot.MatchTypeExact, h.handleListKeywords)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/setwelcome", bot.MatchTypePrefix, h.handleSetWelcome)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/stats", bot.MatchTypeExact, h.handleStats)
}

// HandleUpdate routes non-command group traffic through moderation
func (h *Handler) HandleUpdate(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	if msg.Chat.Type != "group" && msg.Chat.Type != "supergroup" {
		return
	}

	text := msg.Text
	if text == "" && msg.Caption != "" {
		text = msg.Caption
	}
	if strings.HasPrefix(text, "/") {
		return
	}

	decision := h.moderation.Evaluate(ctx, &moderationDomain.Message{
		ChannelID: msg.Chat.ID,
		SenderID:  msg.From.ID,
		Text:      text,
		Ref: moderationDomain.MessageRef{
			ChatID:    msg.Chat.ID,
			MessageID: msg.ID,
		},
	})

	if decision.Action == moderationDomain.ActionBlock {
		slog.Info("Message blocked",
			"chat_id", msg.Chat.ID,
			"message_id", msg.ID,
			"pattern", decision.MatchedRule.Pattern)
	}
}

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	welcome := h.settings.Welcome()

	text := fmt.Sprintf(`%s

Available commands:
/search <movie name> - Search the movie catalog
/download <movie name> - Get a download link
/getid - Show your user ID
/help - Show all commands`, welcome.Message)

	if welcome.BottomText != "" {
		text += "\n\n" + welcome.BottomText
	}

	h.reply(ctx, b, update, text)
}

func (h *Handler) handleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	text := `🤖 Commands

User commands:
/search <movie name> - Search the movie catalog
/download <movie name> - Get a download link
/getid - Show your user ID
/start - Show the welcome message

Admin commands:
/addadmin <user_id> - Grant admin (super-admin only)
/removeadmin <user_id> - Revoke admin (super-admin only)
/listadmins - List admins
/addchannel <channel_id|@username> [title] - Register a channel
/removechannel <channel_id> - Deactivate a channel
/listchannels - List registered channels
/addkeyword [substring|regex|whole_word] <pattern> - Add a keyword rule
/removekeyword [substring|regex|whole_word] <pattern> - Remove a keyword rule
/listkeywords - List keyword rules
/setwelcome <message> - Set the welcome message
/stats - Show moderation statistics`

	h.reply(ctx, b, update, text)
}

func (h *Handler) handleGetID(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	h.reply(ctx, b, update, fmt.Sprintf("Your user ID: %d\nThis chat ID: %d", msg.From.ID, msg.Chat.ID))
}

func (h *Handler) handleSearch(ctx context.Context, b *bot.Bot, update *models.Update) {
	query := strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/search"))
	if query == "" {
		h.reply(ctx, b, update, "Usage: /search <movie name>")
		return
	}

	results := h.searcher.Search(query)
	if len(results) == 0 {
		h.reply(ctx, b, update, fmt.Sprintf("🔍 No results for %q.", query))
		return
	}

	var text strings.Builder
	text.WriteString(fmt.Sprintf("🔍 Results for %q:\n\n", query))
	for i, r := range results {
		text.WriteString(fmt.Sprintf("%d. %s (%s) [%s, %s]\n", i+1, r.Title, r.Year, r.Genre, r.Quality))
	}
	text.WriteString("\nUse /download <movie name> to get a link.")

	h.reply(ctx, b, update, text.String())
}

func (h *Handler) handleDownload(ctx context.Context, b *bot.Bot, update *models.Update) {
	query := strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/download"))
	if query == "" {
		h.reply(ctx, b, update, "Usage: /download <movie name>")
		return
	}

	results := h.searcher.Search(query)
	if len(results) == 0 || results[0].DownloadLink == "" {
		h.reply(ctx, b, update, fmt.Sprintf("❌ No download available for %q.", query))
		return
	}

	link, shortened := h.shortener.Shorten(ctx, results[0].DownloadLink)
	if !shortened {
		slog.Debug("Serving unshortened download link", "title", results[0].Title)
	}

	h.reply(ctx, b, update, fmt.Sprintf("📥 %s (%s)\n%s", results[0].Title, results[0].Year, link))
}

func (h *Handler) handleAddAdmin(ctx context.Context, b *bot.Bot, update *models.Update) {
	targetID, ok := h.parseIDArg(ctx, b, update, "/addadmin", "Usage: /addadmin <user_id>")
	if !ok {
		return
	}

	admin, err := h.admins.GrantAdmin(update.Message.From.ID, targetID)
	if err != nil {
		h.replyError(ctx, b, update, err)
		return
	}

	h.reply(ctx, b, update, fmt.Sprintf("✅ User %d is now an admin.", admin.UserID))
}

func (h *Handler) handleRemoveAdmin(ctx context.Context, b *bot.Bot, update *models.Update) {
	targetID, ok := h.parseIDArg(ctx, b, update, "/removeadmin", "Usage: /removeadmin <user_id>")
	if !ok {
		return
	}

	if err := h.admins.RevokeAdmin(update.Message.From.ID, targetID); err != nil {
		h.replyError(ctx, b, update, err)
		return
	}

	h.reply(ctx, b, update, fmt.Sprintf("✅ User %d is no longer an admin.", targetID))
}

func (h *Handler) handleListAdmins(ctx context.Context, b *bot.Bot, update *models.Update) {
	admins, err := h.admins.ListAdmins()
	if err != nil {
		h.replyError(ctx, b, update, err)
		return
	}

	if len(admins) == 0 {
		h.reply(ctx, b, update, "📋 No admins configured.")
		return
	}

	var text strings.Builder
	text.WriteString("👑 Admins:\n\n")
	for i, a := range admins {
		marker := ""
		if a.IsSuperAdmin {
			marker = " (super-admin)"
		}
		text.WriteString(fmt.Sprintf("%d. %d%s\n", i+1, a.UserID, marker))
	}

	h.reply(ctx, b, update, text.String())
}

func (h *Handler) handleAddChannel(ctx context.Context, b *bot.Bot, update *models.Update) {
	parts := strings.Fields(update.Message.Text)
	if len(parts) < 2 {
		h.reply(ctx, b, update, "Usage: /addchannel <channel_id|@username> [title]\nThe bot must already be an administrator of the channel.")
		return
	}

	channelID, title, err := h.resolveChannel(ctx, b, parts[1])
	if err != nil {
		h.reply(ctx, b, update, fmt.Sprintf("❌ Could not resolve channel %s: %v\nMake sure the bot was added to the channel as an administrator.", parts[1], err))
		return
	}
	if len(parts) > 2 {
		title = strings.Join(parts[2:], " ")
	}

	channel, err := h.channels.AddChannel(update.Message.From.ID, channelID, title)
	if err != nil {
		h.replyError(ctx, b, update, err)
		return
	}

	h.reply(ctx, b, update, fmt.Sprintf("✅ Channel %q (%d) is now under moderation.", channel.Title, channel.ChannelID))
}

func (h *Handler) handleRemoveChannel(ctx context.Context, b *bot.Bot, update *models.Update) {
	channelID, ok := h.parseIDArg(ctx, b, update, "/removechannel", "Usage: /removechannel <channel_id>")
	if !ok {
		return
	}

	if err := h.channels.RemoveChannel(update.Message.From.ID, channelID); err != nil {
		h.replyError(ctx, b, update, err)
		return
	}

	h.reply(ctx, b, update, fmt.Sprintf("✅ Channel %d removed from moderation.", channelID))
}

func (h *Handler) handleListChannels(ctx context.Context, b *bot.Bot, update *models.Update) {
	channels, err := h.channels.ListAllChannels()
	if err != nil {
		h.replyError(ctx, b, update, err)
		return
	}

	if len(channels) == 0 {
		h.reply(ctx, b, update, "📭 No channels registered yet.\nUse /addchannel to add one.")
		return
	}

	var text strings.Builder
	text.WriteString("📋 Registered channels:\n\n")
	for i, ch := range channels {
		status := "✅"
		if !ch.IsActive {
			status = "⏸️"
		}
		text.WriteString(fmt.Sprintf("%s %d. %s\n   ID: %d\n   Added: %s\n\n",
			status, i+1, ch.Title, ch.ChannelID, ch.AddedAt.Format("2006-01-02")))
	}

	h.reply(ctx, b, update, text.String())
}

func (h *Handler) handleAddKeyword(ctx context.Context, b *bot.Bot, update *models.Update) {
	mode, pattern, ok := parseKeywordArgs(update.Message.Text, "/addkeyword")
	if !ok {
		h.reply(ctx, b, update, "Usage: /addkeyword [substring|regex|whole_word] <pattern>\nExample: /addkeyword whole_word cam rip")
		return
	}

	rule, err := h.keywords.AddRule(update.Message.From.ID, pattern, mode)
	if err != nil {
		h.replyError(ctx, b, update, err)
		return
	}

	h.reply(ctx, b, update, fmt.Sprintf("✅ Rule added: %q (%s).", rule.Pattern, rule.MatchMode))
}

func (h *Handler) handleRemoveKeyword(ctx context.Context, b *bot.Bot, update *models.Update) {
	mode, pattern, ok := parseKeywordArgs(update.Message.Text, "/removekeyword")
	if !ok {
		h.reply(ctx, b, update, "Usage: /removekeyword [substring|regex|whole_word] <pattern>")
		return
	}

	if err := h.keywords.RemoveRule(update.Message.From.ID, pattern, mode); err != nil {
		h.replyError(ctx, b, update, err)
		return
	}

	h.reply(ctx, b, update, fmt.Sprintf("✅ Rule removed: %q (%s).", pattern, mode))
}

func (h *Handler) handleListKeywords(ctx context.Context, b *bot.Bot, update *models.Update) {
	rules, err := h.keywords.ActiveRules()
	if err != nil {
		h.replyError(ctx, b, update, err)
		return
	}

	if len(rules) == 0 {
		h.reply(ctx, b, update, "📋 No keyword rules configured. Filtering is disabled.")
		return
	}

	var text strings.Builder
	text.WriteString("🚫 Keyword rules (evaluation order):\n\n")
	for i, r := range rules {
		text.WriteString(fmt.Sprintf("%d. %q (%s)\n", i+1, r.Pattern, r.MatchMode))
	}

	h.reply(ctx, b, update, text.String())
}

func (h *Handler) handleSetWelcome(ctx context.Context, b *bot.Bot, update *models.Update) {
	message := strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/setwelcome"))
	if message == "" {
		h.reply(ctx, b, update, "Usage: /setwelcome <message>")
		return
	}

	if err := h.settings.SetWelcome(update.Message.From.ID, message, ""); err != nil {
		h.replyError(ctx, b, update, err)
		return
	}

	h.reply(ctx, b, update, "✅ Welcome message updated.")
}

func (h *Handler) handleStats(ctx context.Context, b *bot.Bot, update *models.Update) {
	stats := h.stats.GetStats()
	health := h.stats.GetHealth()

	storage := "🟢 reachable"
	if !health.StorageReachable {
		storage = "🔴 unreachable"
	}

	text := fmt.Sprintf(`📊 Moderation statistics

Admins: %d
Active channels: %d
Keyword rules: %d
Messages blocked: %d

Storage: %s`,
		stats.TotalAdmins, stats.TotalChannels, stats.TotalKeywords, stats.TotalBlocked, storage)

	if len(stats.Unavailable) > 0 {
		text += fmt.Sprintf("\n⚠️ Unavailable collections: %s", strings.Join(stats.Unavailable, ", "))
	}

	h.reply(ctx, b, update, text)
}

// resolveChannel accepts a numeric chat ID or an @username looked up via the
// Telegram API
func (h *Handler) resolveChannel(ctx context.Context, b *bot.Bot, arg string) (int64, string, error) {
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return id, fmt.Sprintf("Channel %d", id), nil
	}

	username := strings.TrimPrefix(arg, "@")
	chat, err := b.GetChat(ctx, &bot.GetChatParams{ChatID: "@" + username})
	if err != nil {
		return 0, "", err
	}
	return chat.ID, chat.Title, nil
}

func (h *Handler) parseIDArg(ctx context.Context, b *bot.Bot, update *models.Update, command, usage string) (int64, bool) {
	parts := strings.Fields(update.Message.Text)
	if len(parts) < 2 {
		h.reply(ctx, b, update, usage)
		return 0, false
	}

	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		h.reply(ctx, b, update, "❌ Invalid ID. Provide a numeric ID.")
		return 0, false
	}
	return id, true
}

func (h *Handler) reply(ctx context.Context, b *bot.Bot, update *models.Update, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   text,
	})
	if err != nil {
		slog.Error("Failed to send reply", "chat_id", update.Message.Chat.ID, "error", err)
	}
}

func (h *Handler) replyError(ctx context.Context, b *bot.Bot, update *models.Update, err error) {
	h.reply(ctx, b, update, errorText(err))
}

// errorText maps sentinel errors to user-visible refusals; everything else is
// a generic failure so internals never leak into chat.
func errorText(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return "❌ You don't have permission to use this command."
	case errors.Is(err, apperrors.ErrAlreadyAdmin):
		return "❌ That user is already an admin."
	case errors.Is(err, apperrors.ErrNotAnAdmin):
		return "❌ That user is not an admin."
	case errors.Is(err, apperrors.ErrAlreadyRegistered):
		return "❌ Already registered."
	case errors.Is(err, apperrors.ErrNotFound):
		return "❌ Not found."
	case errors.Is(err, apperrors.ErrInvalidPattern):
		return "❌ Invalid pattern. Regex rules must compile."
	case errors.Is(err, apperrors.ErrStorageUnavailable):
		return "❌ Storage is currently unavailable. Try again later."
	default:
		return "❌ Something went wrong. Try again later."
	}
}

func parseKeywordArgs(text, command string) (keywordDomain.MatchMode, string, bool) {
	rest := strings.TrimSpace(strings.TrimPrefix(text, command))
	if rest == "" {
		return "", "", false
	}

	parts := strings.Fields(rest)
	if len(parts) > 1 {
		if mode, err := keywordDomain.ParseMatchMode(parts[0]); err == nil {
			return mode, strings.TrimSpace(strings.TrimPrefix(rest, parts[0])), true
		}
	}
	return keywordDomain.MatchModeSubstring, rest, true
}
