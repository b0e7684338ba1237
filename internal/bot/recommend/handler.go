// Package recommend implements the store recommendation dialog: the
// user picks a city, district, and category step by step, or shares a
// location to get the nearest stores instead.
package recommend

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	apperrors "github.com/linchiawei/twstore-linebot-go/internal/errors"
	"github.com/linchiawei/twstore-linebot-go/internal/geo"
	"github.com/linchiawei/twstore-linebot-go/internal/lineutil"
	"github.com/linchiawei/twstore-linebot-go/internal/logger"
	"github.com/linchiawei/twstore-linebot-go/internal/metrics"
	picker "github.com/linchiawei/twstore-linebot-go/internal/recommend"
	"github.com/linchiawei/twstore-linebot-go/internal/region"
	"github.com/linchiawei/twstore-linebot-go/internal/session"
	"github.com/linchiawei/twstore-linebot-go/internal/store"
)

// startKeywords trigger a fresh recommendation dialog.
var startKeywords = []string{"推薦", "推薦店家"}

// anyCategoryLabel is the category choice that means "no preference".
const anyCategoryLabel = "隨便"

// BusinessSource supplies the candidate pool for a district.
type BusinessSource interface {
	ListByDistrict(ctx context.Context, city, district string) ([]store.Business, error)
}

// Geocoder resolves a coordinate into address components.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, coord geo.Coordinate) ([]region.AddressComponent, error)
}

// Handler drives the recommendation dialog.
type Handler struct {
	sessions session.Store
	source   BusinessSource
	geocoder Geocoder
	selector *picker.Selector
	catalog  *region.Catalog
	resolver *region.Resolver
	logger   *logger.Logger
	metrics  *metrics.Metrics
	location *time.Location
	count    int
	now      func() time.Time
}

// HandlerConfig holds the dependencies for NewHandler.
type HandlerConfig struct {
	Sessions session.Store
	Source   BusinessSource
	Geocoder Geocoder
	Selector *picker.Selector
	Catalog  *region.Catalog
	Resolver *region.Resolver
	Logger   *logger.Logger
	Metrics  *metrics.Metrics
	Location *time.Location

	// RecommendCount is how many stores one answer contains.
	RecommendCount int

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

// NewHandler creates the recommendation dialog handler.
func NewHandler(cfg HandlerConfig) *Handler {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	count := cfg.RecommendCount
	if count <= 0 {
		count = 3
	}
	return &Handler{
		sessions: cfg.Sessions,
		source:   cfg.Source,
		geocoder: cfg.Geocoder,
		selector: cfg.Selector,
		catalog:  cfg.Catalog,
		resolver: cfg.Resolver,
		logger:   cfg.Logger.WithModule("recommend"),
		metrics:  cfg.Metrics,
		location: cfg.Location,
		count:    count,
		now:      now,
	}
}

// Name returns the module name.
func (h *Handler) Name() string { return "recommend" }

// PostbackPrefix routes "recommend$..." postback data here.
func (h *Handler) PostbackPrefix() string { return "recommend$" }

// CanHandle claims the start keyword unconditionally, and plain city,
// district, or category names only while the user's session is in the
// matching stage.
func (h *Handler) CanHandle(ctx context.Context, userID, text string) bool {
	if slices.Contains(startKeywords, text) {
		return true
	}
	if userID == "" {
		return false
	}

	sess, err := h.sessions.Get(ctx, userID)
	if err != nil {
		return false
	}

	switch sess.Stage {
	case session.StageSelectingCity:
		return h.catalog.IsSupportedCity(text)
	case session.StageSelectingDistrict:
		return h.catalog.IsSupportedDistrict(sess.City, text)
	case session.StageSelectingCategory:
		return true
	}
	return false
}

// HandleMessage advances the dialog one step.
func (h *Handler) HandleMessage(ctx context.Context, userID, text string) []messaging_api.MessageInterface {
	if slices.Contains(startKeywords, text) {
		return h.startDialog(ctx, userID)
	}

	sess, err := h.sessions.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrSessionNotFound) {
			h.logger.WithError(err).Error("failed to load session")
		}
		return h.startDialog(ctx, userID)
	}

	switch sess.Stage {
	case session.StageSelectingCity:
		return h.handleCityChoice(ctx, userID, sess, text)
	case session.StageSelectingDistrict:
		return h.handleDistrictChoice(ctx, userID, sess, text)
	case session.StageSelectingCategory:
		return h.handleCategoryChoice(ctx, userID, sess, text)
	}

	return h.startDialog(ctx, userID)
}

// HandlePostback re-runs a finished selection. Data format after the
// prefix is "more$city$district$category" (category may be empty).
func (h *Handler) HandlePostback(ctx context.Context, userID, data string) []messaging_api.MessageInterface {
	parts := strings.Split(data, "$")
	if len(parts) < 3 || parts[0] != "more" {
		h.logger.WithField("data", data).Warn("unrecognized postback data")
		return nil
	}

	city, district := parts[1], parts[2]
	var category string
	if len(parts) > 3 {
		category = parts[3]
	}

	if !h.catalog.IsSupportedDistrict(city, district) {
		return []messaging_api.MessageInterface{
			lineutil.NewTextMessageWithSender("操作已過期或無效", h.sender()),
		}
	}

	return h.recommendByCategory(ctx, userID, city, district, category)
}

// HandleLocation answers a shared location with the nearest stores.
// The address text that LINE attaches to location messages is tried
// first; reverse geocoding is the fallback for addresses the parser
// cannot place.
func (h *Handler) HandleLocation(ctx context.Context, userID, address string, latitude, longitude float64) []messaging_api.MessageInterface {
	origin := geo.Coordinate{Latitude: latitude, Longitude: longitude}

	loc, ok := h.resolver.ResolveAddress(address)
	if !ok {
		start := h.now()
		components, err := h.geocoder.ReverseGeocode(ctx, origin)
		elapsed := h.now().Sub(start).Seconds()
		if err != nil {
			h.metrics.RecordGeocode("error", elapsed)
			h.logger.WithError(err).Error("reverse geocoding failed")
			return []messaging_api.MessageInterface{
				lineutil.NewTextMessageWithSender("😵 暫時無法判斷你的位置\n\n請稍後再試一次。", h.sender()),
			}
		}

		loc, ok = h.resolver.ResolveComponents(components)
		if !ok {
			h.metrics.RecordGeocode("no_match", elapsed)
			return []messaging_api.MessageInterface{
				lineutil.NewTextMessageWithSender("😢 你所在的地區還沒有支援\n\n目前提供台北市、新北市、高雄市的店家推薦。", h.sender()),
			}
		}
		h.metrics.RecordGeocode("resolved", elapsed)
	}

	// A shared location always restarts the dialog.
	if userID != "" {
		if err := h.sessions.Delete(ctx, userID); err != nil {
			h.logger.WithError(err).Warn("failed to clear session")
		}
	}

	pool, err := h.source.ListByDistrict(ctx, loc.City, loc.District)
	if err != nil {
		h.logger.WithError(err).Error("failed to load businesses")
		return []messaging_api.MessageInterface{lineutil.ErrorMessageWithSender(h.sender())}
	}

	picks := h.selector.Nearest(pool, origin, h.count)
	h.metrics.RecordRecommendation("nearby", len(pool))
	if len(picks) == 0 {
		return h.emptyDistrictReply(loc.City, loc.District)
	}

	weekday, clock := h.clockNow()
	bubbles := h.buildBubbles(picks, bubbleOptions{
		origin:  &origin,
		weekday: weekday,
		clock:   clock,
	})
	messages := lineutil.BuildCarouselMessages(loc.City+loc.District+"的附近店家", bubbles, h.sender())
	return h.withRestartQuickReply(messages)
}

// startDialog opens a fresh session at the city stage.
func (h *Handler) startDialog(ctx context.Context, userID string) []messaging_api.MessageInterface {
	if userID == "" {
		return nil
	}

	sess := &session.Session{
		Stage:     session.StageSelectingCity,
		CreatedAt: h.now(),
	}
	if err := h.sessions.Set(ctx, userID, sess); err != nil {
		h.logger.WithError(err).Error("failed to save session")
		h.metrics.RecordSessionOp("set", "error")
		return []messaging_api.MessageInterface{lineutil.ErrorMessageWithSender(h.sender())}
	}
	h.metrics.RecordSessionOp("set", "success")

	items := make([]lineutil.QuickReplyItem, 0, len(h.catalog.Cities())+1)
	for _, city := range h.catalog.Cities() {
		items = append(items, lineutil.QuickReplyItem{Action: lineutil.NewMessageAction(city, city)})
	}
	items = append(items, lineutil.NewLocationQuickReplyAction("📍 用位置找"))

	return []messaging_api.MessageInterface{
		lineutil.NewTextMessageWithQuickReply("想找哪個城市的店家呢? 🏙️", h.sender(), items...),
	}
}

func (h *Handler) handleCityChoice(ctx context.Context, userID string, sess *session.Session, text string) []messaging_api.MessageInterface {
	if !h.catalog.IsSupportedCity(text) {
		return h.startDialog(ctx, userID)
	}

	sess.Stage = session.StageSelectingDistrict
	sess.City = text
	if err := h.sessions.Set(ctx, userID, sess); err != nil {
		h.logger.WithError(err).Error("failed to save session")
		return []messaging_api.MessageInterface{lineutil.ErrorMessageWithSender(h.sender())}
	}

	districts := h.catalog.Districts(text)
	items := make([]lineutil.QuickReplyItem, 0, len(districts))
	for _, district := range districts {
		items = append(items, lineutil.QuickReplyItem{Action: lineutil.NewMessageAction(district, district)})
	}

	return []messaging_api.MessageInterface{
		lineutil.NewTextMessageWithQuickReply(text+"的哪一區呢? 🗺️", h.sender(), items...),
	}
}

func (h *Handler) handleDistrictChoice(ctx context.Context, userID string, sess *session.Session, text string) []messaging_api.MessageInterface {
	if !h.catalog.IsSupportedDistrict(sess.City, text) {
		// Unexpected input mid-dialog; repeat the district question.
		return h.handleCityChoice(ctx, userID, sess, sess.City)
	}

	sess.Stage = session.StageSelectingCategory
	sess.District = text
	if err := h.sessions.Set(ctx, userID, sess); err != nil {
		h.logger.WithError(err).Error("failed to save session")
		return []messaging_api.MessageInterface{lineutil.ErrorMessageWithSender(h.sender())}
	}

	return h.categoryQuestion(ctx, sess.City, text)
}

// categoryQuestion asks which category the user wants, offering 隨便
// plus the categories actually present in the district.
func (h *Handler) categoryQuestion(ctx context.Context, city, district string) []messaging_api.MessageInterface {
	items := []lineutil.QuickReplyItem{
		{Action: lineutil.NewMessageAction("🎲 "+anyCategoryLabel, anyCategoryLabel)},
	}
	for _, category := range h.districtCategories(ctx, city, district) {
		if len(items) == lineutil.MaxQuickReplyItemCount {
			break
		}
		items = append(items, lineutil.QuickReplyItem{Action: lineutil.NewMessageAction(category, category)})
	}

	return []messaging_api.MessageInterface{
		lineutil.NewTextMessageWithQuickReply("想吃哪一類呢? 🍽️", h.sender(), items...),
	}
}

func (h *Handler) handleCategoryChoice(ctx context.Context, userID string, sess *session.Session, text string) []messaging_api.MessageInterface {
	category := text
	if category == anyCategoryLabel {
		category = ""
	} else if !slices.Contains(h.districtCategories(ctx, sess.City, sess.District), category) {
		// Stray text is not a category pick; repeat the question and
		// keep the session where it is.
		return h.categoryQuestion(ctx, sess.City, sess.District)
	}

	if err := h.sessions.Delete(ctx, userID); err != nil {
		h.logger.WithError(err).Warn("failed to clear session")
	}

	return h.recommendByCategory(ctx, userID, sess.City, sess.District, category)
}

// recommendByCategory serves the diversified category selection for a
// settled (city, district, category) triple.
func (h *Handler) recommendByCategory(ctx context.Context, _ string, city, district, category string) []messaging_api.MessageInterface {
	pool, err := h.source.ListByDistrict(ctx, city, district)
	if err != nil {
		h.logger.WithError(err).Error("failed to load businesses")
		return []messaging_api.MessageInterface{lineutil.ErrorMessageWithSender(h.sender())}
	}

	picks := h.selector.ByCategory(pool, category, h.count)
	h.metrics.RecordRecommendation("category", len(pool))
	if len(picks) == 0 {
		return h.emptyDistrictReply(city, district)
	}

	weekday, clock := h.clockNow()
	bubbles := h.buildBubbles(picks, bubbleOptions{
		weekday:  weekday,
		clock:    clock,
		moreData: h.morePostbackData(city, district, category),
	})
	messages := lineutil.BuildCarouselMessages(city+district+"的推薦店家", bubbles, h.sender())
	return h.withRestartQuickReply(messages)
}

// districtCategories returns the distinct categories present in a
// district, in first-seen order.
func (h *Handler) districtCategories(ctx context.Context, city, district string) []string {
	pool, err := h.source.ListByDistrict(ctx, city, district)
	if err != nil {
		h.logger.WithError(err).Warn("failed to load categories")
		return nil
	}

	seen := make(map[string]struct{})
	var categories []string
	for _, b := range pool {
		if b.Category == "" {
			continue
		}
		if _, ok := seen[b.Category]; ok {
			continue
		}
		seen[b.Category] = struct{}{}
		categories = append(categories, b.Category)
	}
	return categories
}

func (h *Handler) emptyDistrictReply(city, district string) []messaging_api.MessageInterface {
	msg := lineutil.NewTextMessageWithQuickReply(
		"😢 "+city+district+"還沒有店家資料\n\n換個地區試試吧!",
		h.sender(),
		lineutil.QuickReplyItem{Action: lineutil.NewMessageAction("🍜 重新推薦", "推薦")},
	)
	return []messaging_api.MessageInterface{msg}
}

func (h *Handler) withRestartQuickReply(messages []messaging_api.MessageInterface) []messaging_api.MessageInterface {
	lineutil.AddQuickReplyToMessages(messages,
		lineutil.QuickReplyItem{Action: lineutil.NewMessageAction("🍜 再推薦一次", "推薦")},
		lineutil.NewLocationQuickReplyAction("📍 用位置找"),
	)
	return messages
}

func (h *Handler) clockNow() (int, int) {
	return hoursNow(h.now(), h.location)
}

func (h *Handler) sender() *messaging_api.Sender {
	return &messaging_api.Sender{Name: "美食小幫手"}
}
