package recommend

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/linchiawei/twstore-linebot-go/internal/geo"
	"github.com/linchiawei/twstore-linebot-go/internal/hours"
	"github.com/linchiawei/twstore-linebot-go/internal/lineutil"
	"github.com/linchiawei/twstore-linebot-go/internal/store"
)

// bubbleOptions controls per-request bubble rendering.
type bubbleOptions struct {
	// origin, when set, adds a distance row relative to the user.
	origin *geo.Coordinate

	// weekday and clock are the evaluation instant for opening hours.
	weekday int
	clock   int

	// moreData, when set, adds a "more" postback button with this payload.
	moreData string
}

// buildBubbles renders one flex bubble per business.
func (h *Handler) buildBubbles(businesses []store.Business, opts bubbleOptions) []messaging_api.FlexBubble {
	bubbles := make([]messaging_api.FlexBubble, 0, len(businesses))
	for i := range businesses {
		bubbles = append(bubbles, h.buildBubble(&businesses[i], opts))
	}
	return bubbles
}

func (h *Handler) buildBubble(b *store.Business, opts bubbleOptions) messaging_api.FlexBubble {
	header := lineutil.NewCompactHeroBox(b.Name)

	status := hours.Evaluate(b.Hours, opts.weekday, opts.clock)
	badgeText, badgeColor := statusBadge(status)

	body := lineutil.NewBodyContentBuilder().
		AddComponent(lineutil.NewBadge(badgeText, badgeColor).FlexBox).
		AddInfoRowIf("🏷️", "類別", b.Category, lineutil.DefaultInfoRowStyle()).
		AddInfoRowIf("📍", "地址", b.Address, lineutil.DefaultInfoRowStyle()).
		AddInfoRowIf("🍽️", "推薦餐點", b.Dishes, lineutil.DefaultInfoRowStyle())

	if opts.origin != nil {
		if coord, ok := b.Coordinate(); ok {
			distance := geo.DistanceKm(*opts.origin, coord)
			body.AddInfoRow("🚶", "距離", formatDistance(distance), lineutil.DefaultInfoRowStyle())
		}
	}

	buttons := []*lineutil.FlexButton{
		lineutil.NewFlexButton(lineutil.NewURIAction("🗺️ 看地圖", mapsURL(b))).
			WithStyle("primary").WithColor(lineutil.ColorPrimary).WithHeight("sm"),
	}
	if opts.moreData != "" {
		buttons = append(buttons,
			lineutil.NewFlexButton(lineutil.NewPostbackActionWithDisplayText("🔄 再來幾間", "再來幾間", opts.moreData)).
				WithStyle("secondary").WithHeight("sm"))
	}
	footer := lineutil.NewButtonRow(buttons...)

	return *lineutil.NewFlexBubble(header, body.Build().WithPaddingAll(lineutil.SpacingL), footer).FlexBubble
}

// statusBadge maps an opening status to badge text and color.
func statusBadge(status hours.Status) (string, string) {
	switch status {
	case hours.StatusOpen:
		return "🟢 營業中", lineutil.ColorOpenBadge
	case hours.StatusClosed:
		return "🔴 休息中", lineutil.ColorClosedBadge
	default:
		return "⚪ 營業時間未知", lineutil.ColorUnknownBadge
	}
}

// mapsURL builds a Google Maps link for a business, preferring exact
// coordinates over the address text.
func mapsURL(b *store.Business) string {
	if coord, ok := b.Coordinate(); ok {
		return fmt.Sprintf("https://www.google.com/maps/search/?api=1&query=%f,%f",
			coord.Latitude, coord.Longitude)
	}
	query := b.Address
	if query == "" {
		query = b.Name
	}
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(query)
}

// formatDistance renders a distance in meters below 1 km, else in km.
func formatDistance(km float64) string {
	if km < 1 {
		return fmt.Sprintf("約 %d 公尺", int(km*1000))
	}
	return fmt.Sprintf("約 %.1f 公里", km)
}

// morePostbackData builds the payload for the "more" postback button.
func (h *Handler) morePostbackData(city, district, category string) string {
	data := strings.Join([]string{h.PostbackPrefix() + "more", city, district, category}, "$")
	if len(data) > lineutil.MaxPostbackData {
		return ""
	}
	return data
}

// hoursNow converts an instant into the (weekday, clock) pair the
// opening-hours evaluator consumes.
func hoursNow(t time.Time, loc *time.Location) (int, int) {
	return hours.NowInZone(t, loc)
}
