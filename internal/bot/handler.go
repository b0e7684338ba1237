// Package bot provides the handler interface and dispatch utilities for
// LINE bot modules. Each module implements the Handler interface to
// process user messages and postback events.
package bot

import (
	"context"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// Handler defines the interface that all bot modules must implement.
// This provides a consistent API for webhook routing and message handling.
//
// Handlers are session-aware: CanHandle may consult the user's dialog
// state, so a plain district name is claimed only while that user is
// actually choosing a district.
type Handler interface {
	// Name returns the module name used for logging and lookup.
	Name() string

	// CanHandle checks if this handler can process the given text message
	// from the given user, considering any live dialog session.
	CanHandle(ctx context.Context, userID, text string) bool

	// HandleMessage processes a text message and returns LINE message responses.
	// Returns a slice of LINE messages (max 5 messages per reply).
	HandleMessage(ctx context.Context, userID, text string) []messaging_api.MessageInterface

	// HandlePostback processes a postback event (button clicks, carousel actions).
	// The data parameter is the payload with the module prefix already stripped.
	//
	// Postback Format Convention:
	//   - Format: "module$action$param1$param2..." using $ as delimiter
	//   - Example: "recommend$category$麵食"
	//   - Max 300 bytes per LINE API limit
	HandlePostback(ctx context.Context, userID, data string) []messaging_api.MessageInterface

	// PostbackPrefix returns the prefix that routes postback data to this
	// handler, including the trailing delimiter (e.g. "recommend$").
	PostbackPrefix() string
}

// LocationHandler is implemented by modules that consume shared locations.
type LocationHandler interface {
	// HandleLocation processes a location message from the given user.
	// address is the human-readable address LINE attaches to the
	// location message; it may be empty.
	HandleLocation(ctx context.Context, userID, address string, latitude, longitude float64) []messaging_api.MessageInterface
}
