// Package lineutil provides LINE message building utilities.
package lineutil

// 4-Point Grid Spacing System
// All spacing values follow the 4-point grid for consistent visual rhythm.
const (
	SpacingNone = "none" // 0px
	SpacingXS   = "4px"  // Extra small
	SpacingS    = "8px"  // Small
	SpacingM    = "12px" // Medium
	SpacingL    = "16px" // Large
	SpacingXL   = "20px" // Extra large
	SpacingXXL  = "24px" // 2X large

	// Line Spacing for multi-line text readability
	LineSpacingNormal = "6px" // Standard line spacing
	LineSpacingLarge  = "8px" // Enhanced readability for dense content
)

// LINE Design System Colors
// Reference: https://designsystem.line.me/LDSM/foundation/color/line-color-guide-ex-en
const (
	// Brand Colors - LINE Green
	ColorLineGreen = "#06C755" // LINE Green (iOS) - Primary brand color

	// Gray Scale - For text, labels, and UI elements
	ColorWhite   = "#FFFFFF" // Pure white
	ColorGray300 = "#DFDFDF" // Separator, divider
	ColorGray500 = "#949494" // Label text (3.0:1 contrast ratio)
	ColorGray600 = "#777777" // Secondary text
	ColorGray900 = "#111111" // Primary text (highest contrast)

	// Accent Colors - For emphasis and interactive elements
	ColorBlue500 = "#638DFF" // Button background, secondary actions
	ColorRed400  = "#FF334B" // Error, warning (iOS)

	// Semantic Colors - Use these for consistent meaning across the app
	ColorPrimary   = ColorLineGreen
	ColorSecondary = ColorBlue500
	ColorDanger    = ColorRed400

	// Text Colors - For typography hierarchy
	ColorText    = ColorGray900 // Primary text (body, headings)
	ColorLabel   = "#666666"    // Labels, captions (WCAG AA compliant)
	ColorSubtext = ColorGray600 // Secondary text, descriptions

	// Component Colors - For specific UI components
	ColorHeroBg    = ColorLineGreen // Hero section background
	ColorHeroText  = ColorWhite     // Hero section text
	ColorSeparator = ColorGray300   // Divider lines

	// Opening status badge colors
	ColorOpenBadge    = ColorLineGreen // Business currently open
	ColorClosedBadge  = ColorRed400    // Business currently closed
	ColorUnknownBadge = ColorGray500   // Opening hours unknown
)

// LINE API Character Limits (Rune count)
// References: https://developers.line.biz/en/reference/messaging-api/
const (
	MaxTextMessageLength = 5000 // Text message max content length
	MaxAltTextLength     = 400  // Template/Flex message alt text length
	MaxPostbackData      = 300  // Postback action data length

	// Flex Message Limits
	MaxFlexCarouselBubbleCount = 12 // Max bubbles in a Flex carousel

	// Quick Reply Limits
	MaxQuickReplyItemCount = 13 // Max items in a quick reply
	MaxQuickReplyLabel     = 20 // Max label length for quick reply item
)
