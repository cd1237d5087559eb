package ui

import "time"

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconPlay     = "▶"
	IconQueued   = "⏳"
	IconStop     = "⏹"
	IconDone     = "✔"
	IconFolder   = "📁"
	IconFile     = "📄"
	IconClose    = "×"
	IconError    = "❌"
	IconPaste    = "📋"
)

// Text fragments
const (
	MiddleDotSeparator  = " · "
	DashPlaceholder     = "—"
	ProgressLabelFormat = "%d%%"
	ReasonSeparator     = ": "
)

// Layout sizing (ItemRow / lists)
const (
	ThumbnailWidth   float32 = 120
	ThumbnailHeight  float32 = 68
	StatusLabelWidth float32 = 96
	ResolutionWidth  float32 = 96
	RowMinWidth      float32 = 560
	RowMinHeight     float32 = 80
	LinksEntryHeight float32 = 90
	WindowWidth      float32 = 960
	WindowHeight     float32 = 640
	SettingsWidth    float32 = 500
	SettingsHeight   float32 = 360
)

// Timeouts
const (
	ThumbnailFetchTimeout = 15 * time.Second
)
