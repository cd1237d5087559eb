package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// Status colors used by the queue rows
var (
	colorCompleted = color.NRGBA{R: 46, G: 160, B: 67, A: 255}
	colorFailed    = color.NRGBA{R: 198, G: 40, B: 40, A: 255}
	colorCancelled = color.NRGBA{R: 230, G: 145, B: 0, A: 255}
	colorActive    = color.NRGBA{R: 25, G: 118, B: 210, A: 255}
)

// QueueTheme is the default theme with dense rows and status colors
type QueueTheme struct {
	base fyne.Theme
}

// NewQueueTheme creates the application theme
func NewQueueTheme() fyne.Theme {
	return &QueueTheme{base: theme.DefaultTheme()}
}

// Color maps the success/error/warning/primary roles to status colors
func (t *QueueTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameSuccess:
		return colorCompleted
	case theme.ColorNameError:
		return colorFailed
	case theme.ColorNameWarning:
		return colorCancelled
	case theme.ColorNamePrimary:
		return colorActive
	}
	return t.base.Color(name, variant)
}

func (t *QueueTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

func (t *QueueTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size shrinks paddings so more rows fit on screen
func (t *QueueTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameLineSpacing:
		return 2
	case theme.SizeNameText:
		return 13
	case theme.SizeNameCaptionText:
		return 10
	}
	return t.base.Size(name)
}
