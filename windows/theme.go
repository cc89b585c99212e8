package windows

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// CustomTheme gives the viewer a muted green palette that keeps map
// geometry readable against the canvas background.
type CustomTheme struct{}

var _ fyne.Theme = (*CustomTheme)(nil)

func (m CustomTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if variant == theme.VariantLight {
		switch name {
		case theme.ColorNameBackground:
			return color.NRGBA{R: 0xfa, G: 0xfa, B: 0xf7, A: 0xff} // Warm off-white
		case theme.ColorNameButton:
			return color.NRGBA{R: 0x2e, G: 0x7d, B: 0x32, A: 0xff} // Forest green
		case theme.ColorNamePrimary:
			return color.NRGBA{R: 0x2e, G: 0x7d, B: 0x32, A: 0xff}
		case theme.ColorNameHover:
			return color.NRGBA{R: 0x66, G: 0xbb, B: 0x6a, A: 0xff} // Lighter green
		case theme.ColorNameFocus:
			return color.NRGBA{R: 0x1b, G: 0x5e, B: 0x20, A: 0xff} // Darker green
		case theme.ColorNameForeground:
			return color.NRGBA{R: 0x21, G: 0x21, B: 0x21, A: 0xff}
		case theme.ColorNameInputBackground:
			return color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
		case theme.ColorNameSelection:
			return color.NRGBA{R: 0xc8, G: 0xe6, B: 0xc9, A: 0xff} // Pale green selection
		}
	} else {
		switch name {
		case theme.ColorNameBackground:
			return color.NRGBA{R: 0x1e, G: 0x1e, B: 0x1e, A: 0xff}
		case theme.ColorNameButton:
			return color.NRGBA{R: 0x66, G: 0xbb, B: 0x6a, A: 0xff}
		case theme.ColorNamePrimary:
			return color.NRGBA{R: 0x66, G: 0xbb, B: 0x6a, A: 0xff}
		case theme.ColorNameHover:
			return color.NRGBA{R: 0x81, G: 0xc7, B: 0x84, A: 0xff}
		case theme.ColorNameFocus:
			return color.NRGBA{R: 0xa5, G: 0xd6, B: 0xa7, A: 0xff}
		case theme.ColorNameForeground:
			return color.NRGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}
		case theme.ColorNameInputBackground:
			return color.NRGBA{R: 0x2d, G: 0x2d, B: 0x2d, A: 0xff}
		case theme.ColorNameSelection:
			return color.NRGBA{R: 0x2e, G: 0x7d, B: 0x32, A: 0xff}
		}
	}
	return theme.DefaultTheme().Color(name, variant)
}

func (m CustomTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (m CustomTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (m CustomTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 6
	case theme.SizeNameInlineIcon:
		return 20
	case theme.SizeNameScrollBar:
		return 12
	case theme.SizeNameSeparatorThickness:
		return 1
	}
	return theme.DefaultTheme().Size(name)
}
