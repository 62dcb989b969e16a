package main

import (
	"image/color"

	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/tilesheet/colors"
)

var (
	black = colors.Color{A: 1}
	white = colors.NoHull
)

// viewerPalette holds the panel colours. Highlights are tints of the group
// accent colour so selection in the list matches hull overlays on the canvas.
type viewerPalette struct {
	panel     color.Color
	surface   color.Color
	disabled  color.Color
	selecting color.Color
	selected  color.Color
	selText   color.Color
	hover     color.Color
	pressed   color.Color
}

func newViewerPalette(groupCount int) viewerPalette {
	accent := colors.Accent(groupCount)
	return viewerPalette{
		panel:     color.RGBA{40, 40, 40, 255},
		surface:   color.RGBA{220, 220, 220, 255},
		disabled:  color.Gray{Y: 128},
		selecting: accent.Mix(white, 0.75),
		selected:  accent.Mix(white, 0.55),
		selText:   accent.Mix(black, 0.6),
		hover:     accent.Mix(white, 0.8),
		pressed:   accent.Mix(black, 0.2),
	}
}

func solidNineSlice(c color.Color) *image.NineSlice {
	return image.NewNineSliceColor(c)
}

func newViewerTheme(fontFace *text.Face, pal viewerPalette) *widget.Theme {
	surface := solidNineSlice(pal.surface)
	return &widget.Theme{
		ListTheme: &widget.ListParams{
			EntryFace: fontFace,
			EntryColor: &widget.ListEntryColor{
				Unselected:          color.Black,
				Selected:            pal.selText,
				DisabledUnselected:  pal.disabled,
				DisabledSelected:    pal.disabled,
				SelectingBackground: pal.selecting,
				SelectedBackground:  pal.selected,
			},
			ScrollContainerImage: &widget.ScrollContainerImage{
				Idle: surface,
				Mask: surface,
			},
		},
		PanelTheme: &widget.PanelParams{
			BackgroundImage: solidNineSlice(pal.panel),
		},
		ButtonTheme: &widget.ButtonParams{
			Image: &widget.ButtonImage{
				Idle:    solidNineSlice(color.RGBA{180, 180, 180, 255}),
				Hover:   solidNineSlice(pal.hover),
				Pressed: solidNineSlice(pal.pressed),
			},
			TextFace: fontFace,
			TextColor: &widget.ButtonTextColor{
				Idle: color.Black,
			},
		},
	}
}
