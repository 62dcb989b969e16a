package main

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/tilesheet/colors"
	"golang.org/x/image/font/gofont/goregular"
)

// groupEntry is one row of the collision group list.
type groupEntry struct {
	Index int
	Name  string
	Color colors.Color
}

// panelActions are the callbacks the side panel triggers.
type panelActions struct {
	onSelect func(name string)
	onAdd    func(name string)
	onRename func(name string)
	onRemove func()
	onUndo   func()
	onRedo   func()
	onSave   func()
}

// groupPanel lists the collision groups and holds the edit buttons.
type groupPanel struct {
	list      *widget.List
	nameInput *widget.TextInput
	entries   []any
	// suppressEvents keeps programmatic list updates from being treated as
	// user selections.
	suppressEvents bool
}

func (gp *groupPanel) SetGroups(names []string, groupColors []colors.Color, selected []string) {
	if gp == nil || gp.list == nil {
		return
	}
	gp.suppressEvents = true
	defer func() { gp.suppressEvents = false }()

	entries := make([]any, len(names))
	for i, name := range names {
		e := groupEntry{Index: i, Name: name, Color: colors.NoHull}
		if i < len(groupColors) {
			e.Color = groupColors[i]
		}
		entries[i] = e
	}
	gp.entries = entries
	gp.list.SetEntries(entries)
	for _, e := range entries {
		if len(selected) > 0 && e.(groupEntry).Name == selected[0] {
			gp.list.SetSelectedEntry(e)
		}
	}
}

// buildViewerUI builds the side panel. groupCount picks the highlight
// colour from the group colour table.
func buildViewerUI(panelWidth, groupCount int, actions panelActions) (*ebitenui.UI, *groupPanel) {
	ui := &ebitenui.UI{}

	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		panic("Failed to load font: " + err.Error())
	}
	var fontFace text.Face = &text.GoTextFace{Source: s, Size: 14}
	pal := newViewerPalette(groupCount)
	ui.PrimaryTheme = newViewerTheme(&fontFace, pal)
	theme := ui.PrimaryTheme

	gp := &groupPanel{}
	labelColor := &widget.LabelColor{Idle: color.White, Disabled: color.Gray{Y: 140}}

	panel := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(panelWidth, 400),
		),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(pal.panel)),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionVertical),
				widget.RowLayoutOpts.Spacing(8),
			),
		),
	)
	panel.AddChild(widget.NewLabel(
		widget.LabelOpts.Text("Collision groups", &fontFace, labelColor),
	))

	gp.list = widget.NewList(
		widget.ListOpts.Entries([]any{}),
		widget.ListOpts.EntryLabelFunc(func(e any) string {
			if entry, ok := e.(groupEntry); ok {
				return fmt.Sprintf("%d. %s  %s", entry.Index, entry.Name, entry.Color.Hex())
			}
			return ""
		}),
		widget.ListOpts.EntrySelectedHandler(func(args *widget.ListEntrySelectedEventArgs) {
			entry, ok := args.Entry.(groupEntry)
			if !ok || gp.suppressEvents {
				return
			}
			if actions.onSelect != nil {
				actions.onSelect(entry.Name)
			}
		}),
	)
	panel.AddChild(gp.list)

	gp.nameInput = widget.NewTextInput(
		widget.TextInputOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(panelWidth-16, 28),
		),
		widget.TextInputOpts.Image(&widget.TextInputImage{
			Idle:     solidNineSlice(color.RGBA{245, 245, 245, 255}),
			Disabled: solidNineSlice(color.RGBA{200, 200, 200, 255}),
		}),
		widget.TextInputOpts.Color(&widget.TextInputColor{
			Idle:     color.Black,
			Disabled: color.Gray{Y: 120},
			Caret:    color.Black,
		}),
		widget.TextInputOpts.Face(&fontFace),
	)
	panel.AddChild(gp.nameInput)

	button := func(label string, fn func()) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(theme.ButtonTheme.Image),
			widget.ButtonOpts.Text(label, &fontFace, theme.ButtonTheme.TextColor),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				if fn != nil {
					fn()
				}
			}),
		)
	}
	row := func(buttons ...*widget.Button) *widget.Container {
		c := widget.NewContainer(
			widget.ContainerOpts.Layout(
				widget.NewRowLayout(
					widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
					widget.RowLayoutOpts.Spacing(6),
				),
			),
		)
		for _, b := range buttons {
			c.AddChild(b)
		}
		return c
	}

	withName := func(fn func(string)) func() {
		return func() {
			name := gp.nameInput.GetText()
			if name == "" || fn == nil {
				return
			}
			fn(name)
			gp.nameInput.SetText("")
		}
	}
	panel.AddChild(row(
		button("Add", withName(actions.onAdd)),
		button("Rename", withName(actions.onRename)),
		button("Remove", actions.onRemove),
	))
	panel.AddChild(row(
		button("Undo", actions.onUndo),
		button("Redo", actions.onRedo),
		button("Save", actions.onSave),
	))

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	panel.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionStart,
		VerticalPosition:   widget.AnchorLayoutPositionCenter,
		StretchVertical:    true,
	}
	root.AddChild(panel)
	ui.Container = root

	return ui, gp
}
