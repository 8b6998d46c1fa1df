package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

var (
	app      *tview.Application
	pages    *tview.Pages
	flex     *tview.Flex
	infoView *tview.TextView
	helpView *tview.TextView
	helpText = `
[yellow]Enter[white]: pick a card / run action
[yellow]F2[white]: rescan cards dir for pngs and charx archives
[yellow]F5[white]: reload card list
[yellow]F12[white]: toggle this help
[yellow]Esc[white]: quit
`
)

const (
	mainPage = "main"
	helpPage = "help"
)

func initTUI() {
	theme := tview.Theme{
		PrimitiveBackgroundColor:    tcell.ColorDefault,
		ContrastBackgroundColor:     tcell.ColorGray,
		MoreContrastBackgroundColor: tcell.ColorNavy,
		BorderColor:                 tcell.ColorGray,
		TitleColor:                  tcell.ColorRed,
		GraphicsColor:               tcell.ColorBlue,
		PrimaryTextColor:            tcell.ColorOlive,
		SecondaryTextColor:          tcell.ColorYellow,
		TertiaryTextColor:           tcell.ColorOrange,
		InverseTextColor:            tcell.ColorPurple,
		ContrastSecondaryTextColor:  tcell.ColorLime,
	}
	tview.Styles = theme
	app = tview.NewApplication()
	pages = tview.NewPages()
	infoView = tview.NewTextView().
		SetDynamicColors(true).
		SetChangedFunc(func() {
			app.Draw()
		})
	infoView.SetBorder(true).SetTitle("output")
	helpView = tview.NewTextView().SetDynamicColors(true).SetText(helpText)
	helpView.SetBorder(true).SetTitle("keys")
}

func rebuildMainPage() {
	table := makeCardTable()
	flex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(table, 0, 3, true).
		AddItem(infoView, 0, 2, false)
	pages.RemovePage(mainPage)
	pages.AddPage(mainPage, flex, true, true)
	app.SetFocus(table)
}

func notify(format string, args ...any) {
	fmt.Fprintf(infoView, format+"\n", args...)
}

func runTUI() error {
	initTUI()
	rebuildMainPage()
	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF2:
			n := scanCardsDir()
			notify("imported %d card(s) from %s", n, cfg.CardsDir)
			rebuildMainPage()
			return nil
		case tcell.KeyF5:
			rebuildMainPage()
			return nil
		case tcell.KeyF12:
			if pages.HasPage(helpPage) {
				pages.RemovePage(helpPage)
			} else {
				pages.AddPage(helpPage, helpView, true, true)
			}
			return nil
		case tcell.KeyEscape:
			app.Stop()
			return nil
		}
		return event
	})
	return app.SetRoot(pages, true).EnableMouse(true).Run()
}
