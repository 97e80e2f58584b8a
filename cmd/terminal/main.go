// battleship-terminal plays a game against the computer in the terminal.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/saeidalz13/battleship-solo/internal/config"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
	"github.com/saeidalz13/battleship-solo/ui"
)

var (
	flagGridSize = flag.Int("gridsize", 0, "Grid size (defaults to GRID_SIZE or 10)")
	flagName     = flag.String("name", mb.DefaultPlayerOneName, "Your name on the scoreboard")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// the terminal belongs to tview, logs go to a file
	logPath, err := xdg.StateFile("battleship/terminal.log")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logFile.Close()
	log.SetOutput(logFile)
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	gridSize := cfg.GridSize
	if *flagGridSize > 0 {
		gridSize = *flagGridSize
	}
	// one letter per column
	if gridSize > 26 {
		fmt.Fprintf(os.Stderr, "grid size %d is larger than 26\n", gridSize)
		os.Exit(1)
	}

	newGame := func() (*mb.Game, error) {
		return mb.NewGame(mb.DefaultShipRoster, gridSize, mb.WithPlayerNames(*flagName, ""))
	}
	game, err := newGame()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start game: %s\n", err)
		os.Exit(1)
	}
	log.Info("game started", "game", game.Uuid(), "grid", gridSize)

	app := tview.NewApplication()

	hint := tview.NewTextView().SetDynamicColors(true)
	hint.SetBorder(true)
	hint.SetBorderPadding(0, 0, 1, 1)
	hint.SetTitle(" Status ")
	hint.SetTitleAlign(tview.AlignLeft)

	board := ui.NewBattleBoard(game, hint, newGame)
	board.Box.SetBorder(true).SetTitle(" ⚓ battleship ")

	frame := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(board.Box, gridSize+5, 0, true).
		AddItem(hint, 7, 0, false)

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlC || (event.Key() == tcell.KeyRune && event.Rune() == 'q') {
			app.Stop()
			return nil
		}
		return event
	})

	if err := app.SetRoot(frame, true).EnableMouse(true).Run(); err != nil {
		log.Error("terminal ui stopped", "err", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
