// Command overlaysim exercises the overlay core interactively: mouse drags
// drive the pointer gesture pipeline, keys drive a simulated native back
// gesture and the telemetry levels feeding the tier controller.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"codeberg.org/mutker/overlayd/internal/history"
)

func main() {
	help := flag.Bool("help", false, "Show help")
	historyDB := flag.String("history-db", "", "Record gesture sessions to this database")
	flag.Parse()

	if *help {
		fmt.Println("Usage: overlaysim [--history-db PATH]")
		fmt.Println("\nInteractive simulator for the overlay tier and gesture pipelines.")
		fmt.Println("Drag with the mouse to dismiss; see the in-app help for keys.")
		os.Exit(0)
	}

	var recorder history.Recorder
	if *historyDB != "" {
		var err error
		recorder, err = history.NewRepository(history.Config{
			DBPath:  *historyDB,
			Enabled: true,
		})
		if err != nil {
			fmt.Printf("Error opening history database: %v\n", err)
			os.Exit(1)
		}
		defer recorder.Close()
	}

	m := newModel(recorder)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running simulator: %v\n", err)
		os.Exit(1)
	}
}
