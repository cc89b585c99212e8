package main

import (
	"os"

	"geoview/windows"
)

func main() {
	w := windows.CreateMainWindow()
	if len(os.Args) > 1 {
		w.OpenPath(os.Args[1])
	}
	w.ShowAndRun()
}
