package main

import (
	"fmt"
	"os"
)

func main() {
	app := &app{}
	root := newRootCmd(app)

	err := root.Execute()
	app.shutdown()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
