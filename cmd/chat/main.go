// Command chat is the terminal client: it signs in against the auth backend
// and sends each prompt to every enabled model at once.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
