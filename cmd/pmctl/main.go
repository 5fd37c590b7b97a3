/*
Package main is the entry point of pmctl, the PixelMinds terminal client.
*/
package main

import (
	"os"

	"pixelminds/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
