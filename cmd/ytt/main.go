// Command ytt fetches YouTube transcripts from the command line.
package main

import "github.com/anatolykoptev/go_transcript/internal/cli"

func main() {
	cli.Main()
}
