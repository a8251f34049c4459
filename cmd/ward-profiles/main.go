// Command ward-profiles refreshes the Toronto Ward Profiles census CSV.
package main

import "github.com/pfrederiksen/ward-profiles/internal/cli"

func main() {
	cli.Execute()
}
