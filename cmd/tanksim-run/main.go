// Command tanksim-run builds and runs a simulation horizon from a
// config file and prints its output streams.
package main

import "github.com/oiltrace/tanksim/internal/adapters/cli"

func main() {
	cli.Execute()
}
