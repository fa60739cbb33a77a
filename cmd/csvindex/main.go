// Command csvindex builds and queries a range index over a column of a
// delimited-text file (spec §1, §6).
package main

import "github.com/orottier/csvindex/internal/cli"

func main() {
	cli.Execute()
}
