// ZipLog - merge logs by timestamps
//
// ZipLog interleaves several log files into one chronological stream,
// detecting each file's timestamp format on its own.
package main

import (
	"os"

	"github.com/ccollicutt/ziplog/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
