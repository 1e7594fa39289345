// Tress - hair-colour measurement analysis
//
// Tress selects representative hair-colour samples from measurement
// batches and remaps hair regions of images to measured cluster colours.
package main

import (
	"github.com/haircolorlab/tress/internal/cli"
)

func main() {
	cli.Execute()
}
