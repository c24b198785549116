package main

import (
	"github.com/kvasnikov/sentinel/cmd/sentinel-server/cmd"
)

func main() {
	cmd.Execute()
}
