package main

import (
	"github.com/kvasnikov/sentinel/cmd/sentinel-relay/cmd"
)

func main() {
	cmd.Execute()
}
