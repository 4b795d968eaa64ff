package main

import (
	"github.com/duskforge/grimwall/cmd"
	"github.com/duskforge/grimwall/logger"
)

func main() {
	logger.Init()
	cmd.Execute()
}
