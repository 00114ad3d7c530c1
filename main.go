package main

import (
	"overviewly/cmd/handlers"
	"overviewly/internal/logger"
)

func main() {
	logger.Init()
	handlers.Execute()
}
