package main

import (
	"asmkit/internal/app"
	"asmkit/internal/appshell"
)

func main() { appshell.Main(app.RunContext) }
