package main

import (
	"github.com/mj1618/applaunch/cmd"
	_ "github.com/mj1618/applaunch/internal/platform/darwin"
)

func main() {
	cmd.Execute()
}
