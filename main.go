package main

import (
	"os"

	"github.com/spigell/resume-matcher/cmd"
)

func main() {
	os.Exit(cmd.ExitCode(cmd.Execute()))
}
