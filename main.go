package main

import "github.com/naka-gawa/devops-phase-stats/cmd"

func main() {
	cmd.Execute()
}
