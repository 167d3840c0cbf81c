package main

import "github.com/quizforge/mathduel/internal/cli"

func main() {
	cli.Execute()
}
