package main

import "github.com/gerunddev/mdcards/internal/commands"

func main() {
	commands.Execute()
}
