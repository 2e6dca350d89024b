package main

import "github.com/shouni/gemini-mockup-studio/cmd"

func main() {
	cmd.Execute()
}
