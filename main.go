package main

import "github.com/MalayathiGeetha/MailMind-AI/cmd"

func main() {
	cmd.Execute()
}
