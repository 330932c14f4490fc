package main

import "github.com/user/notionclip/cmd"

func main() {
	cmd.Execute()
}
