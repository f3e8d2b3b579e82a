package main

import "github.com/klytics/sheetjson/cmd"

func main() {
	cmd.Execute()
}
