package main

import "github.com/Togather-Foundation/clubhub/cmd/server/cmd"

func main() {
	cmd.Execute()
}
