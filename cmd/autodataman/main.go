// Copyright © 2018 One Concern

package main

import (
	"github.com/oneconcern/autodataman/cmd/autodataman/cmd"
)

func main() {
	cmd.Execute()
}
