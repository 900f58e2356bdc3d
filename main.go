// Copyright © 2018 The ELPS authors

package main

import "github.com/tessellate/schemer/cmd"

func main() {
	cmd.Execute()
}
