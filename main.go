// SPDX-License-Identifier: MPL-2.0

package main

import (
	"github.com/joho/godotenv"

	cmd "github.com/jpmsdeps/jpmsdeps/cmd/jpmsdeps"
)

func main() {
	// A missing .env file is not an error; JPMSDEPS_* overrides are optional.
	_ = godotenv.Load()
	cmd.Execute()
}
