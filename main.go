package main

import (
	"os"

	"github.com/nuts-foundation/nuts-cosign/cmd"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

func main() {
	logrus.SetOutput(os.Stdout)
	logrus.SetFormatter(&prefixed.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
	})
	cmd.Execute()
}
