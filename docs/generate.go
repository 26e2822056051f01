package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/nuts-foundation/nuts-cosign/engine"
)

func main() {
	if err := generateConfigOptionsDocs("README_options.md", engine.NewCoSignEngine().FlagSet); err != nil {
		logrus.Fatal(err)
	}
}

// generateConfigOptionsDocs writes a markdown table of all flags, which double as config file keys.
func generateConfigOptionsDocs(fileName string, flags *pflag.FlagSet) error {
	f, err := os.Create(fileName)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintln(f, "| Key | Default | Description |")
	fmt.Fprintln(f, "|-----|---------|-------------|")
	flags.VisitAll(func(flag *pflag.Flag) {
		fmt.Fprintf(f, "| %s | %s | %s |\n", flag.Name, flag.DefValue, flag.Usage)
	})
	return nil
}
